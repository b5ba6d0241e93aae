package export

import (
	"fmt"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type XLSXExporter struct{}

func NewXLSXExporter() repository.IExporter {
	return &XLSXExporter{}
}

func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) ContentType() string { return xlsxContentType }

// Export renders the result as a workbook with one worksheet per Sheet.
func (e *XLSXExporter) Export(result *model.FetchResult) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sheet := range Sheets(result) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				return nil, fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %s: %w", sheet.Name, err)
		}
		if err := writeSheet(f, sheet, headerStyle); err != nil {
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet Sheet, headerStyle int) error {
	for i, row := range sheet.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet.Name, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d of %s: %w", i+1, sheet.Name, err)
		}
	}
	if len(sheet.Rows) == 0 {
		return nil
	}
	if err := f.SetRowStyle(sheet.Name, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %s: %w", sheet.Name, err)
	}
	last, err := excelize.ColumnNumberToName(len(sheet.Rows[0]))
	if err != nil {
		return err
	}
	return f.SetColWidth(sheet.Name, "A", last, 18)
}
