package filecsv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/export"
	"yt-channel-fetcher/infrastructure/logger"
)

// utf8BOM lets spreadsheet apps detect the encoding of non-ASCII titles.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type CSVExporter struct{}

func NewCSVExporter() repository.IExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

// Export writes the All_Content table.
func (e *CSVExporter) Export(result *model.FetchResult) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	for _, row := range export.ContentRows(result.Items) {
		record := make([]string, len(row))
		for i, v := range row {
			record[i] = export.Stringify(v)
		}
		if err := w.Write(record); err != nil {
			logger.GetLogger().WithField("error", err).Error("Error while writing csv record")
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
