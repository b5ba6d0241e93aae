package googlesheet

import (
	"context"
	"fmt"
	"strings"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/export"
	"yt-channel-fetcher/infrastructure/logger"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const valueInputRaw = "RAW"

type Config struct {
	CredentialsFile string
	Endpoint        string
}

// NewSheetsService builds a Sheets client from a service account file. The endpoint override is for tests.
func NewSheetsService(ctx context.Context, cfg Config, opts ...option.ClientOption) (*sheets.Service, error) {
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint))
	}
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return svc, nil
}

type SheetExporter struct {
	service *sheets.Service
}

func NewSheetExporter(service *sheets.Service) repository.ISheetExporter {
	return &SheetExporter{service: service}
}

// Export creates a new spreadsheet with the same sheets as the xlsx export and fills them in one batch.
func (e *SheetExporter) Export(ctx context.Context, result *model.FetchResult) (*dto.SheetExport, error) {
	tables := export.Sheets(result)

	spreadsheet := &sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{
			Title: fmt.Sprintf("%s content %s", result.Channel.Title, result.FetchedAt.UTC().Format("2006-01-02 15:04:05")),
		},
	}
	data := make([]*sheets.ValueRange, 0, len(tables))
	for _, table := range tables {
		spreadsheet.Sheets = append(spreadsheet.Sheets, &sheets.Sheet{
			Properties: &sheets.SheetProperties{Title: table.Name},
		})
		data = append(data, &sheets.ValueRange{
			Range:  quoteSheet(table.Name) + "!A1",
			Values: table.Rows,
		})
	}

	created, err := e.service.Spreadsheets.Create(spreadsheet).Context(ctx).Do()
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while creating spreadsheet")
		return nil, &model.TransportError{Op: "sheets.create", Err: err}
	}

	_, err = e.service.Spreadsheets.Values.BatchUpdate(created.SpreadsheetId, &sheets.BatchUpdateValuesRequest{
		ValueInputOption: valueInputRaw,
		Data:             data,
	}).Context(ctx).Do()
	if err != nil {
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":          err,
			"spreadsheet_id": created.SpreadsheetId,
		}).Error("Error while writing spreadsheet values")
		return nil, &model.TransportError{Op: "sheets.values.batchUpdate", Err: err}
	}

	url := created.SpreadsheetUrl
	if url == "" {
		url = "https://docs.google.com/spreadsheets/d/" + created.SpreadsheetId
	}
	return &dto.SheetExport{SpreadsheetID: created.SpreadsheetId, SpreadsheetURL: url}, nil
}

func quoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}
