package repository

import (
	"context"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
)

// IExporter renders a fetch result into a downloadable file format.
type IExporter interface {
	Extension() string
	ContentType() string
	Export(result *model.FetchResult) ([]byte, error)
}

// ISheetExporter writes a fetch result into a new Google spreadsheet.
type ISheetExporter interface {
	Export(ctx context.Context, result *model.FetchResult) (*dto.SheetExport, error)
}

// IFetchEventPublisher announces completed fetches to other services.
type IFetchEventPublisher interface {
	PublishFetchCompleted(ctx context.Context, event *dto.FetchCompletedEvent) error
}
