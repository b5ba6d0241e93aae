package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/logger"
	"yt-channel-fetcher/infrastructure/utils"
)

// IChannelUseCase defines the channel fetch and view operations of a session
type IChannelUseCase interface {
	// Fetch resolves and enumerates a channel, then replaces the session's stored result.
	Fetch(ctx context.Context, sessionID string, req *dto.FetchRequest, onProgress dto.ProgressFunc) (*dto.ChannelSummary, error)
	Summary(ctx context.Context, sessionID string) (*dto.ChannelSummary, error)
	Content(ctx context.Context, sessionID string, filter *dto.ContentFilter) (*dto.ContentPage, error)
	Export(ctx context.Context, sessionID, format string) (*dto.ExportFile, error)
	ExportToSheets(ctx context.Context, sessionID string) (*dto.SheetExport, error)
}

// ChannelUseCase implements IChannelUseCase
type ChannelUseCase struct {
	clients   repository.IYouTubeFactory
	sessions  repository.ISessionStore
	defaults  model.FetchOptions
	exporters map[string]repository.IExporter
	sheets    repository.ISheetExporter
	events    repository.IFetchEventPublisher
	now       func() time.Time
}

// NewChannelUseCase creates a new channel use case
func NewChannelUseCase(clients repository.IYouTubeFactory, sessions repository.ISessionStore, defaults model.FetchOptions) *ChannelUseCase {
	return &ChannelUseCase{
		clients:   clients,
		sessions:  sessions,
		defaults:  defaults,
		exporters: map[string]repository.IExporter{},
		now:       utils.GetCurrentTime,
	}
}

// WithExporters registers file exporters by their extension
func (u *ChannelUseCase) WithExporters(exporters ...repository.IExporter) *ChannelUseCase {
	for _, e := range exporters {
		u.exporters[strings.ToLower(e.Extension())] = e
	}
	return u
}

func (u *ChannelUseCase) WithSheetExporter(sheets repository.ISheetExporter) *ChannelUseCase {
	u.sheets = sheets
	return u
}

func (u *ChannelUseCase) WithEventPublisher(events repository.IFetchEventPublisher) *ChannelUseCase {
	u.events = events
	return u
}

func (u *ChannelUseCase) Fetch(ctx context.Context, sessionID string, req *dto.FetchRequest, onProgress dto.ProgressFunc) (*dto.ChannelSummary, error) {
	if strings.TrimSpace(req.Channel) == "" {
		return nil, fmt.Errorf("%w: channel reference is required", model.ErrChannelNotFound)
	}

	client, err := u.clients.NewClient(ctx, dto.Credential{APIKey: req.APIKey, AccessToken: req.AccessToken})
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}

	channelID, err := NewChannelResolver(client).Resolve(ctx, req.Channel)
	if err != nil {
		return nil, err
	}

	channel, err := client.GetChannel(ctx, channelID)
	if err != nil {
		return nil, fmt.Errorf("failed to get channel info: %w", err)
	}
	if channel == nil {
		return nil, fmt.Errorf("%w: %s", model.ErrChannelInfoUnavailable, channelID)
	}

	opts := u.options(req)
	items, err := NewContentEnumerator(client).Enumerate(ctx, channel, opts, onProgress)
	if err != nil {
		return nil, err
	}

	result := &model.FetchResult{
		Channel:   *channel,
		Items:     items,
		Options:   opts,
		FetchedAt: u.now(),
	}
	if err := u.sessions.Replace(ctx, sessionID, result); err != nil {
		return nil, fmt.Errorf("failed to store fetch result: %w", err)
	}
	logger.GetLogger().WithFields(map[string]interface{}{"channel_id": channelID, "items": len(items)}).Info("Channel fetched")

	summary := buildSummary(result)
	u.publish(ctx, sessionID, summary)
	return summary, nil
}

func (u *ChannelUseCase) options(req *dto.FetchRequest) model.FetchOptions {
	opts := u.defaults
	if req.IncludeLive != nil {
		opts.IncludeLive = *req.IncludeLive
	}
	if req.IncludePlaylists != nil {
		opts.IncludePlaylists = *req.IncludePlaylists
	}
	if opts.PageSize <= 0 || opts.PageSize > MaxPageSize {
		opts.PageSize = MaxPageSize
	}
	return opts
}

// publish never fails the fetch. The result is already stored.
func (u *ChannelUseCase) publish(ctx context.Context, sessionID string, summary *dto.ChannelSummary) {
	if u.events == nil {
		return
	}
	event := &dto.FetchCompletedEvent{
		SessionID:  sessionID,
		ChannelID:  summary.ChannelID,
		Title:      summary.Title,
		ItemCount:  summary.TotalItems,
		TypeCounts: summary.TypeCounts,
		FetchedAt:  summary.FetchedAt,
	}
	if err := u.events.PublishFetchCompleted(ctx, event); err != nil {
		logger.GetLogger().WithField("error", err).Warn("Failed to publish fetch completed event")
	}
}

func (u *ChannelUseCase) load(ctx context.Context, sessionID string) (*model.FetchResult, error) {
	result, err := u.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load fetch result: %w", err)
	}
	if result == nil {
		return nil, model.ErrNoFetchResult
	}
	return result, nil
}

func (u *ChannelUseCase) Summary(ctx context.Context, sessionID string) (*dto.ChannelSummary, error) {
	result, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return buildSummary(result), nil
}

func buildSummary(result *model.FetchResult) *dto.ChannelSummary {
	summary := &dto.ChannelSummary{
		ChannelID:         result.Channel.ID,
		Title:             result.Channel.Title,
		Subscribers:       "Hidden",
		VideoCount:        utils.NotAvailable,
		UploadsPlaylistID: result.Channel.UploadsPlaylistID,
		TotalItems:        len(result.Items),
		TypeCounts:        map[string]int{},
		FetchedAt:         result.FetchedAt,
	}
	if n := result.Channel.SubscriberCount; n != nil {
		summary.Subscribers = utils.FormatNumber(int64(*n))
	}
	if n := result.Channel.VideoCount; n != nil {
		summary.VideoCount = utils.FormatNumber(int64(*n))
	}
	for _, item := range result.Items {
		summary.TypeCounts[string(item.Type)]++
		if item.Type != model.ContentTypePlaylist {
			summary.TotalViews += item.ViewCount
		}
	}
	summary.TotalViewsDisplay = utils.FormatNumber(summary.TotalViews)
	return summary
}

func (u *ChannelUseCase) Content(ctx context.Context, sessionID string, filter *dto.ContentFilter) (*dto.ContentPage, error) {
	result, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if filter == nil {
		filter = &dto.ContentFilter{}
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	limit := rowLimit(filter.Rows)
	page := &dto.ContentPage{Rows: []dto.ContentRow{}, Total: len(result.Items)}
	for _, item := range result.Items {
		if !matchesType(item, filter.Type) {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(item.Title), query) {
			continue
		}
		page.Matched++
		if limit > 0 && len(page.Rows) >= limit {
			continue
		}
		page.Rows = append(page.Rows, contentRow(item, filter.Raw))
	}
	return page, nil
}

func matchesType(item model.ContentItem, want string) bool {
	if want == "" || strings.EqualFold(want, "all") {
		return true
	}
	return strings.EqualFold(string(item.Type), want)
}

// rowLimit returns 0 for no limit.
func rowLimit(rows string) int {
	n, err := strconv.Atoi(rows)
	if err != nil || n <= 0 {
		return 0
	}
	return n
}

func contentRow(item model.ContentItem, raw bool) dto.ContentRow {
	return dto.ContentRow{
		ContentID:   item.ContentID,
		Type:        string(item.Type),
		Title:       item.Title,
		Channel:     item.ChannelTitle,
		Published:   utils.FormatDate(item.PublishedAt),
		Duration:    utils.DurationCell(item),
		Views:       utils.CountCell(item, item.ViewCount, raw),
		Likes:       utils.CountCell(item, item.LikeCount, raw),
		Comments:    utils.CountCell(item, item.CommentCount, raw),
		Tags:        utils.TagsCell(item),
		URL:         item.URL,
		Description: item.Description,
	}
}

func (u *ChannelUseCase) Export(ctx context.Context, sessionID, format string) (*dto.ExportFile, error) {
	exporter, ok := u.exporters[strings.ToLower(strings.TrimSpace(format))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", model.ErrUnsupportedFormat, format)
	}
	result, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	data, err := exporter.Export(result)
	if err != nil {
		return nil, fmt.Errorf("failed to export %s: %w", exporter.Extension(), err)
	}
	return &dto.ExportFile{
		Filename:    exportFilename(result.Channel.Title, u.now(), exporter.Extension()),
		ContentType: exporter.ContentType(),
		Data:        data,
	}, nil
}

func (u *ChannelUseCase) ExportToSheets(ctx context.Context, sessionID string) (*dto.SheetExport, error) {
	if u.sheets == nil {
		return nil, model.ErrExportUnavailable
	}
	result, err := u.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out, err := u.sheets.Export(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("failed to export to Google Sheets: %w", err)
	}
	return out, nil
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

func exportFilename(title string, at time.Time, ext string) string {
	name := strings.Trim(unsafeFilenameChars.ReplaceAllString(title, "_"), "_")
	if name == "" {
		name = "channel"
	}
	return fmt.Sprintf("%s_content_%s.%s", name, at.Format("20060102_150405"), ext)
}
