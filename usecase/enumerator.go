package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/logger"
	"yt-channel-fetcher/infrastructure/utils"
)

const (
	// MaxPageSize is the largest page the YouTube list endpoints hand out.
	MaxPageSize = 50
	// detailsBatchSize is the most IDs videos.list accepts in one call.
	detailsBatchSize = 50

	playlistDescriptionLimit = 100

	StageUploads   = "uploads"
	StageLive      = "live"
	StagePlaylists = "playlists"
)

// Playlists YouTube generates for every channel.
var autoGeneratedPlaylists = map[string]struct{}{
	"Uploads":      {},
	"Liked videos": {},
	"Favorites":    {},
}

// ContentEnumerator lists everything a channel has published.
type ContentEnumerator struct {
	youtube repository.IYouTube
}

func NewContentEnumerator(youtube repository.IYouTube) *ContentEnumerator {
	return &ContentEnumerator{youtube: youtube}
}

// Enumerate pages through the channel's uploads and, when asked, its completed live streams and playlists.
// Items are unique by content ID with the uploads entry kept on conflict, and sorted newest first.
// Any upstream failure aborts the whole enumeration.
func (e *ContentEnumerator) Enumerate(ctx context.Context, channel *model.ChannelInfo, opts model.FetchOptions, onProgress dto.ProgressFunc) ([]model.ContentItem, error) {
	if onProgress == nil {
		onProgress = func(dto.Progress) {}
	}
	pageSize := opts.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	seen := make(map[string]struct{})
	items, err := e.uploads(ctx, channel, pageSize, seen, onProgress)
	if err != nil {
		return nil, err
	}

	if opts.IncludeLive {
		live, err := e.completedLive(ctx, channel, seen, onProgress)
		if err != nil {
			return nil, err
		}
		items = append(items, live...)
	}

	if opts.IncludePlaylists {
		playlists, err := e.playlists(ctx, channel, seen, onProgress)
		if err != nil {
			return nil, err
		}
		items = append(items, playlists...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].PublishedAt.After(items[j].PublishedAt)
	})
	return items, nil
}

func (e *ContentEnumerator) uploads(ctx context.Context, channel *model.ChannelInfo, pageSize int64, seen map[string]struct{}, onProgress dto.ProgressFunc) ([]model.ContentItem, error) {
	if channel.UploadsPlaylistID == "" {
		logger.GetLogger().WithField("channel_id", channel.ID).Info("Channel has no uploads playlist")
		return nil, nil
	}

	var items []model.ContentItem
	token := ""
	for {
		page, err := e.youtube.ListPlaylistItems(ctx, channel.UploadsPlaylistID, token, pageSize)
		if err != nil {
			if token == "" && errors.Is(err, model.ErrPlaylistNotFound) {
				logger.GetLogger().WithField("channel_id", channel.ID).Info("Uploads playlist not found, treating channel as empty")
				return nil, nil
			}
			return nil, fmt.Errorf("failed to list uploads: %w", err)
		}

		ids := make([]string, 0, len(page.Items))
		for _, entry := range page.Items {
			ids = append(ids, entry.VideoID)
		}
		details, err := e.videoDetails(ctx, ids)
		if err != nil {
			return nil, err
		}

		for _, entry := range page.Items {
			if _, dup := seen[entry.VideoID]; dup {
				continue
			}
			detail, ok := details[entry.VideoID]
			if !ok {
				// deleted or private since it was listed
				continue
			}
			item := videoItem(detail, channel.Title)
			item.Title = entry.Title
			if !entry.PublishedAt.IsZero() {
				item.PublishedAt = entry.PublishedAt
			}
			seen[entry.VideoID] = struct{}{}
			items = append(items, item)
		}

		onProgress(dto.Progress{
			Stage:   StageUploads,
			Count:   len(items),
			Message: fmt.Sprintf("Videos: Fetched %d videos...", len(items)),
		})

		if page.NextPageToken == "" {
			return items, nil
		}
		token = page.NextPageToken
	}
}

func (e *ContentEnumerator) completedLive(ctx context.Context, channel *model.ChannelInfo, seen map[string]struct{}, onProgress dto.ProgressFunc) ([]model.ContentItem, error) {
	var items []model.ContentItem
	token := ""
	for {
		page, err := e.youtube.SearchCompletedLive(ctx, channel.ID, token, MaxPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to search completed live streams: %w", err)
		}
		if len(page.VideoIDs) == 0 {
			break
		}

		var fresh []string
		for _, id := range page.VideoIDs {
			if _, dup := seen[id]; !dup {
				fresh = append(fresh, id)
			}
		}
		details, err := e.videoDetails(ctx, fresh)
		if err != nil {
			return nil, err
		}
		for _, id := range fresh {
			detail, ok := details[id]
			if !ok || detail.Live == nil {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			items = append(items, videoItem(detail, channel.Title))
		}

		onProgress(dto.Progress{
			Stage:   StageLive,
			Count:   len(items),
			Message: fmt.Sprintf("Live: Found %d additional live videos...", len(items)),
		})

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	return items, nil
}

func (e *ContentEnumerator) playlists(ctx context.Context, channel *model.ChannelInfo, seen map[string]struct{}, onProgress dto.ProgressFunc) ([]model.ContentItem, error) {
	var items []model.ContentItem
	token := ""
	for {
		page, err := e.youtube.ListPlaylists(ctx, channel.ID, token, MaxPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to list playlists: %w", err)
		}

		for _, playlist := range page.Items {
			if _, auto := autoGeneratedPlaylists[playlist.Title]; auto {
				continue
			}
			if _, dup := seen[playlist.ID]; dup {
				continue
			}
			seen[playlist.ID] = struct{}{}
			items = append(items, playlistItem(playlist, channel.Title))
		}

		onProgress(dto.Progress{
			Stage:   StagePlaylists,
			Count:   len(items),
			Message: fmt.Sprintf("Playlists: Found %d playlists...", len(items)),
		})

		if page.NextPageToken == "" {
			break
		}
		token = page.NextPageToken
	}
	return items, nil
}

// videoDetails looks ids up in batches the details endpoint accepts.
func (e *ContentEnumerator) videoDetails(ctx context.Context, ids []string) (map[string]dto.VideoDetail, error) {
	details := make(map[string]dto.VideoDetail, len(ids))
	for start := 0; start < len(ids); start += detailsBatchSize {
		end := start + detailsBatchSize
		if end > len(ids) {
			end = len(ids)
		}
		batch, err := e.youtube.ListVideoDetails(ctx, ids[start:end])
		if err != nil {
			return nil, fmt.Errorf("failed to get video details: %w", err)
		}
		for _, detail := range batch {
			details[detail.ID] = detail
		}
	}
	return details, nil
}

func videoItem(detail dto.VideoDetail, channelTitle string) model.ContentItem {
	if detail.ChannelTitle != "" {
		channelTitle = detail.ChannelTitle
	}
	length := parseDuration(detail.Duration)
	return model.ContentItem{
		ContentID:       detail.ID,
		Type:            classify(length, detail.Live),
		Title:           detail.Title,
		ChannelTitle:    channelTitle,
		PublishedAt:     detail.PublishedAt,
		DurationSeconds: length.secondsPtr(),
		ViewCount:       detail.ViewCount,
		LikeCount:       detail.LikeCount,
		CommentCount:    detail.CommentCount,
		Tags:            detail.Tags,
		URL:             "https://youtu.be/" + detail.ID,
	}
}

func playlistItem(playlist dto.PlaylistSummary, channelTitle string) model.ContentItem {
	if playlist.ChannelTitle != "" {
		channelTitle = playlist.ChannelTitle
	}
	return model.ContentItem{
		ContentID:    playlist.ID,
		Type:         model.ContentTypePlaylist,
		Title:        playlist.Title,
		ChannelTitle: channelTitle,
		PublishedAt:  playlist.PublishedAt,
		URL:          "https://youtube.com/playlist?list=" + playlist.ID,
		Description:  utils.Truncate(playlist.Description, playlistDescriptionLimit),
		ItemCount:    playlist.ItemCount,
	}
}
