package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// Client represents a read-only YouTube Data API client
type Client struct {
	service *youtube.Service
}

// Config represents YouTube API configuration
type Config struct {
	APIKey      string `json:"api_key"`
	AccessToken string `json:"access_token"`

	// Endpoint overrides the API base URL, e.g. for a local stand-in server.
	Endpoint string `json:"endpoint"`
}

// NewYouTubeClient creates a new YouTube API client
func NewYouTubeClient(ctx context.Context, config *Config) (repository.IYouTube, error) {
	var opts []option.ClientOption
	switch {
	case config.AccessToken != "":
		// Bearer mode. The token is used as-is; refreshing it is the caller's business.
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.AccessToken, TokenType: "Bearer"})
		opts = append(opts, option.WithTokenSource(ts))
	case config.APIKey != "":
		opts = append(opts, option.WithAPIKey(config.APIKey))
	default:
		return nil, model.ErrMissingCredential
	}
	if config.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(config.Endpoint))
	}

	service, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube service: %w", err)
	}
	return &Client{service: service}, nil
}

// Factory builds clients per credential, sharing endpoint and defaults.
type Factory struct {
	defaults Config
}

func NewFactory(defaults Config) repository.IYouTubeFactory {
	return &Factory{defaults: defaults}
}

// NewClient uses the given credential, falling back to the configured one when it is empty.
func (f *Factory) NewClient(ctx context.Context, credential dto.Credential) (repository.IYouTube, error) {
	cfg := f.defaults
	if !credential.Empty() {
		cfg.APIKey = credential.APIKey
		cfg.AccessToken = credential.AccessToken
	}
	return NewYouTubeClient(ctx, &cfg)
}

func (c *Client) ChannelIDByUsername(ctx context.Context, username string) (string, error) {
	response, err := c.service.Channels.List([]string{"id"}).
		ForUsername(username).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError("channels.list", err)
	}
	return firstChannelID(response), nil
}

func (c *Client) ChannelIDByHandle(ctx context.Context, handle string) (string, error) {
	response, err := c.service.Channels.List([]string{"id"}).
		ForHandle(handle).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError("channels.list", err)
	}
	return firstChannelID(response), nil
}

func (c *Client) SearchChannelID(ctx context.Context, query string) (string, error) {
	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("channel").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return "", wrapError("search.list", err)
	}
	for _, item := range response.Items {
		if item.Snippet != nil && item.Snippet.ChannelId != "" {
			return item.Snippet.ChannelId, nil
		}
		if item.Id != nil && item.Id.ChannelId != "" {
			return item.Id.ChannelId, nil
		}
	}
	return "", nil
}

func (c *Client) GetChannel(ctx context.Context, channelID string) (*model.ChannelInfo, error) {
	response, err := c.service.Channels.List([]string{"snippet", "statistics", "contentDetails"}).
		Id(channelID).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError("channels.list", err)
	}
	if len(response.Items) == 0 {
		return nil, nil
	}

	channel := response.Items[0]
	info := &model.ChannelInfo{ID: channel.Id}
	if channel.Snippet != nil {
		info.Title = channel.Snippet.Title
	}
	if channel.Statistics != nil {
		if !channel.Statistics.HiddenSubscriberCount {
			subscribers := channel.Statistics.SubscriberCount
			info.SubscriberCount = &subscribers
		}
		videos := channel.Statistics.VideoCount
		info.VideoCount = &videos
	}
	if channel.ContentDetails != nil && channel.ContentDetails.RelatedPlaylists != nil {
		info.UploadsPlaylistID = channel.ContentDetails.RelatedPlaylists.Uploads
	}
	return info, nil
}

func (c *Client) ListPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*dto.PlaylistItemPage, error) {
	call := c.service.PlaylistItems.List([]string{"snippet", "contentDetails"}).
		PlaylistId(playlistID).
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", model.ErrPlaylistNotFound, playlistID)
		}
		return nil, wrapError("playlistItems.list", err)
	}

	page := &dto.PlaylistItemPage{NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		if item.Snippet == nil {
			continue
		}
		entry := dto.PlaylistEntry{
			Title:       item.Snippet.Title,
			PublishedAt: parseTime(item.Snippet.PublishedAt),
		}
		if item.Snippet.ResourceId != nil {
			entry.VideoID = item.Snippet.ResourceId.VideoId
		}
		if entry.VideoID == "" && item.ContentDetails != nil {
			entry.VideoID = item.ContentDetails.VideoId
		}
		if entry.VideoID == "" {
			continue
		}
		page.Items = append(page.Items, entry)
	}
	return page, nil
}

func (c *Client) ListVideoDetails(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error) {
	if len(videoIDs) == 0 {
		return nil, nil
	}
	response, err := c.service.Videos.List([]string{"snippet", "statistics", "contentDetails", "liveStreamingDetails"}).
		Id(strings.Join(videoIDs, ",")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapError("videos.list", err)
	}

	details := make([]dto.VideoDetail, 0, len(response.Items))
	for _, video := range response.Items {
		details = append(details, convertToVideoDetail(video))
	}
	return details, nil
}

// convertToVideoDetail converts YouTube API video to our detail view
func convertToVideoDetail(video *youtube.Video) dto.VideoDetail {
	detail := dto.VideoDetail{ID: video.Id}
	if video.Snippet != nil {
		detail.Title = video.Snippet.Title
		detail.ChannelTitle = video.Snippet.ChannelTitle
		detail.PublishedAt = parseTime(video.Snippet.PublishedAt)
		detail.Tags = video.Snippet.Tags
	}
	if video.ContentDetails != nil {
		detail.Duration = video.ContentDetails.Duration
	}
	if video.Statistics != nil {
		detail.ViewCount = int64(video.Statistics.ViewCount)
		detail.LikeCount = int64(video.Statistics.LikeCount)
		detail.CommentCount = int64(video.Statistics.CommentCount)
	}
	if live := video.LiveStreamingDetails; live != nil {
		detail.Live = &model.LiveDetails{
			ScheduledStartTime: live.ScheduledStartTime,
			ActualStartTime:    live.ActualStartTime,
			ActualEndTime:      live.ActualEndTime,
		}
	}
	return detail
}

func (c *Client) SearchCompletedLive(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.SearchPage, error) {
	call := c.service.Search.List([]string{"id"}).
		ChannelId(channelID).
		Type("video").
		EventType("completed").
		Order("date").
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapError("search.list", err)
	}

	page := &dto.SearchPage{NextPageToken: response.NextPageToken}
	for _, item := range response.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			page.VideoIDs = append(page.VideoIDs, item.Id.VideoId)
		}
	}
	return page, nil
}

func (c *Client) ListPlaylists(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.PlaylistPage, error) {
	call := c.service.Playlists.List([]string{"snippet", "contentDetails"}).
		ChannelId(channelID).
		MaxResults(maxResults)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}

	response, err := call.Context(ctx).Do()
	if err != nil {
		return nil, wrapError("playlists.list", err)
	}

	page := &dto.PlaylistPage{NextPageToken: response.NextPageToken}
	for _, playlist := range response.Items {
		summary := dto.PlaylistSummary{ID: playlist.Id}
		if playlist.Snippet != nil {
			summary.Title = playlist.Snippet.Title
			summary.Description = playlist.Snippet.Description
			summary.ChannelTitle = playlist.Snippet.ChannelTitle
			summary.PublishedAt = parseTime(playlist.Snippet.PublishedAt)
		}
		if playlist.ContentDetails != nil {
			summary.ItemCount = playlist.ContentDetails.ItemCount
		}
		page.Items = append(page.Items, summary)
	}
	return page, nil
}

func firstChannelID(response *youtube.ChannelListResponse) string {
	for _, item := range response.Items {
		if item.Id != "" {
			return item.Id
		}
	}
	return ""
}

func parseTime(value string) time.Time {
	t, _ := time.Parse(time.RFC3339, value)
	return t
}

func isNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

func wrapError(op string, err error) error {
	return &model.TransportError{Op: op, Err: err}
}
