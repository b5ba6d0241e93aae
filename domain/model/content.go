package model

import "time"

// ContentType is the classification of one piece of channel content.
type ContentType string

const (
	ContentTypeVideo         ContentType = "Video"
	ContentTypeShort         ContentType = "Short"
	ContentTypeLiveScheduled ContentType = "Live Stream (Scheduled)"
	ContentTypeLiveActive    ContentType = "Live Stream (Active)"
	ContentTypeLiveEnded     ContentType = "Live Stream (Ended)"
	ContentTypePlaylist      ContentType = "Playlist"
)

// ContentTypes lists every classification in display order.
var ContentTypes = []ContentType{
	ContentTypeVideo,
	ContentTypeShort,
	ContentTypeLiveScheduled,
	ContentTypeLiveActive,
	ContentTypeLiveEnded,
	ContentTypePlaylist,
}

// Valid reports whether t is one of the known classifications.
func (t ContentType) Valid() bool {
	for _, known := range ContentTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsLive reports whether t is any of the live stream classifications.
func (t ContentType) IsLive() bool {
	return t == ContentTypeLiveScheduled || t == ContentTypeLiveActive || t == ContentTypeLiveEnded
}

// LiveDetails carries the broadcast timestamps of a video that was (or will be) streamed live.
// Empty strings mean the timestamp is absent.
type LiveDetails struct {
	ScheduledStartTime string `json:"scheduled_start_time,omitempty"`
	ActualStartTime    string `json:"actual_start_time,omitempty"`
	ActualEndTime      string `json:"actual_end_time,omitempty"`
}

// ContentItem is one classified video, live stream or playlist of a channel.
type ContentItem struct {
	ContentID    string      `json:"content_id"`
	Type         ContentType `json:"type"`
	Title        string      `json:"title"`
	ChannelTitle string      `json:"channel_title"`
	PublishedAt  time.Time   `json:"published_at"`

	// DurationSeconds is nil for playlists and for streams whose length is not known yet.
	DurationSeconds *int64 `json:"duration_seconds,omitempty"`

	ViewCount    int64    `json:"view_count"`
	LikeCount    int64    `json:"like_count"`
	CommentCount int64    `json:"comment_count"`
	Tags         []string `json:"tags,omitempty"`
	URL          string   `json:"url"`
	Description  string   `json:"description,omitempty"`
	ItemCount    int64    `json:"item_count,omitempty"`
}

// ChannelInfo is the channel level metadata captured at fetch time.
type ChannelInfo struct {
	ID    string `json:"id"`
	Title string `json:"title"`

	// SubscriberCount is nil when the channel hides it.
	SubscriberCount   *uint64 `json:"subscriber_count,omitempty"`
	VideoCount        *uint64 `json:"video_count,omitempty"`
	UploadsPlaylistID string  `json:"uploads_playlist_id"`
}

type FetchOptions struct {
	IncludeLive      bool  `json:"include_live"`
	IncludePlaylists bool  `json:"include_playlists"`
	PageSize         int64 `json:"page_size"`
}

// FetchResult is the outcome of one complete fetch. A newer result replaces an older one as a whole.
type FetchResult struct {
	Channel   ChannelInfo   `json:"channel"`
	Items     []ContentItem `json:"items"`
	Options   FetchOptions  `json:"options"`
	FetchedAt time.Time     `json:"fetched_at"`
}
