package dto

import (
	"time"

	"yt-channel-fetcher/domain/model"
)

// PlaylistItemPage is one page of a playlist listing.
type PlaylistItemPage struct {
	Items         []PlaylistEntry
	NextPageToken string
}

// PlaylistEntry is the snippet part of a playlist item.
type PlaylistEntry struct {
	VideoID     string
	Title       string
	PublishedAt time.Time
}

// VideoDetail is the bulk lookup view of a single video.
type VideoDetail struct {
	ID           string
	Title        string
	ChannelTitle string
	PublishedAt  time.Time
	Duration     string // ISO-8601, e.g. PT4M13S
	ViewCount    int64
	LikeCount    int64
	CommentCount int64
	Tags         []string
	Live         *model.LiveDetails
}

type SearchPage struct {
	VideoIDs      []string
	NextPageToken string
}

type PlaylistPage struct {
	Items         []PlaylistSummary
	NextPageToken string
}

// PlaylistSummary describes a playlist owned by a channel.
type PlaylistSummary struct {
	ID           string
	Title        string
	Description  string
	ChannelTitle string
	PublishedAt  time.Time
	ItemCount    int64
}

// Credential is what a session uses to talk to the YouTube Data API.
// AccessToken wins over APIKey when both are set.
type Credential struct {
	APIKey      string
	AccessToken string
}

// Empty reports whether no usable credential is present.
func (c Credential) Empty() bool {
	return c.APIKey == "" && c.AccessToken == ""
}
