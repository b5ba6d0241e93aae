package dto

import "time"

// FetchRequest starts a fetch of a channel's content for the calling session.
type FetchRequest struct {
	Channel          string `json:"channel" binding:"required"`
	APIKey           string `json:"api_key,omitempty"`
	AccessToken      string `json:"access_token,omitempty"`
	IncludeLive      *bool  `json:"include_live,omitempty"`
	IncludePlaylists *bool  `json:"include_playlists,omitempty"`
}

// ContentFilter narrows the content view of the last fetch.
type ContentFilter struct {
	Type  string `form:"type"`
	Query string `form:"q"`
	Rows  string `form:"rows"` // 10, 25, 50, 100 or all
	Raw   bool   `form:"raw"`
}

type ChannelSummary struct {
	ChannelID         string         `json:"channel_id"`
	Title             string         `json:"title"`
	Subscribers       string         `json:"subscribers"`
	VideoCount        string         `json:"video_count"`
	UploadsPlaylistID string         `json:"uploads_playlist_id"`
	TotalItems        int            `json:"total_items"`
	TotalViews        int64          `json:"total_views"`
	TotalViewsDisplay string         `json:"total_views_display"`
	TypeCounts        map[string]int `json:"type_counts"`
	FetchedAt         time.Time      `json:"fetched_at"`
}

// ContentRow is the display form of one content item.
type ContentRow struct {
	ContentID   string `json:"content_id"`
	Type        string `json:"type"`
	Title       string `json:"title"`
	Channel     string `json:"channel"`
	Published   string `json:"published"`
	Duration    string `json:"duration"`
	Views       string `json:"views"`
	Likes       string `json:"likes"`
	Comments    string `json:"comments"`
	Tags        string `json:"tags"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

type ContentPage struct {
	Rows    []ContentRow `json:"rows"`
	Total   int          `json:"total"`
	Matched int          `json:"matched"`
}

// ExportFile is a rendered export ready to download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

type SheetExport struct {
	SpreadsheetID  string `json:"spreadsheet_id"`
	SpreadsheetURL string `json:"spreadsheet_url"`
}

// Progress is emitted after each completed page of a fetch.
type Progress struct {
	Stage   string `json:"stage"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// ProgressFunc observes fetch progress. It is called synchronously, in page order.
type ProgressFunc func(Progress)

// FetchCompletedEvent is published once a fetch result has been stored.
type FetchCompletedEvent struct {
	SessionID  string         `json:"session_id"`
	ChannelID  string         `json:"channel_id"`
	Title      string         `json:"title"`
	ItemCount  int            `json:"item_count"`
	TypeCounts map[string]int `json:"type_counts"`
	FetchedAt  time.Time      `json:"fetched_at"`
}
