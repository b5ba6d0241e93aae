package repository

import (
	"context"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
)

// IYouTube defines the read-only YouTube Data API calls a fetch needs.
// Failed calls return a *model.TransportError.
type IYouTube interface {
	// Channel lookups return an empty ID when nothing matched.
	ChannelIDByUsername(ctx context.Context, username string) (string, error)
	ChannelIDByHandle(ctx context.Context, handle string) (string, error)
	SearchChannelID(ctx context.Context, query string) (string, error)

	// GetChannel returns nil when the channel does not exist.
	GetChannel(ctx context.Context, channelID string) (*model.ChannelInfo, error)

	// ListPlaylistItems returns an error wrapping model.ErrPlaylistNotFound for unknown playlists.
	ListPlaylistItems(ctx context.Context, playlistID, pageToken string, maxResults int64) (*dto.PlaylistItemPage, error)
	// ListVideoDetails looks up at most 50 IDs. Unknown IDs are absent from the result.
	ListVideoDetails(ctx context.Context, videoIDs []string) ([]dto.VideoDetail, error)
	SearchCompletedLive(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.SearchPage, error)
	ListPlaylists(ctx context.Context, channelID, pageToken string, maxResults int64) (*dto.PlaylistPage, error)
}

// IYouTubeFactory builds an upstream client bound to one credential.
type IYouTubeFactory interface {
	NewClient(ctx context.Context, credential dto.Credential) (IYouTube, error)
}
