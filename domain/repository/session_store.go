package repository

import (
	"context"

	"yt-channel-fetcher/domain/model"
)

// ISessionStore keeps the latest fetch result of each session.
type ISessionStore interface {
	// Load returns nil, nil when the session has no stored result.
	Load(ctx context.Context, sessionID string) (*model.FetchResult, error)
	// Replace swaps the stored result of the session for result as a whole.
	Replace(ctx context.Context, sessionID string, result *model.FetchResult) error
}
