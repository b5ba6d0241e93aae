package model

import (
	"errors"
	"fmt"
)

var (
	// ErrChannelNotFound means no resolution strategy produced a channel ID.
	ErrChannelNotFound = errors.New("channel not found")

	// ErrChannelInfoUnavailable means the channel ID resolved but the channel lookup returned nothing.
	ErrChannelInfoUnavailable = errors.New("channel information unavailable")

	// ErrPlaylistNotFound is returned by the upstream client when a playlist does not exist.
	ErrPlaylistNotFound = errors.New("playlist not found")

	// ErrNoFetchResult means the session has not completed a fetch yet.
	ErrNoFetchResult = errors.New("no fetch result for session")

	ErrMissingCredential = errors.New("missing YouTube API credential")
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrExportUnavailable = errors.New("export destination not configured")
)

// TransportError wraps a failed call to the YouTube Data API.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("youtube %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}
