package utils

import (
	"fmt"
	"strconv"

	"yt-channel-fetcher/domain/model"
)

const noDescription = "No description"

// DurationCell is the Duration column of an item: a clock for videos, the item count for playlists.
func DurationCell(item model.ContentItem) string {
	if item.Type == model.ContentTypePlaylist {
		return fmt.Sprintf("%d videos", item.ItemCount)
	}
	return FormatDuration(item.DurationSeconds)
}

// CountCell renders a view, like or comment count. Playlists have none.
func CountCell(item model.ContentItem, n int64, raw bool) string {
	if item.Type == model.ContentTypePlaylist {
		return NotAvailable
	}
	if raw {
		return strconv.FormatInt(n, 10)
	}
	return FormatNumber(n)
}

// TagsCell holds the tags of a video or the description of a playlist.
func TagsCell(item model.ContentItem) string {
	if item.Type == model.ContentTypePlaylist {
		if item.Description == "" {
			return noDescription
		}
		return item.Description
	}
	return FormatTags(item.Tags)
}
