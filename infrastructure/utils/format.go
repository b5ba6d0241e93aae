package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	LiveIndicator = "Live/Ongoing"
	NoTags        = "No tags"
	NotAvailable  = "N/A"
)

// FormatNumber abbreviates counts: 1.2K, 3.4M, 5.6B. Values below 1000 are printed as is.
func FormatNumber(n int64) string {
	switch {
	case n >= 1_000_000_000:
		return fmt.Sprintf("%.1fB", float64(n)/1_000_000_000)
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return strconv.FormatInt(n, 10)
	}
}

// FormatDuration renders seconds as H:MM:SS, or M:SS below an hour.
// A nil duration is a stream whose length is not known yet.
func FormatDuration(seconds *int64) string {
	if seconds == nil {
		return LiveIndicator
	}
	s := *seconds
	if s < 0 {
		s = 0
	}
	hours, minutes, secs := s/3600, (s%3600)/60, s%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func FormatTags(tags []string) string {
	if len(tags) == 0 {
		return NoTags
	}
	return strings.Join(tags, ", ")
}

func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}

// Truncate cuts s to max runes and appends "..." when it was longer.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
