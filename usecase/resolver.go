package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/domain/repository"
	"yt-channel-fetcher/infrastructure/logger"
)

var channelIDPattern = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

// channelURLPatterns are tried in order. Only the /channel/ form carries an ID.
var channelURLPatterns = []struct {
	pattern *regexp.Regexp
	direct  bool
}{
	{regexp.MustCompile(`youtube\.com/channel/([a-zA-Z0-9_-]+)`), true},
	{regexp.MustCompile(`youtube\.com/c/([a-zA-Z0-9_-]+)`), false},
	{regexp.MustCompile(`youtube\.com/user/([a-zA-Z0-9_-]+)`), false},
	{regexp.MustCompile(`youtube\.com/@([a-zA-Z0-9_-]+)`), false},
}

// IsChannelID reports whether s already has the shape of a canonical channel ID.
func IsChannelID(s string) bool {
	return channelIDPattern.MatchString(s)
}

type lookupStrategy struct {
	name   string
	lookup func(ctx context.Context, yt repository.IYouTube, name string) (string, error)
}

var nameStrategies = []lookupStrategy{
	{"username", func(ctx context.Context, yt repository.IYouTube, name string) (string, error) {
		return yt.ChannelIDByUsername(ctx, name)
	}},
	{"handle", func(ctx context.Context, yt repository.IYouTube, name string) (string, error) {
		return yt.ChannelIDByHandle(ctx, "@"+strings.TrimLeft(name, "@"))
	}},
	{"search", func(ctx context.Context, yt repository.IYouTube, name string) (string, error) {
		return yt.SearchChannelID(ctx, name)
	}},
}

// ChannelResolver turns whatever the user typed into a canonical channel ID.
type ChannelResolver struct {
	youtube repository.IYouTube
}

func NewChannelResolver(youtube repository.IYouTube) *ChannelResolver {
	return &ChannelResolver{youtube: youtube}
}

// Resolve accepts a channel ID, a channel URL, a legacy username or a handle.
// It returns model.ErrChannelNotFound when nothing matches.
func (r *ChannelResolver) Resolve(ctx context.Context, reference string) (string, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return "", fmt.Errorf("%w: empty reference", model.ErrChannelNotFound)
	}
	if IsChannelID(reference) {
		return reference, nil
	}

	name := reference
	if strings.Contains(reference, "youtube.com") {
		extracted, direct := extractFromURL(reference)
		if extracted == "" {
			return "", fmt.Errorf("%w: unrecognised channel URL %q", model.ErrChannelNotFound, reference)
		}
		if direct {
			return extracted, nil
		}
		name = extracted
	}

	for _, strategy := range nameStrategies {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		id, err := strategy.lookup(ctx, r.youtube, name)
		if err != nil {
			logger.GetLogger().WithFields(map[string]interface{}{"strategy": strategy.name, "name": name, "error": err}).Debug("Channel lookup failed, trying next strategy")
			continue
		}
		if id != "" {
			logger.GetLogger().WithFields(map[string]interface{}{"strategy": strategy.name, "name": name, "channel_id": id}).Debug("Channel resolved")
			return id, nil
		}
	}
	return "", fmt.Errorf("%w: %q", model.ErrChannelNotFound, reference)
}

func extractFromURL(url string) (string, bool) {
	for _, p := range channelURLPatterns {
		if m := p.pattern.FindStringSubmatch(url); m != nil {
			return m[1], p.direct
		}
	}
	return "", false
}
