// Package youtubetest serves canned YouTube Data API responses for tests.
package youtubetest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"google.golang.org/api/youtube/v3"
)

// Fixture is the data the fake API serves. Maps are keyed the way the real API is queried.
type Fixture struct {
	Channels      map[string]*youtube.Channel // by channel ID
	Usernames     map[string]string           // legacy username -> channel ID
	Handles       map[string]string           // "@handle" -> channel ID
	SearchResults map[string]string           // free text query -> channel ID
	PlaylistItems map[string][]*youtube.PlaylistItem
	Videos        map[string]*youtube.Video
	CompletedLive map[string][]string // channel ID -> live video IDs, newest first
	Playlists     map[string][]*youtube.Playlist
}

type Server struct {
	*httptest.Server

	fixture Fixture

	mu    sync.Mutex
	calls map[string]int
	keys  []string
}

func NewServer(fixture Fixture) *Server {
	s := &Server{fixture: fixture, calls: map[string]int{}}
	mux := http.NewServeMux()
	mux.HandleFunc("/youtube/v3/channels", s.channels)
	mux.HandleFunc("/youtube/v3/search", s.search)
	mux.HandleFunc("/youtube/v3/playlistItems", s.playlistItems)
	mux.HandleFunc("/youtube/v3/videos", s.videos)
	mux.HandleFunc("/youtube/v3/playlists", s.playlists)
	s.Server = httptest.NewServer(s.record(mux))
	return s
}

// Endpoint is the value to pass to option.WithEndpoint.
func (s *Server) Endpoint() string {
	return s.URL + "/"
}

// Calls returns how many requests hit the resource, e.g. "playlistItems".
func (s *Server) Calls(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[resource]
}

// TotalCalls returns the number of requests served.
func (s *Server) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.calls {
		total += n
	}
	return total
}

// APIKeys returns the key query parameter of every request, in order.
func (s *Server) APIKeys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.keys...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.calls[strings.TrimPrefix(r.URL.Path, "/youtube/v3/")]++
		s.keys = append(s.keys, r.URL.Query().Get("key"))
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) channels(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	id := q.Get("id")
	switch {
	case q.Get("forUsername") != "":
		id = s.fixture.Usernames[q.Get("forUsername")]
	case q.Get("forHandle") != "":
		id = s.fixture.Handles[q.Get("forHandle")]
	}

	response := &youtube.ChannelListResponse{Kind: "youtube#channelListResponse"}
	if channel, ok := s.fixture.Channels[id]; ok {
		response.Items = append(response.Items, channel)
	} else if id != "" && q.Get("id") == "" {
		response.Items = append(response.Items, &youtube.Channel{Id: id})
	}
	writeJSON(w, response)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	response := &youtube.SearchListResponse{Kind: "youtube#searchListResponse"}

	if q.Get("type") == "channel" {
		if id := s.fixture.SearchResults[q.Get("q")]; id != "" {
			response.Items = append(response.Items, &youtube.SearchResult{
				Id:      &youtube.ResourceId{Kind: "youtube#channel", ChannelId: id},
				Snippet: &youtube.SearchResultSnippet{ChannelId: id},
			})
		}
		writeJSON(w, response)
		return
	}

	ids := s.fixture.CompletedLive[q.Get("channelId")]
	start, end, next := window(len(ids), q.Get("pageToken"), q.Get("maxResults"))
	for _, id := range ids[start:end] {
		response.Items = append(response.Items, &youtube.SearchResult{
			Id: &youtube.ResourceId{Kind: "youtube#video", VideoId: id},
		})
	}
	response.NextPageToken = next
	writeJSON(w, response)
}

func (s *Server) playlistItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	items, ok := s.fixture.PlaylistItems[q.Get("playlistId")]
	if !ok {
		writeError(w, http.StatusNotFound, "playlistNotFound")
		return
	}
	start, end, next := window(len(items), q.Get("pageToken"), q.Get("maxResults"))
	writeJSON(w, &youtube.PlaylistItemListResponse{
		Kind:          "youtube#playlistItemListResponse",
		Items:         items[start:end],
		NextPageToken: next,
	})
}

func (s *Server) videos(w http.ResponseWriter, r *http.Request) {
	var ids []string
	for _, v := range r.URL.Query()["id"] {
		ids = append(ids, strings.Split(v, ",")...)
	}
	if len(ids) > 50 {
		writeError(w, http.StatusBadRequest, "tooManyIds")
		return
	}
	response := &youtube.VideoListResponse{Kind: "youtube#videoListResponse"}
	for _, id := range ids {
		if video, ok := s.fixture.Videos[id]; ok {
			response.Items = append(response.Items, video)
		}
	}
	writeJSON(w, response)
}

func (s *Server) playlists(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	playlists := s.fixture.Playlists[q.Get("channelId")]
	start, end, next := window(len(playlists), q.Get("pageToken"), q.Get("maxResults"))
	writeJSON(w, &youtube.PlaylistListResponse{
		Kind:          "youtube#playlistListResponse",
		Items:         playlists[start:end],
		NextPageToken: next,
	})
}

// window turns an offset page token into slice bounds and the following token.
func window(total int, token, maxResults string) (int, int, string) {
	size, err := strconv.Atoi(maxResults)
	if err != nil || size <= 0 {
		size = 5
	}
	start, _ := strconv.Atoi(token)
	if start > total {
		start = total
	}
	end := start + size
	if end >= total {
		return start, total, ""
	}
	return start, end, strconv.Itoa(end)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, reason string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = fmt.Fprintf(w, `{"error":{"code":%d,"message":%q,"errors":[{"reason":%q,"message":%q}]}}`, code, reason, reason, reason)
}

// Channel builds a channel resource with an uploads playlist.
func Channel(id, title, uploads string, subscribers uint64, hidden bool) *youtube.Channel {
	return &youtube.Channel{
		Id:      id,
		Snippet: &youtube.ChannelSnippet{Title: title},
		Statistics: &youtube.ChannelStatistics{
			SubscriberCount:       subscribers,
			HiddenSubscriberCount: hidden,
			VideoCount:            42,
		},
		ContentDetails: &youtube.ChannelContentDetails{
			RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{Uploads: uploads},
		},
	}
}

// UploadItem builds a playlist item pointing at videoID.
func UploadItem(videoID, title string, publishedAt time.Time) *youtube.PlaylistItem {
	return &youtube.PlaylistItem{
		Id: "item-" + videoID,
		Snippet: &youtube.PlaylistItemSnippet{
			Title:       title,
			PublishedAt: publishedAt.Format(time.RFC3339),
			ResourceId:  &youtube.ResourceId{Kind: "youtube#video", VideoId: videoID},
		},
		ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: videoID},
	}
}

// Video builds a video resource with the given ISO-8601 duration and view count.
func Video(id, title, duration string, publishedAt time.Time, views uint64) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Title:        title,
			ChannelTitle: "Fixture Channel",
			PublishedAt:  publishedAt.Format(time.RFC3339),
			Tags:         []string{"go", "test"},
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: duration},
		Statistics:     &youtube.VideoStatistics{ViewCount: views, LikeCount: views / 10, CommentCount: views / 100},
	}
}

// LiveVideo is a Video that finished streaming.
func LiveVideo(id, title, duration string, publishedAt time.Time, views uint64) *youtube.Video {
	v := Video(id, title, duration, publishedAt, views)
	v.LiveStreamingDetails = &youtube.VideoLiveStreamingDetails{
		ActualStartTime: publishedAt.Format(time.RFC3339),
		ActualEndTime:   publishedAt.Add(time.Hour).Format(time.RFC3339),
	}
	return v
}

// Playlist builds a playlist resource.
func Playlist(id, title, description string, publishedAt time.Time, items int64) *youtube.Playlist {
	return &youtube.Playlist{
		Id: id,
		Snippet: &youtube.PlaylistSnippet{
			Title:        title,
			Description:  description,
			ChannelTitle: "Fixture Channel",
			PublishedAt:  publishedAt.Format(time.RFC3339),
		},
		ContentDetails: &youtube.PlaylistContentDetails{ItemCount: items},
	}
}
