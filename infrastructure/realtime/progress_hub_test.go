package realtime

import (
	"bufio"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"yt-channel-fetcher/domain/dto"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHubServer(t *testing.T, hub *ProgressHub, sessionID string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/progress", func(c *gin.Context) {
		hub.Serve(c, sessionID)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestProgressHub_StreamsSessionEvents(t *testing.T) {
	hub := NewProgressHub()
	srv := newHubServer(t, hub, "s1")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/progress", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	require.Eventually(t, func() bool { return hub.Subscribers("s1") == 1 }, 2*time.Second, 10*time.Millisecond)

	hub.Publish("other", ProgressEvent{Type: EventProgress, Message: "not for s1"})
	hub.Observer("s1")(dto.Progress{Stage: "uploads", Count: 50, Message: "Videos: Fetched 50 videos..."})
	hub.Done("s1", 50)

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 4 {
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "event:") || strings.HasPrefix(line, "data:") {
			lines = append(lines, line)
		}
	}
	assert.Equal(t, "event:progress", lines[0])
	assert.Contains(t, lines[1], `"count":50`)
	assert.Contains(t, lines[1], "Videos: Fetched 50 videos...")
	assert.Equal(t, "event:done", lines[2])
	assert.NotContains(t, strings.Join(lines, "\n"), "not for s1")

	cancel()
	require.Eventually(t, func() bool { return hub.Subscribers("s1") == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestProgressHub_RequiresSession(t *testing.T) {
	srv := newHubServer(t, NewProgressHub(), "")

	resp, err := http.Get(srv.URL + "/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProgressHub_PublishWithoutSubscribers(t *testing.T) {
	hub := NewProgressHub()
	assert.NotPanics(t, func() {
		hub.Fail("nobody", errors.New("boom"))
	})
	assert.Zero(t, hub.Subscribers("nobody"))
}
