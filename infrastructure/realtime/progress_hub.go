package realtime

import (
	"io"
	"net/http"
	"sync"
	"time"

	"yt-channel-fetcher/domain/dto"

	"github.com/gin-gonic/gin"
)

const (
	EventProgress = "progress"
	EventDone     = "done"
	EventError    = "error"

	keepAliveInterval = 15 * time.Second
)

// ProgressEvent is the SSE payload sent while a fetch runs.
type ProgressEvent struct {
	Type    string `json:"type"`
	Stage   string `json:"stage,omitempty"`
	Count   int    `json:"count"`
	Message string `json:"message"`
}

// ProgressHub fans fetch progress out to every SSE stream opened by the same session.
type ProgressHub struct {
	mu       sync.RWMutex
	sessions map[string]map[chan ProgressEvent]struct{}
}

func NewProgressHub() *ProgressHub {
	return &ProgressHub{sessions: make(map[string]map[chan ProgressEvent]struct{})}
}

// Serve streams the events of one session until the client goes away.
func (h *ProgressHub) Serve(c *gin.Context, sessionID string) {
	if sessionID == "" {
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering

	ch := make(chan ProgressEvent, 16)
	h.subscribe(sessionID, ch)
	defer h.unsubscribe(sessionID, ch)

	c.Status(http.StatusOK)
	_, _ = c.Writer.WriteString(":ok\n\n")
	c.Writer.Flush()

	ctx := c.Request.Context()
	keepAlive := time.NewTicker(keepAliveInterval)
	defer keepAlive.Stop()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt := <-ch:
			c.SSEvent(evt.Type, evt)
			return true
		case <-keepAlive.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		}
	})
}

// Subscribers returns the number of open streams for a session.
func (h *ProgressHub) Subscribers(sessionID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions[sessionID])
}

func (h *ProgressHub) subscribe(sessionID string, ch chan ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[chan ProgressEvent]struct{})
	}
	h.sessions[sessionID][ch] = struct{}{}
}

func (h *ProgressHub) unsubscribe(sessionID string, ch chan ProgressEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if subs := h.sessions[sessionID]; subs != nil {
		delete(subs, ch)
		if len(subs) == 0 {
			delete(h.sessions, sessionID)
		}
	}
}

// Publish never blocks. Slow streams miss events.
func (h *ProgressHub) Publish(sessionID string, evt ProgressEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.sessions[sessionID] {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Observer adapts the hub to the fetch progress callback of one session.
func (h *ProgressHub) Observer(sessionID string) dto.ProgressFunc {
	return func(p dto.Progress) {
		h.Publish(sessionID, ProgressEvent{Type: EventProgress, Stage: p.Stage, Count: p.Count, Message: p.Message})
	}
}

func (h *ProgressHub) Done(sessionID string, total int) {
	h.Publish(sessionID, ProgressEvent{Type: EventDone, Count: total, Message: "Fetch complete"})
}

func (h *ProgressHub) Fail(sessionID string, err error) {
	h.Publish(sessionID, ProgressEvent{Type: EventError, Message: err.Error()})
}
