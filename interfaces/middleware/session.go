package middleware

import (
	"net/http"
	"time"

	"yt-channel-fetcher/infrastructure/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionContextKey is where Session stores the caller's session ID.
const SessionContextKey = "session_id"

type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session gives every caller an anonymous session ID kept in a cookie.
// Missing or malformed cookies get a fresh ID.
func Session(cfg SessionConfig) gin.HandlerFunc {
	maxAge := int(cfg.TTL / time.Second)
	return func(ctx *gin.Context) {
		sessionID, err := ctx.Cookie(cfg.CookieName)
		if err != nil || uuid.Validate(sessionID) != nil {
			sessionID = uuid.NewString()
			logger.GetLogger().WithField("session_id", sessionID).Debug("New session issued")
		}
		// refresh expiry on every request
		ctx.SetSameSite(http.SameSiteLaxMode)
		ctx.SetCookie(cfg.CookieName, sessionID, maxAge, "/", "", cfg.Secure, true)
		ctx.Set(SessionContextKey, sessionID)
		ctx.Next()
	}
}

func SessionID(ctx *gin.Context) string {
	return ctx.GetString(SessionContextKey)
}
