package http

import (
	"net/http"

	"yt-channel-fetcher/infrastructure/utils"

	"github.com/gin-gonic/gin"
)

// Healthz handles GET /healthz
func Healthz(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   utils.GetCurrentTime(),
	})
}
