package server

import (
	"time"

	httpHandler "yt-channel-fetcher/interfaces/http"
	"yt-channel-fetcher/interfaces/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	AllowedOrigins []string
	Session        middleware.SessionConfig
}

func InitiateRouter(cfg RouterConfig, channelHandler httpHandler.IChannelHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/healthz", httpHandler.Healthz)

	api := router.Group("api")
	api.Use(middleware.Session(cfg.Session))

	channel := api.Group("/channel")
	{
		channel.POST("/fetch", channelHandler.Fetch)
		channel.GET("/summary", channelHandler.Summary)
		channel.GET("/content", channelHandler.Content)
		channel.GET("/export", channelHandler.Export)
		channel.POST("/export/sheets", channelHandler.ExportSheets)
		channel.GET("/progress", channelHandler.Progress)
	}

	return router
}
