package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"yt-channel-fetcher/domain/dto"
	"yt-channel-fetcher/domain/model"
	"yt-channel-fetcher/infrastructure/logger"
	"yt-channel-fetcher/infrastructure/realtime"
	"yt-channel-fetcher/interfaces/middleware"
	"yt-channel-fetcher/usecase"

	"github.com/gin-gonic/gin"
)

type IChannelHandler interface {
	Fetch(ctx *gin.Context)
	Summary(ctx *gin.Context)
	Content(ctx *gin.Context)
	Export(ctx *gin.Context)
	ExportSheets(ctx *gin.Context)
	Progress(ctx *gin.Context)
}

type ChannelHandler struct {
	channelUseCase usecase.IChannelUseCase
	hub            *realtime.ProgressHub
	fetchTimeout   time.Duration
}

func NewChannelHandler(channelUseCase usecase.IChannelUseCase, hub *realtime.ProgressHub, fetchTimeout time.Duration) IChannelHandler {
	return &ChannelHandler{
		channelUseCase: channelUseCase,
		hub:            hub,
		fetchTimeout:   fetchTimeout,
	}
}

// Fetch handles POST /api/channel/fetch
func (h *ChannelHandler) Fetch(ctx *gin.Context) {
	var req dto.FetchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"message": err.Error(),
		})
		return
	}

	sessionID := middleware.SessionID(ctx)
	reqCtx := ctx.Request.Context()
	if h.fetchTimeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, h.fetchTimeout)
		defer cancel()
	}

	summary, err := h.channelUseCase.Fetch(reqCtx, sessionID, &req, h.hub.Observer(sessionID))
	if err != nil {
		h.hub.Fail(sessionID, err)
		logger.GetLogger().WithFields(map[string]interface{}{
			"error":   err,
			"channel": req.Channel,
		}).Error("Error while fetching channel content")
		respondError(ctx, "Failed to fetch channel", err)
		return
	}
	h.hub.Done(sessionID, summary.TotalItems)

	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// Summary handles GET /api/channel/summary
func (h *ChannelHandler) Summary(ctx *gin.Context) {
	summary, err := h.channelUseCase.Summary(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		respondError(ctx, "Failed to get summary", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": summary})
}

// Content handles GET /api/channel/content
func (h *ChannelHandler) Content(ctx *gin.Context) {
	var filter dto.ContentFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid filter",
			"message": err.Error(),
		})
		return
	}

	page, err := h.channelUseCase.Content(ctx.Request.Context(), middleware.SessionID(ctx), &filter)
	if err != nil {
		respondError(ctx, "Failed to get content", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": page})
}

// Export handles GET /api/channel/export?format=xlsx|csv
func (h *ChannelHandler) Export(ctx *gin.Context) {
	file, err := h.channelUseCase.Export(ctx.Request.Context(), middleware.SessionID(ctx), ctx.DefaultQuery("format", "xlsx"))
	if err != nil {
		respondError(ctx, "Failed to export", err)
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	ctx.Data(http.StatusOK, file.ContentType, file.Data)
}

// ExportSheets handles POST /api/channel/export/sheets
func (h *ChannelHandler) ExportSheets(ctx *gin.Context) {
	out, err := h.channelUseCase.ExportToSheets(ctx.Request.Context(), middleware.SessionID(ctx))
	if err != nil {
		logger.GetLogger().WithField("error", err).Error("Error while exporting to Google Sheets")
		respondError(ctx, "Failed to export to Google Sheets", err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"success": true, "data": out})
}

// Progress handles GET /api/channel/progress
func (h *ChannelHandler) Progress(ctx *gin.Context) {
	h.hub.Serve(ctx, middleware.SessionID(ctx))
}

func respondError(ctx *gin.Context, message string, err error) {
	ctx.JSON(statusFor(err), gin.H{
		"error":   message,
		"message": err.Error(),
	})
}

func statusFor(err error) int {
	var transportErr *model.TransportError
	switch {
	case errors.Is(err, model.ErrChannelNotFound),
		errors.Is(err, model.ErrChannelInfoUnavailable),
		errors.Is(err, model.ErrNoFetchResult):
		return http.StatusNotFound
	case errors.Is(err, model.ErrMissingCredential),
		errors.Is(err, model.ErrUnsupportedFormat):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrExportUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &transportErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
