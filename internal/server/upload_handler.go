package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/tvaino/lintubot/internal/notify"
	"github.com/tvaino/lintubot/internal/upload"
	"github.com/tvaino/lintubot/internal/vision"
)

// uploadHandler runs one upload through validation, storage, analysis and
// delivery. Processing is strictly sequential and aborts on the first
// failure; the transient file is removed on every path out.
type uploadHandler struct {
	store    *upload.Store
	analyzer vision.Analyzer
	notifier notify.Notifier
}

func (h *uploadHandler) handle(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		log.Error().Err(err).Str("stage", "intake").Msg("no image file in request")
		c.JSON(http.StatusBadRequest, gin.H{"detail": "No image file provided"})
		return
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Str("stage", "intake").Msg("failed to open uploaded file")
		c.JSON(http.StatusBadRequest, gin.H{"detail": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	path, err := h.store.Receive(src, file.Header.Get("Content-Type"), file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, upload.ErrInvalidFormat):
			log.Error().Str("stage", "validate").Msg("invalid file format, only JPEG images are accepted")
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid file format, only JPEG images are accepted"})
		case errors.Is(err, upload.ErrInvalidContent):
			log.Error().Str("stage", "validate").Msg("uploaded file content is not a valid JPEG image")
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid image content"})
		default:
			log.Error().Err(err).Str("stage", "store").Msg("failed to store uploaded file")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to store uploaded file"})
		}
		return
	}
	// The file exists from here on. Remove is idempotent, so the deferred
	// cleanup is safe no matter which path the request takes out.
	defer h.store.Remove(path)

	analysis, err := h.analyzer.Analyze(c.Request.Context(), path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Str("stage", "analyze").Msg("failed to analyze the image")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to analyze the image"})
		return
	}

	if err := h.notifier.Deliver(path, analysis); err != nil {
		log.Error().Err(err).Str("path", path).Str("stage", "deliver").Msg("failed to send image to Telegram")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "Failed to send image to Telegram"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image received, analyzed, and forwarded to Telegram"})
}
