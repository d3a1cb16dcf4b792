package server

import (
	"github.com/gin-gonic/gin"
	"github.com/tvaino/lintubot/config"
	"github.com/tvaino/lintubot/internal/notify"
	"github.com/tvaino/lintubot/internal/upload"
	"github.com/tvaino/lintubot/internal/vision"
)

// New builds the HTTP router. All routes live under the configured root
// path so the service can sit behind a path-rewriting proxy.
func New(cfg *config.Config, store *upload.Store, analyzer vision.Analyzer, notifier notify.Notifier) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	h := &uploadHandler{
		store:    store,
		analyzer: analyzer,
		notifier: notifier,
	}

	root := router.Group(cfg.RootPath)
	root.POST("/upload-image", h.handle)
	root.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "service": config.AppName})
	})

	return router
}
