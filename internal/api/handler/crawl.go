package handler

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/logger"
)

// CrawlHandler triggers crawl runs on demand.
type CrawlHandler struct {
	crawler *crawler.Crawler
	// running guards against overlapping runs; crawls are sequential.
	running atomic.Bool
}

// NewCrawlHandler creates a new crawl handler.
func NewCrawlHandler(c *crawler.Crawler) *CrawlHandler {
	return &CrawlHandler{crawler: c}
}

// Trigger handles POST /api/v1/crawl. The run executes in the background;
// the response reports only that it started. A second trigger while a run
// is in flight gets 409.
func (h *CrawlHandler) Trigger(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "A crawl run is already in progress",
		})
		return
	}

	// Detached from the request context: the run outlives the response.
	ctx := logger.FromContext(c.Request.Context()).WithContext(context.Background())
	go func() {
		defer h.running.Store(false)
		if _, err := h.crawler.Run(ctx); err != nil {
			logger.CtxError(ctx, "Triggered crawl failed: error=%v", err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"status": "started",
	})
}
