package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mizanhq/mizan/internal/repository"
)

// StatsHandler reports corpus statistics.
type StatsHandler struct {
	store repository.Store
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(store repository.Store) *StatsHandler {
	return &StatsHandler{store: store}
}

// Stats handles GET /api/v1/stats.
func (h *StatsHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get stats: " + err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}
