package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/retrieval"
)

// SearchHandler handles retrieval endpoints.
type SearchHandler struct {
	engine *retrieval.Engine
}

// NewSearchHandler creates a new search handler.
// Parameters:
//   - engine: retrieval engine instance.
//
// Returns:
//   - *SearchHandler: initialized handler.
func NewSearchHandler(engine *retrieval.Engine) *SearchHandler {
	return &SearchHandler{
		engine: engine,
	}
}

// SearchRequest is the body of POST /api/v1/search.
type SearchRequest struct {
	Query string `json:"query" binding:"required"`
}

// SearchResponse is the payload returned by the search endpoints.
type SearchResponse struct {
	Query    string           `json:"query"`
	Count    int              `json:"count"`
	Snippets []domain.Snippet `json:"snippets"`
}

// Search handles POST /api/v1/search.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	snippets := h.engine.Search(c.Request.Context(), req.Query)
	c.JSON(http.StatusOK, SearchResponse{
		Query:    req.Query,
		Count:    len(snippets),
		Snippets: snippets,
	})
}

// SearchGet handles GET /api/v1/search for simple queries.
// Parameters:
//   - c: Gin request context.
//
// Returns: none (writes JSON response).
func (h *SearchHandler) SearchGet(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Query parameter 'q' is required",
		})
		return
	}

	snippets := h.engine.Search(c.Request.Context(), query)
	c.JSON(http.StatusOK, SearchResponse{
		Query:    query,
		Count:    len(snippets),
		Snippets: snippets,
	})
}
