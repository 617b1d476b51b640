package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mizanhq/mizan/internal/api/handler"
	"github.com/mizanhq/mizan/internal/config"
	"github.com/mizanhq/mizan/internal/crawler"
	"github.com/mizanhq/mizan/internal/domain"
	"github.com/mizanhq/mizan/internal/retrieval"
	"github.com/mizanhq/mizan/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter() (*gin.Engine, *testutil.MemStore) {
	store := testutil.NewMemStore()
	fake := testutil.NewFakeFetcher()
	fake.Err = errors.New("offline")

	engine := retrieval.New(store, fake, nil, retrieval.Config{})
	crawl := crawler.New(store, fake, nil, crawler.Config{
		Seeds:          []string{"https://laws.boe.gov.sa/Sitemap.xml"},
		DiscoveryDelay: 1,
		PageDelay:      1,
	})

	router := SetupRouter(engine, crawl, store, &config.ServerConfig{Mode: "test"})
	return router, store
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSearchEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"query":"نص المادة 107 من نظام العمل"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var response handler.SearchResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, 1, response.Count)
	require.Len(t, response.Snippets, 1)
	assert.Contains(t, response.Snippets[0].Text, "السابعة بعد المائة")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestSearchEndpointRejectsMissingQuery(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/search", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchGetEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/search?q="+
		"%D9%86%D8%B5%20%D8%A7%D9%84%D9%85%D8%A7%D8%AF%D8%A9%20107", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/search", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatsEndpoint(t *testing.T) {
	router, store := newTestRouter()
	store.AddChunk(domain.LegalChunk{Text: "نص تجريبي"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var stats map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, float64(1), stats["chunks"])
}

func TestCrawlEndpoint(t *testing.T) {
	router, _ := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/crawl", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)
}
