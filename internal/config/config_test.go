package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)

	assert.Equal(t, 40, cfg.Crawler.MaxPagesPerRun)
	assert.Equal(t, 100, cfg.Crawler.MinIndexChars)
	assert.Equal(t, 1200, cfg.Crawler.MaxChunkChars)
	assert.Equal(t, 150, cfg.Crawler.ChunkOverlap)

	assert.Equal(t, 32, cfg.Embedding.BatchSize)
	assert.Equal(t, 6, cfg.Search.TopK)
	assert.Equal(t, 400, cfg.Search.ScanLimit)
	assert.InDelta(t, 0.2, cfg.Search.VectorThreshold, 1e-9)
}

func TestLoadFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
crawler:
  max_chunk_chars: 800
  chunk_overlap: 100
  min_index_chars: 50
search:
  vector_threshold: 0.35
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 800, cfg.Crawler.MaxChunkChars)
	assert.Equal(t, 100, cfg.Crawler.ChunkOverlap)
	assert.Equal(t, 50, cfg.Crawler.MinIndexChars)
	assert.InDelta(t, 0.35, cfg.Search.VectorThreshold, 1e-9)
	// Untouched keys keep their defaults.
	assert.Equal(t, 40, cfg.Crawler.MaxPagesPerRun)
}
