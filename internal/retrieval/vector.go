package retrieval

import (
	"context"
	"math"
	"sort"

	"github.com/mizanhq/mizan/internal/domain"
)

// vectorStrategy scores stored chunk embeddings against the embedded query
// by cosine similarity. Hits below the configured threshold are discarded.
type vectorStrategy struct {
	e *Engine
}

func (s *vectorStrategy) name() string { return "vector" }

func (s *vectorStrategy) search(ctx context.Context, q *queryInfo) ([]domain.Snippet, error) {
	queryVec, err := s.e.embedder.EmbedText(ctx, q.normalized)
	if err != nil {
		return nil, err
	}

	chunks, err := s.e.store.ListChunksWithEmbeddings(ctx, s.e.cfg.ScanLimit)
	if err != nil {
		return nil, err
	}

	var snippets []domain.Snippet
	for _, chunk := range chunks {
		score := cosineSimilarity(queryVec, chunk.Embedding)
		if score < s.e.cfg.VectorThreshold {
			continue
		}
		snippets = append(snippets, domain.Snippet{
			Text:   chunk.Text,
			Score:  score,
			Source: chunk.Meta.Source,
			URL:    chunk.Meta.URL,
			Title:  chunk.Meta.Title,
		})
	}

	sort.SliceStable(snippets, func(i, j int) bool {
		return snippets[i].Score > snippets[j].Score
	})
	if len(snippets) > s.e.cfg.TopK {
		snippets = snippets[:s.e.cfg.TopK]
	}
	return snippets, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors, or
// zero when the dimensions differ or either vector is zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
