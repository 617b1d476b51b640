package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTextEmpty(t *testing.T) {
	assert.Nil(t, ChunkText("", DefaultMaxChars, DefaultOverlapChars))
	assert.Nil(t, ChunkText("   \n\t  ", DefaultMaxChars, DefaultOverlapChars))
}

func TestChunkTextShortInput(t *testing.T) {
	chunks := ChunkText("نظام العمل السعودي", DefaultMaxChars, DefaultOverlapChars)
	require.Len(t, chunks, 1)
	assert.Equal(t, "نظام العمل السعودي", chunks[0])
}

func TestChunkTextWindowing(t *testing.T) {
	// ceil((L-1200)/1050)+1 chunks for L > 1200; overlap of exactly 150.
	tests := []struct {
		length int
		want   int
	}{
		{1200, 1},
		{1201, 2},
		{2250, 2},
		{2251, 3},
		{5000, 5},
	}

	for _, tt := range tests {
		text := strings.Repeat("a", tt.length)
		chunks := ChunkText(text, DefaultMaxChars, DefaultOverlapChars)
		require.Len(t, chunks, tt.want, "length %d", tt.length)

		for i, c := range chunks {
			if i < len(chunks)-1 {
				assert.Len(t, c, DefaultMaxChars, "length %d chunk %d", tt.length, i)
			}
			if i > 0 {
				prev := chunks[i-1]
				assert.Equal(t, prev[len(prev)-DefaultOverlapChars:], c[:DefaultOverlapChars],
					"length %d chunk %d overlap", tt.length, i)
			}
		}
	}
}

func TestChunkTextCollapsesWhitespace(t *testing.T) {
	chunks := ChunkText("المادة   الأولى\n\nيسمى\tهذا النظام", 1200, 150)
	require.Len(t, chunks, 1)
	assert.Equal(t, "المادة الأولى يسمى هذا النظام", chunks[0])
}

func TestChunkTextSmallWindowWithOversizedOverlap(t *testing.T) {
	// An overlap at or above the window size must degrade, not underflow
	// the step.
	text := strings.Repeat("a", 300)

	var chunks []string
	require.NotPanics(t, func() {
		chunks = ChunkText(text, 100, 150)
	})
	require.NotEmpty(t, chunks)
	for i, c := range chunks {
		if i < len(chunks)-1 {
			assert.Len(t, c, 100, "chunk %d", i)
		}
	}

	assert.NotPanics(t, func() {
		ChunkText(text, 1, 1)
	})
	assert.NotPanics(t, func() {
		ChunkText(text, 150, 150)
	})
}

func TestChunkTextDeterministic(t *testing.T) {
	text := strings.Repeat("نظام العمل ", 500)
	a := ChunkText(text, 1200, 150)
	b := ChunkText(text, 1200, 150)
	assert.Equal(t, a, b)
}
