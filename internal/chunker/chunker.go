// Package chunker splits normalized document text into fixed-size
// overlapping windows, the unit of indexing and retrieval.
package chunker

import (
	"regexp"
	"strings"
)

const (
	// DefaultMaxChars is the window size in characters.
	DefaultMaxChars = 1200
	// DefaultOverlapChars is how many characters consecutive windows share.
	DefaultOverlapChars = 150
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// ChunkText slides a window of maxChars across the text, advancing by
// maxChars-overlapChars each step. Internal whitespace runs are collapsed
// first so chunk boundaries are stable across re-crawls of reformatted
// pages. The final chunk may be shorter than maxChars; empty chunks are
// dropped. Chunk i always covers the same offset range for a given input
// and parameters.
func ChunkText(text string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	if overlapChars < 0 || overlapChars >= maxChars {
		overlapChars = DefaultOverlapChars
		// Small windows need a proportional overlap so the step stays
		// positive.
		if overlapChars >= maxChars {
			overlapChars = maxChars / 8
		}
	}

	normalized := strings.TrimSpace(whitespaceRe.ReplaceAllString(text, " "))
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	step := maxChars - overlapChars

	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunk := string(runes[start:end])
		if strings.TrimSpace(chunk) != "" {
			chunks = append(chunks, chunk)
		}
		if end == len(runes) {
			break
		}
	}
	return chunks
}
