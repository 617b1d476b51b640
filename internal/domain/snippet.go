package domain

// Snippet is one ranked retrieval result returned to callers.
// Score semantics depend on the tier that produced it: cosine similarity for
// the vector tier, term-containment count for the keyword tier, and 1.0 for
// live-web and cached snippets.
type Snippet struct {
	Text   string  `json:"text"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
	URL    string  `json:"url"`
	Title  string  `json:"title,omitempty"`
	Meta   string  `json:"meta,omitempty"`
}
