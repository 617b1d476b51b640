package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID).
	FieldRequestID = "request_id"

	// FieldRunID is the crawl run ID.
	FieldRunID = "run_id"

	// FieldComponent is the component/module name.
	FieldComponent = "component"

	// FieldSource is the legal-source tag (e.g. board-of-experts).
	FieldSource = "source"

	// FieldURL is the page URL being processed.
	FieldURL = "url"

	// FieldTier is the retrieval tier name (vector, keyword, ...).
	FieldTier = "tier"
)

// Metric fields used for aggregation.
const (
	FieldDurationMs = "duration_ms"
	FieldCount      = "count"
	FieldStatus     = "status"
)
