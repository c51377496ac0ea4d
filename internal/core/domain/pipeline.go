package domain

// IngestResult is returned by a successful ingestion.
type IngestResult struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	ChunkCount int      `json:"chunk_count"`
	Summary    *Summary `json:"initial_summary"`
}

// AskRequest is a single question against a document.
type AskRequest struct {
	// Owner scopes the document and session.
	Owner string

	// DocumentID is the document to query.
	DocumentID string

	// SessionID continues an existing session. Empty selects the document's
	// existing session or creates one.
	SessionID string

	// Query is the user's question.
	Query string
}

// Route records how a query was answered.
type Route string

// Answer routes.
const (
	// RouteRetrieval answered from the top-k retrieved chunks.
	RouteRetrieval Route = "retrieval"

	// RouteFallback answered from the first k chunks after retrieval failed.
	RouteFallback Route = "fallback"

	// RouteSummary answered with a detailed summary.
	RouteSummary Route = "summary"
)

// AskResult is the outcome of a question.
type AskResult struct {
	SessionID    string `json:"session_id"`
	SessionName  string `json:"session_name"`
	Response     string `json:"response"`
	MessageCount int    `json:"message_count"`
	Route        Route  `json:"route"`
}
