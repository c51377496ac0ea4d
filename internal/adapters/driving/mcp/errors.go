// Package mcp exposes clausewise over the Model Context Protocol so AI
// assistants can ingest agreements, ask about them and request summaries.
package mcp

import "errors"

// Errors returned when a required port is missing.
var (
	ErrMissingIngestService  = errors.New("mcp: ingest service is required")
	ErrMissingChatService    = errors.New("mcp: chat service is required")
	ErrMissingSummaryService = errors.New("mcp: summary service is required")
)
