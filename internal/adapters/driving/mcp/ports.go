package mcp

import (
	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
)

// Ports aggregates the driving ports used by the MCP server.
type Ports struct {
	Ingest  driving.IngestService
	Chat    driving.ChatService
	Summary driving.SummaryService

	// Sessions and Documents back the read-only resources. Optional.
	Sessions  driving.SessionService
	Documents driving.DocumentService

	// Owner is used when a tool call does not name one.
	Owner string
}

// Validate ensures the three pipeline ports are set.
func (p *Ports) Validate() error {
	switch {
	case p.Ingest == nil:
		return ErrMissingIngestService
	case p.Chat == nil:
		return ErrMissingChatService
	case p.Summary == nil:
		return ErrMissingSummaryService
	}
	return nil
}

// owner returns requested, falling back to the configured default.
func (p *Ports) owner(requested string) string {
	if requested != "" {
		return requested
	}
	if p.Owner != "" {
		return p.Owner
	}
	return domain.DefaultOwner
}
