package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

const (
	uriScheme    = "clausewise://"
	sessionsURI  = uriScheme + "sessions"
	documentsURI = uriScheme + "documents"
	jsonMIME     = "application/json"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         sessionsURI,
		Name:        "sessions",
		Description: "Chat sessions for the default owner, most recent first",
		MIMEType:    jsonMIME,
	}, s.handleSessionsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: sessionsURI + "/{sessionId}",
		Name:        "session",
		Description: "A chat session with its full message history",
		MIMEType:    jsonMIME,
	}, s.handleSessionResource)

	s.server.AddResource(&mcp.Resource{
		URI:         documentsURI,
		Name:        "documents",
		Description: "Ingested agreements for the default owner",
		MIMEType:    jsonMIME,
	}, s.handleDocumentsResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: documentsURI + "/{documentId}",
		Name:        "document",
		Description: "Agreement details with the summary stored at ingestion",
		MIMEType:    jsonMIME,
	}, s.handleDocumentResource)
}

// documentInfo is the resource view of an ingested agreement.
type documentInfo struct {
	ID             string          `json:"id"`
	Title          string          `json:"title"`
	URI            string          `json:"uri"`
	AgreementType  string          `json:"agreement_type"`
	ChunkCount     int             `json:"chunk_count"`
	EmbeddingModel string          `json:"embedding_model,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	Summary        *domain.Summary `json:"initial_summary,omitempty"`
}

func newDocumentInfo(doc *domain.Document) documentInfo {
	return documentInfo{
		ID:             doc.ID,
		Title:          doc.Title,
		URI:            doc.URI,
		AgreementType:  string(doc.AgreementType),
		ChunkCount:     doc.ChunkCount,
		EmbeddingModel: doc.EmbeddingModel,
		CreatedAt:      doc.CreatedAt,
	}
}

// handleSessionsResource lists sessions for the default owner.
func (s *Server) handleSessionsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Sessions == nil {
		return jsonResult(req.Params.URI, []domain.SessionSummary{})
	}

	sessions, err := s.ports.Sessions.List(ctx, s.ports.owner(""))
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	if sessions == nil {
		sessions = []domain.SessionSummary{}
	}
	return jsonResult(req.Params.URI, sessions)
}

// handleSessionResource returns one session with its messages.
func (s *Server) handleSessionResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, sessionsURI+"/")
	if s.ports.Sessions == nil || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	session, err := s.ports.Sessions.Get(ctx, s.ports.owner(""), id)
	if err != nil {
		return nil, notFoundOr(req.Params.URI, err, "getting session")
	}
	return jsonResult(req.Params.URI, session)
}

// handleDocumentsResource lists documents for the default owner.
func (s *Server) handleDocumentsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Documents == nil {
		return jsonResult(req.Params.URI, []documentInfo{})
	}

	docs, err := s.ports.Documents.List(ctx, s.ports.owner(""))
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	infos := make([]documentInfo, len(docs))
	for i := range docs {
		infos[i] = newDocumentInfo(&docs[i])
	}
	return jsonResult(req.Params.URI, infos)
}

// handleDocumentResource returns one document and its short summary.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	id := extractID(req.Params.URI, documentsURI+"/")
	if s.ports.Documents == nil || id == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	owner := s.ports.owner("")
	doc, err := s.ports.Documents.Get(ctx, owner, id)
	if err != nil {
		return nil, notFoundOr(req.Params.URI, err, "getting document")
	}

	info := newDocumentInfo(doc)
	if summary, err := s.ports.Summary.ShortSummary(ctx, owner, id); err == nil {
		info.Summary = summary
	}
	return jsonResult(req.Params.URI, info)
}

// jsonResult marshals v as the single content of a resource read.
func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: jsonMIME,
			Text:     string(data),
		}},
	}, nil
}

// notFoundOr maps missing documents and sessions to a resource-not-found
// error and wraps anything else.
func notFoundOr(uri string, err error, action string) error {
	if errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrDocumentNotFound) ||
		errors.Is(err, domain.ErrSessionNotFound) {
		return mcp.ResourceNotFoundError(uri)
	}
	return fmt.Errorf("%s: %w", action, err)
}

// extractID returns the path segment after prefix, or "" when uri does
// not match or names a nested path.
func extractID(uri, prefix string) string {
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	id := strings.TrimPrefix(uri, prefix)
	if strings.Contains(id, "/") {
		return ""
	}
	return id
}
