package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// Helper to create a ReadResourceRequest with the given URI.
func makeReadResourceRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{
			URI: uri,
		},
	}
}

func TestExtractID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		prefix   string
		expected string
	}{
		{"document", "clausewise://documents/doc-456", documentsURI + "/", "doc-456"},
		{"session", "clausewise://sessions/s-1", sessionsURI + "/", "s-1"},
		{"wrong prefix", "file://documents/doc-456", documentsURI + "/", ""},
		{"nested path", "clausewise://documents/doc-1/chunks", documentsURI + "/", ""},
		{"empty", "", documentsURI + "/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractID(tt.uri, tt.prefix))
		})
	}
}

func TestServer_handleSessionsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil session service returns empty list", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		result, err := server.handleSessionsResource(ctx, makeReadResourceRequest(sessionsURI))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists sessions", func(t *testing.T) {
		ports := newTestPorts()
		ports.Sessions = &mockSessionService{sessions: []domain.SessionSummary{
			{ID: "s-1", Name: "Deposit questions", DocumentName: "Flat lease", MessageCount: 4},
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleSessionsResource(ctx, makeReadResourceRequest(sessionsURI))
		require.NoError(t, err)
		assert.Equal(t, jsonMIME, result.Contents[0].MIMEType)
		assert.Contains(t, result.Contents[0].Text, `"id": "s-1"`)
		assert.Contains(t, result.Contents[0].Text, "Deposit questions")
		assert.Contains(t, result.Contents[0].Text, `"message_count": 4`)
	})

	t.Run("list failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Sessions = &mockSessionService{err: errors.New("disk error")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleSessionsResource(ctx, makeReadResourceRequest(sessionsURI))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing sessions")
	})
}

func TestServer_handleSessionResource(t *testing.T) {
	ctx := context.Background()

	t.Run("returns session with messages", func(t *testing.T) {
		ports := newTestPorts()
		ports.Sessions = &mockSessionService{session: &domain.ChatSession{
			ID:   "s-1",
			Name: "Deposit questions",
			Messages: []domain.ChatMessage{
				{Role: domain.RoleUser, Content: "Is the deposit refundable?"},
				{Role: domain.RoleAssistant, Content: "Yes, within 30 days."},
			},
			MessageCount: 2,
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleSessionResource(ctx, makeReadResourceRequest(sessionsURI+"/s-1"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "Is the deposit refundable?")
		assert.Contains(t, result.Contents[0].Text, "Yes, within 30 days.")
	})

	t.Run("unknown session is not found", func(t *testing.T) {
		ports := newTestPorts()
		ports.Sessions = &mockSessionService{err: domain.ErrSessionNotFound}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleSessionResource(ctx, makeReadResourceRequest(sessionsURI+"/missing"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("nil session service is not found", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		_, err = server.handleSessionResource(ctx, makeReadResourceRequest(sessionsURI+"/s-1"))
		require.Error(t, err)
	})
}

func TestServer_handleDocumentsResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil document service returns empty list", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists documents", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{documents: []domain.Document{
			{
				ID:            "doc-1",
				Title:         "Employment Contract",
				URI:           "/contracts/employment.pdf",
				AgreementType: domain.AgreementEmployment,
				ChunkCount:    8,
				CreatedAt:     time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
			},
		}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.NoError(t, err)

		text := result.Contents[0].Text
		assert.Contains(t, text, `"id": "doc-1"`)
		assert.Contains(t, text, "Employment Contract")
		assert.Contains(t, text, `"agreement_type": "employment"`)
		assert.Contains(t, text, `"chunk_count": 8`)
		assert.NotContains(t, text, "initial_summary")
	})

	t.Run("list failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{err: errors.New("disk error")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentsResource(ctx, makeReadResourceRequest(documentsURI))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "listing documents")
	})
}

func TestServer_handleDocumentResource(t *testing.T) {
	ctx := context.Background()

	t.Run("includes short summary", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{document: &domain.Document{ID: "doc-1", Title: "Supply Deal"}}
		ports.Summary = &mockSummaryService{short: &domain.Summary{Text: "A supply agreement.", Detail: domain.SummaryShort}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest(documentsURI+"/doc-1"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, "Supply Deal")
		assert.Contains(t, result.Contents[0].Text, "A supply agreement.")
	})

	t.Run("summary failure still returns document", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{document: &domain.Document{ID: "doc-1", Title: "Supply Deal"}}
		ports.Summary = &mockSummaryService{shortErr: domain.ErrNotFound}
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleDocumentResource(ctx, makeReadResourceRequest(documentsURI+"/doc-1"))
		require.NoError(t, err)
		assert.NotContains(t, result.Contents[0].Text, "initial_summary")
	})

	t.Run("unknown document is not found", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{err: domain.ErrDocumentNotFound}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest(documentsURI+"/nope"))
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrDocumentNotFound)
	})

	t.Run("other errors are wrapped", func(t *testing.T) {
		ports := newTestPorts()
		ports.Documents = &mockDocumentService{err: errors.New("disk error")}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, err = server.handleDocumentResource(ctx, makeReadResourceRequest(documentsURI+"/doc-1"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "getting document")
	})
}
