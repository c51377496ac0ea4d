package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestServer_handleIngest(t *testing.T) {
	ctx := context.Background()

	t.Run("returns ingest result", func(t *testing.T) {
		ports := newTestPorts()
		ingest := &mockIngestService{result: &domain.IngestResult{
			DocumentID: "doc-1",
			Title:      "Office Lease",
			ChunkCount: 12,
			Summary: &domain.Summary{
				AgreementType:  domain.AgreementCommercialLease,
				AgreementLabel: "Commercial Lease Agreement",
				Text:           "A five-year office lease.",
			},
		}}
		ports.Ingest = ingest

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: "/tmp/lease.pdf"})
		require.NoError(t, err)

		assert.Equal(t, "/tmp/lease.pdf", ingest.locator)
		assert.Equal(t, "alice", ingest.owner)
		assert.Equal(t, "doc-1", output.DocumentID)
		assert.Equal(t, "Office Lease", output.Title)
		assert.Equal(t, 12, output.ChunkCount)
		assert.Equal(t, string(domain.AgreementCommercialLease), output.AgreementType)
		assert.Equal(t, "Commercial Lease Agreement", output.AgreementLabel)
		assert.Equal(t, "A five-year office lease.", output.Summary)
	})

	t.Run("explicit owner wins", func(t *testing.T) {
		ports := newTestPorts()
		ingest := &mockIngestService{result: &domain.IngestResult{DocumentID: "doc-2"}}
		ports.Ingest = ingest

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleIngest(ctx, nil, IngestInput{Path: "/a.txt", Owner: "bob"})
		require.NoError(t, err)
		assert.Equal(t, "bob", ingest.owner)
		assert.Empty(t, output.Summary)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Ingest = &mockIngestService{err: domain.ErrTextExtraction}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleIngest(ctx, nil, IngestInput{Path: "/scan.pdf"})
		assert.ErrorIs(t, err, domain.ErrTextExtraction)
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("passes request through", func(t *testing.T) {
		ports := newTestPorts()
		chat := &mockChatService{result: &domain.AskResult{
			SessionID:    "s-1",
			SessionName:  "Termination terms",
			Response:     "Either party may terminate with 30 days notice.",
			MessageCount: 4,
			Route:        domain.RouteFallback,
		}}
		ports.Chat = chat

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{
			DocumentID: "doc-1",
			SessionID:  "s-1",
			Query:      "How can this be terminated?",
		})
		require.NoError(t, err)

		assert.Equal(t, domain.AskRequest{
			Owner: "alice", DocumentID: "doc-1", SessionID: "s-1", Query: "How can this be terminated?",
		}, chat.req)
		assert.Equal(t, "s-1", output.SessionID)
		assert.Equal(t, "Termination terms", output.SessionName)
		assert.Equal(t, 4, output.MessageCount)
		assert.Equal(t, string(domain.RouteFallback), output.Route)
	})

	t.Run("returns error on failure", func(t *testing.T) {
		ports := newTestPorts()
		ports.Chat = &mockChatService{err: errors.New("llm down")}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{DocumentID: "doc-1", Query: "q"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "llm down")
	})
}

func TestServer_handleDetailedSummary(t *testing.T) {
	ctx := context.Background()

	t.Run("returns summary", func(t *testing.T) {
		ports := newTestPorts()
		summaries := &mockSummaryService{detailed: &domain.Summary{
			AgreementType:  domain.AgreementService,
			AgreementLabel: "Service Agreement",
			Detail:         domain.SummaryDetailed,
			Text:           "Detailed text",
			WordCount:      2,
		}}
		ports.Summary = summaries

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleDetailedSummary(ctx, nil, SummaryInput{DocumentID: "doc-9"})
		require.NoError(t, err)

		assert.Equal(t, "alice", summaries.owner)
		assert.Equal(t, "doc-9", summaries.documentID)
		assert.Equal(t, "doc-9", output.DocumentID)
		assert.Equal(t, string(domain.AgreementService), output.AgreementType)
		assert.Equal(t, "Detailed text", output.Summary)
		assert.Equal(t, 2, output.WordCount)
		assert.False(t, output.Failed)
	})

	t.Run("failed generation is not a tool error", func(t *testing.T) {
		ports := newTestPorts()
		ports.Summary = &mockSummaryService{detailed: &domain.Summary{
			Text:   domain.DetailedSummaryPlaceholder,
			Failed: true,
		}}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleDetailedSummary(ctx, nil, SummaryInput{DocumentID: "doc-9"})
		require.NoError(t, err)
		assert.True(t, output.Failed)
		assert.Equal(t, domain.DetailedSummaryPlaceholder, output.Summary)
	})

	t.Run("unknown document", func(t *testing.T) {
		ports := newTestPorts()
		ports.Summary = &mockSummaryService{err: domain.ErrDocumentNotFound}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleDetailedSummary(ctx, nil, SummaryInput{DocumentID: "nope"})
		assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	})
}
