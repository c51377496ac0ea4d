package mcp

import (
	"context"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	result *domain.IngestResult
	err    error

	locator string
	owner   string
}

func (m *mockIngestService) Ingest(_ context.Context, locator, owner string) (*domain.IngestResult, error) {
	m.locator, m.owner = locator, owner
	return m.result, m.err
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	result *domain.AskResult
	err    error

	req domain.AskRequest
}

func (m *mockChatService) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	m.req = req
	return m.result, m.err
}

// mockSummaryService is a mock implementation of driving.SummaryService.
type mockSummaryService struct {
	detailed *domain.Summary
	short    *domain.Summary
	err      error
	shortErr error

	owner      string
	documentID string
}

func (m *mockSummaryService) DetailedSummary(_ context.Context, owner, documentID string) (*domain.Summary, error) {
	m.owner, m.documentID = owner, documentID
	return m.detailed, m.err
}

func (m *mockSummaryService) ShortSummary(_ context.Context, _, _ string) (*domain.Summary, error) {
	return m.short, m.shortErr
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	sessions []domain.SessionSummary
	session  *domain.ChatSession
	err      error
}

func (m *mockSessionService) List(_ context.Context, _ string) ([]domain.SessionSummary, error) {
	return m.sessions, m.err
}

func (m *mockSessionService) Get(_ context.Context, _, _ string) (*domain.ChatSession, error) {
	return m.session, m.err
}

func (m *mockSessionService) ForDocument(_ context.Context, _, _ string) (*domain.ChatSession, error) {
	return m.session, m.err
}

func (m *mockSessionService) Rename(_ context.Context, _, _, _ string) (*domain.ChatSession, error) {
	return m.session, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	err       error
}

func (m *mockDocumentService) List(_ context.Context, _ string) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Chunks(_ context.Context, _, _ string) ([]domain.Chunk, error) {
	return nil, m.err
}

func (m *mockDocumentService) Content(_ context.Context, _, _ string) (string, error) {
	return "", m.err
}

func (m *mockDocumentService) Delete(_ context.Context, _, _ string) error {
	return m.err
}

// newTestPorts returns ports with every pipeline service mocked.
func newTestPorts() *Ports {
	return &Ports{
		Ingest:  &mockIngestService{},
		Chat:    &mockChatService{},
		Summary: &mockSummaryService{},
		Owner:   "alice",
	}
}
