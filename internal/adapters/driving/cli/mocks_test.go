package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type fakeIngest struct {
	results map[string]*domain.IngestResult
	err     error
	calls   []string
	owners  []string
}

func (f *fakeIngest) Ingest(_ context.Context, locator, owner string) (*domain.IngestResult, error) {
	f.calls = append(f.calls, locator)
	f.owners = append(f.owners, owner)
	if f.err != nil {
		return nil, f.err
	}
	if r, ok := f.results[locator]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

// fakeChat serves both the chat and summary ports.
type fakeChat struct {
	requests []domain.AskRequest
	result   *domain.AskResult
	err      error

	short      *domain.Summary
	detailed   *domain.Summary
	summaryErr error
	summaryFor []string
}

func (f *fakeChat) Ask(_ context.Context, req domain.AskRequest) (*domain.AskResult, error) {
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	r := *f.result
	r.MessageCount = len(f.requests) * 2
	return &r, nil
}

func (f *fakeChat) DetailedSummary(_ context.Context, owner, documentID string) (*domain.Summary, error) {
	f.summaryFor = append(f.summaryFor, owner+"/"+documentID)
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.detailed, nil
}

func (f *fakeChat) ShortSummary(_ context.Context, owner, documentID string) (*domain.Summary, error) {
	f.summaryFor = append(f.summaryFor, owner+"/"+documentID)
	if f.summaryErr != nil {
		return nil, f.summaryErr
	}
	return f.short, nil
}

type fakeSessions struct {
	sessions map[string]*domain.ChatSession
}

func (f *fakeSessions) List(_ context.Context, owner string) ([]domain.SessionSummary, error) {
	var out []domain.SessionSummary
	for _, s := range f.sessions {
		if s.Owner == owner {
			out = append(out, s.Summarise())
		}
	}
	return out, nil
}

func (f *fakeSessions) Get(_ context.Context, owner, sessionID string) (*domain.ChatSession, error) {
	s, ok := f.sessions[sessionID]
	if !ok || s.Owner != owner {
		return nil, domain.ErrSessionNotFound
	}
	return s, nil
}

func (f *fakeSessions) ForDocument(_ context.Context, owner, documentID string) (*domain.ChatSession, error) {
	for _, s := range f.sessions {
		if s.Owner == owner && s.DocumentID == documentID {
			return s, nil
		}
	}
	return nil, domain.ErrSessionNotFound
}

func (f *fakeSessions) Rename(_ context.Context, owner, sessionID, name string) (*domain.ChatSession, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidInput
	}
	s, ok := f.sessions[sessionID]
	if !ok || s.Owner != owner {
		return nil, domain.ErrSessionNotFound
	}
	s.Name = strings.TrimSpace(name)
	return s, nil
}

type fakeDocuments struct {
	docs    []domain.Document
	chunks  map[string][]domain.Chunk
	deleted []string
}

func (f *fakeDocuments) List(_ context.Context, owner string) ([]domain.Document, error) {
	var out []domain.Document
	for _, d := range f.docs {
		if d.Owner == owner {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeDocuments) Get(_ context.Context, owner, documentID string) (*domain.Document, error) {
	for i := range f.docs {
		if f.docs[i].ID == documentID && f.docs[i].Owner == owner {
			return &f.docs[i], nil
		}
	}
	return nil, domain.ErrDocumentNotFound
}

func (f *fakeDocuments) Chunks(_ context.Context, _, documentID string) ([]domain.Chunk, error) {
	chunks, ok := f.chunks[documentID]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	return chunks, nil
}

func (f *fakeDocuments) Content(ctx context.Context, owner, documentID string) (string, error) {
	chunks, err := f.Chunks(ctx, owner, documentID)
	if err != nil {
		return "", err
	}
	return strings.Join(domain.ChunkTexts(chunks), "\n"), nil
}

func (f *fakeDocuments) Delete(_ context.Context, owner, documentID string) error {
	for i := range f.docs {
		if f.docs[i].ID == documentID && f.docs[i].Owner == owner {
			f.docs = append(f.docs[:i], f.docs[i+1:]...)
			f.deleted = append(f.deleted, documentID)
			return nil
		}
	}
	return domain.ErrDocumentNotFound
}

type fakeSettings struct {
	settings    domain.AppSettings
	saved       int
	validateErr error
	pingErr     error
}

func newFakeSettings() *fakeSettings {
	s := domain.DefaultAppSettings()
	s.Owner = "alice"
	return &fakeSettings{settings: s}
}

func (f *fakeSettings) Get() (*domain.AppSettings, error) {
	s := f.settings
	return &s, nil
}

func (f *fakeSettings) Save(settings *domain.AppSettings) error {
	f.settings = *settings
	f.saved++
	return nil
}

func (f *fakeSettings) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.Embedding.Provider = provider
	f.settings.Embedding.Model = model
	f.settings.Embedding.APIKey = apiKey
	f.saved++
	return nil
}

func (f *fakeSettings) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	f.settings.LLM.Provider = provider
	f.settings.LLM.Model = model
	f.settings.LLM.APIKey = apiKey
	f.saved++
	return nil
}

func (f *fakeSettings) SetChunking(chunkSize, overlap int) error {
	if chunkSize <= 0 || overlap < 0 || overlap >= chunkSize {
		return domain.ErrConfiguration
	}
	f.settings.Chunker.ChunkSize = chunkSize
	f.settings.Chunker.Overlap = overlap
	f.saved++
	return nil
}

func (f *fakeSettings) Validate() error { return f.validateErr }
func (f *fakeSettings) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }
func (f *fakeSettings) ValidateEmbeddingConfig() error { return f.pingErr }
func (f *fakeSettings) ValidateLLMConfig() error { return f.pingErr }
func (f *fakeSettings) GetPipelineConfig() domain.PipelineConfig { return domain.DefaultPipelineConfig() }

type testServices struct {
	ingest    *fakeIngest
	chat      *fakeChat
	sessions  *fakeSessions
	documents *fakeDocuments
	settings  *fakeSettings
}

// setupTestServices installs fakes and resets command state.
func setupTestServices(t *testing.T) *testServices {
	t.Helper()

	ts := &testServices{
		ingest: &fakeIngest{results: map[string]*domain.IngestResult{
			"lease.pdf": {
				DocumentID: "doc-1",
				Title:      "Lease",
				ChunkCount: 4,
				Summary: &domain.Summary{
					DocumentID:     "doc-1",
					AgreementType:  domain.AgreementResidentialLease,
					AgreementLabel: "1. Residential Rental/Lease Agreement",
					Detail:         domain.SummaryShort,
					Text:           "A twelve month lease of a flat at 4000 per month.",
					WordCount:      11,
				},
			},
		}},
		chat: &fakeChat{
			result: &domain.AskResult{
				SessionID:   "sess-1",
				SessionName: "Lease questions",
				Response:    "The deposit is two months of rent.",
				Route:       domain.RouteRetrieval,
			},
			short: &domain.Summary{
				DocumentID:     "doc-1",
				AgreementLabel: "1. Residential Rental/Lease Agreement",
				Detail:         domain.SummaryShort,
				Text:           "Short lease summary.",
				WordCount:      3,
			},
			detailed: &domain.Summary{
				DocumentID:     "doc-1",
				AgreementLabel: "1. Residential Rental/Lease Agreement",
				Detail:         domain.SummaryDetailed,
				Text:           "Detailed lease summary.",
				WordCount:      3,
			},
		},
		sessions: &fakeSessions{sessions: map[string]*domain.ChatSession{
			"sess-1": {
				ID:           "sess-1",
				Name:         "Lease questions",
				Owner:        "alice",
				DocumentID:   "doc-1",
				DocumentName: "Lease",
				Messages: []domain.ChatMessage{
					{ID: "m1", Role: domain.RoleUser, Content: "What is the deposit?", Timestamp: testTime},
					{ID: "m2", Role: domain.RoleAssistant, Content: "Two months of rent.", Timestamp: testTime},
				},
				MessageCount: 2,
				CreatedAt:    testTime,
				UpdatedAt:    testTime,
			},
		}},
		documents: &fakeDocuments{
			docs: []domain.Document{{
				ID:             "doc-1",
				Owner:          "alice",
				URI:            "/agreements/lease.pdf",
				Title:          "Lease",
				AgreementType:  domain.AgreementResidentialLease,
				ChunkCount:     2,
				Dimensions:     3,
				EmbeddingModel: "test-embed",
				Metadata:       map[string]any{"pages": 3, "format": "pdf"},
				CreatedAt:      testTime,
				UpdatedAt:      testTime,
			}},
			chunks: map[string][]domain.Chunk{
				"doc-1": {
					{ID: "c0", DocumentID: "doc-1", Content: "1. Rent is due monthly.", Position: 0},
					{ID: "c1", DocumentID: "doc-1", Content: "2. The deposit is held in trust.", Position: 1},
				},
			},
		},
		settings: newFakeSettings(),
	}

	SetServices(&Services{
		Ingest:    ts.ingest,
		Chat:      ts.chat,
		Summary:   ts.chat,
		Sessions:  ts.sessions,
		Documents: ts.documents,
		Settings:  ts.settings,
	})

	jsonOutput = false
	ownerFlag = ""
	askSessionID = ""
	showContent = false

	t.Cleanup(func() {
		SetServices(&Services{})
		jsonOutput = false
		ownerFlag = ""
		askSessionID = ""
		showContent = false
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	})
	return ts
}

// execute runs the root command and returns its combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}
