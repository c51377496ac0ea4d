package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/clausewise/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Each EmbedBatch call consumes the next scripted error; nil entries and an
// exhausted script succeed.
type mockEmbeddingService struct {
	mu       sync.Mutex
	errs     []error
	calls    int
	batches  [][]string
	vectorFn func(string) []float32
	short    bool
}

func (m *mockEmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (m *mockEmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	call := m.calls
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	short := m.short
	m.short = false
	var err error
	if call < len(m.errs) {
		err = m.errs[call]
	}
	m.mu.Unlock()

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if err != nil {
		return nil, err
	}

	vectorFn := m.vectorFn
	if vectorFn == nil {
		vectorFn = keywordVector
	}
	out := make([][]float32, 0, len(texts))
	for _, t := range texts {
		out = append(out, vectorFn(t))
	}
	if short && len(out) > 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (m *mockEmbeddingService) Dimensions() int { return 3 }

func (m *mockEmbeddingService) ModelName() string { return "mock-embed" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return nil }

func (m *mockEmbeddingService) Close() error { return nil }

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockEmbeddingService) batchLog() [][]string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.batches
}

// failNext scripts the errors for the following calls.
func (m *mockEmbeddingService) failNext(errs ...error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs = errs
	m.calls = 0
	m.batches = nil
}

// returnShortOnce makes the next call return one vector too few.
func (m *mockEmbeddingService) returnShortOnce() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.short = true
}

// keywordVector places text on three axes: rent, deposit and termination.
func keywordVector(text string) []float32 {
	lower := strings.ToLower(text)
	return []float32{
		float32(strings.Count(lower, "rent")),
		float32(strings.Count(lower, "deposit")),
		float32(strings.Count(lower, "termination")),
	}
}

// mockLLMService implements driven.LLMService for testing.
// Prompts are routed by their first word, matching testPrompts.
type mockLLMService struct {
	mu      sync.Mutex
	prompts []string
	replies map[string]string
	errs    map[string]error
	delay   time.Duration
}

func newMockLLM() *mockLLMService {
	return &mockLLMService{
		replies: map[string]string{
			"CLASSIFY": "1. Residential Rental/Lease Agreement",
			"SUMMARY":  "The tenant pays monthly rent and a refundable deposit.",
			"ANSWER":   "The rent is 1000 per month.",
			"NAME":     "Lease Review",
		},
		errs: map[string]error{},
	}
}

func (m *mockLLMService) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	kind, _, _ := strings.Cut(prompt, " ")

	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	reply, err, delay := m.replies[kind], m.errs[kind], m.delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
	}
	if err != nil {
		return "", err
	}
	return reply, nil
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if len(messages) == 0 {
		return "", nil
	}
	return m.Generate(ctx, messages[len(messages)-1].Content, driven.GenerateOptions{MaxTokens: opts.MaxTokens})
}

func (m *mockLLMService) ModelName() string { return "mock-llm" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) setReply(kind, reply string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies[kind] = reply
}

func (m *mockLLMService) setErr(kind string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[kind] = err
}

// promptsOf returns the prompts sent with the given first word.
func (m *mockLLMService) promptsOf(kind string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, p := range m.prompts {
		if strings.HasPrefix(p, kind+" ") {
			out = append(out, p)
		}
	}
	return out
}

// testPrompts are compact templates whose output is easy to assert on.
var testPrompts = map[string]string{
	driven.PromptClassify: `CLASSIFY {{.Text}}|{{join .Categories ";"}}`,
	driven.PromptSummary:  `SUMMARY type={{.Template.Type}} detailed={{.Detailed}} words={{.MinWords}}-{{.MaxWords}} text={{.Text}}`,
	driven.PromptAnswer:   `ANSWER ctx={{join .Context "||"}} hist={{join .History "||"}} q={{.Query}}`,
	driven.PromptChatName: `NAME doc={{.DocumentName}} summary={{.Summary}} q={{.Query}}`,
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	prompts := m.prompts
	if prompts == nil {
		prompts = testPrompts
	}
	p, ok := prompts[name]
	if !ok {
		return "", fmt.Errorf("unknown prompt %q", name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockTextSource implements driven.TextSource for testing.
type mockTextSource struct {
	docs map[string]domain.Document
	err  error
}

func (m *mockTextSource) Extract(_ context.Context, locator string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	doc, ok := m.docs[locator]
	if !ok {
		return nil, fmt.Errorf("open %s: no such file", locator)
	}
	return &doc, nil
}

// mockPipeline implements driven.PostProcessorPipeline by splitting content
// on blank lines.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Chunk, error) {
	if m.err != nil {
		return nil, m.err
	}
	var chunks []domain.Chunk
	for _, part := range strings.Split(doc.Content, "\n\n") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		chunks = append(chunks, domain.Chunk{
			ID:         fmt.Sprintf("%s-%d", doc.ID, len(chunks)),
			DocumentID: doc.ID,
			Content:    part,
			Position:   len(chunks),
		})
	}
	return chunks, nil
}

// failingBlobStore fails Put for keys containing failOn.
type failingBlobStore struct {
	*memory.BlobStore
	failOn string
}

func (f *failingBlobStore) Put(ctx context.Context, owner, key string, data []byte) error {
	if f.failOn != "" && strings.Contains(key, f.failOn) {
		return fmt.Errorf("disk full")
	}
	return f.BlobStore.Put(ctx, owner, key, data)
}

// noSleep records retry delays without waiting.
type noSleep struct {
	mu     sync.Mutex
	delays []time.Duration
}

func (n *noSleep) sleep(ctx context.Context, d time.Duration) error {
	n.mu.Lock()
	n.delays = append(n.delays, d)
	n.mu.Unlock()
	return ctx.Err()
}

// leaseAgreement has one clause per topic so retrieval is predictable.
const leaseAgreement = `This lease agreement is made between the landlord and the tenant.

The monthly rent is 1000 and is due on the first day of each month.

A security deposit of 2000 is payable before move-in.

Termination requires sixty days written notice by either party.`

// testEnv wires the services over in-memory fakes.
type testEnv struct {
	blobs    *memory.BlobStore
	llm      *mockLLMService
	embed    *mockEmbeddingService
	source   *mockTextSource
	sleeper  *noSleep
	ingest   *IngestService
	chat     *ChatService
	sessions *SessionStore
	docs     *DocumentService
}

func newTestEnv() *testEnv {
	env := &testEnv{
		blobs: memory.NewBlobStore(),
		llm:   newMockLLM(),
		embed: &mockEmbeddingService{},
		source: &mockTextSource{docs: map[string]domain.Document{
			"/docs/lease.pdf": {Title: "lease.pdf", URI: "/docs/lease.pdf", Content: leaseAgreement},
		}},
		sleeper: &noSleep{},
	}

	prompts := &mockPromptStore{}
	embedder := NewEmbedder(env.embed, domain.EmbeddingSettings{BatchSize: 2, MaxRetries: 3}, WithSleeper(env.sleeper.sleep))
	classifier := NewClassifier(env.llm, prompts, time.Second)
	summarizer := NewSummarizer(env.llm, prompts, classifier, time.Second)
	retrieval := domain.RetrievalSettings{TopK: 2, HistoryWindow: 4}
	answerer := NewAnswerer(embedder, env.llm, prompts, summarizer, retrieval, time.Second)
	namer := NewChatNamer(env.llm, prompts, time.Second)

	env.sessions = NewSessionStore(env.blobs)
	env.ingest = NewIngestService(env.source, &mockPipeline{}, embedder, summarizer, env.blobs)
	env.chat = NewChatService(env.blobs, env.sessions, answerer, summarizer, namer, retrieval)
	env.docs = NewDocumentService(env.blobs)
	return env
}
