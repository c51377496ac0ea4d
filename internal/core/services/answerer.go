package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/logger"
	"github.com/custodia-labs/clausewise/internal/vectorindex"
)

// summaryCommand is the query that requests a detailed summary instead of
// a retrieval answer.
const summaryCommand = "summary"

// queryEmbedder embeds a single query string.
type queryEmbedder interface {
	EmbedOne(ctx context.Context, text string) ([]float32, error)
}

// AnswerInput is everything needed to answer one question.
type AnswerInput struct {
	Query   string
	Index   *vectorindex.Index
	Chunks  []string
	History []string

	// Classification is reused for the summary route when known.
	Classification *Classification
}

// Answer is a generated response and how it was produced.
type Answer struct {
	Text  string
	Route domain.Route

	// Summary is set on the summary route.
	Summary *domain.Summary
}

// Answerer answers questions from retrieved document context.
type Answerer struct {
	embedder      queryEmbedder
	llm           driven.LLMService
	prompts       driven.PromptStore
	summarizer    *Summarizer
	topK          int
	summaryChunks int
	timeout       time.Duration
}

// NewAnswerer creates an answerer.
func NewAnswerer(
	embedder queryEmbedder,
	llm driven.LLMService,
	prompts driven.PromptStore,
	summarizer *Summarizer,
	retrieval domain.RetrievalSettings,
	timeout time.Duration,
) *Answerer {
	if timeout <= 0 {
		timeout = domain.DefaultGenerationTimeout
	}
	return &Answerer{
		embedder:      embedder,
		llm:           llm,
		prompts:       prompts,
		summarizer:    summarizer,
		topK:          positiveOr(retrieval.TopK, domain.DefaultTopK),
		summaryChunks: domain.DefaultSummaryChunks,
		timeout:       timeout,
	}
}

// IsSummaryRequest reports whether query asks for a detailed summary.
func IsSummaryRequest(query string) bool {
	return strings.EqualFold(strings.TrimSpace(query), summaryCommand)
}

// SummaryText joins the leading chunks used for document-level summaries.
func SummaryText(chunks []string, n int) string {
	if len(chunks) > n {
		chunks = chunks[:n]
	}
	return strings.Join(chunks, " ")
}

// Answer produces a response for in.Query.
//
// A "summary" query returns a detailed summary of the leading chunks.
// Other queries retrieve the top-k chunks by embedding distance; if the
// query cannot be embedded, the first k chunks are used instead. An index
// with no vectors fails with domain.ErrEmptyIndex.
func (a *Answerer) Answer(ctx context.Context, in AnswerInput) (*Answer, error) {
	if IsSummaryRequest(in.Query) {
		return a.summaryAnswer(ctx, in), nil
	}

	passages, route, err := a.retrieve(ctx, in)
	if err != nil {
		return nil, err
	}
	logger.Debug("Answering from %d chunks via %s", len(passages), route)

	prompt, err := renderPrompt(a.prompts, driven.PromptAnswer, answerPromptData{
		Context: passages,
		History: in.History,
		Query:   in.Query,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	if a.llm == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, domain.ErrLLMUnavailable)
	}

	callCtx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	text, err := a.llm.Generate(callCtx, prompt, driven.GenerateOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	return &Answer{Text: strings.TrimSpace(text), Route: route}, nil
}

func (a *Answerer) summaryAnswer(ctx context.Context, in AnswerInput) *Answer {
	text := SummaryText(in.Chunks, a.summaryChunks)

	var s *domain.Summary
	if in.Classification != nil && in.Classification.Type != domain.AgreementUnknown {
		s = a.summarizer.SummarizeAs(ctx, text, domain.SummaryDetailed, *in.Classification)
	} else {
		s = a.summarizer.Summarize(ctx, text, domain.SummaryDetailed)
	}
	return &Answer{Text: s.Text, Route: domain.RouteSummary, Summary: s}
}

// retrieve returns the context chunks for a query and the route taken.
func (a *Answerer) retrieve(ctx context.Context, in AnswerInput) ([]string, domain.Route, error) {
	if in.Index == nil || in.Index.Len() == 0 {
		return nil, "", domain.ErrEmptyIndex
	}

	q, err := a.embedQuery(ctx, in.Query)
	if err != nil {
		logger.Warn("Query embedding failed, using the first %d chunks: %v", a.topK, err)
		return leading(in.Chunks, a.topK), domain.RouteFallback, nil
	}

	hits, err := in.Index.Search(q, a.topK)
	if err != nil {
		return nil, "", fmt.Errorf("search: %w", err)
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		if h.Index >= len(in.Chunks) {
			return nil, "", fmt.Errorf("hit %d outside %d chunks: %w", h.Index, len(in.Chunks), domain.ErrInvalidInput)
		}
		out = append(out, in.Chunks[h.Index])
	}
	return out, domain.RouteRetrieval, nil
}

func (a *Answerer) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if a.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	q, err := a.embedder.EmbedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	return q, nil
}

func leading(chunks []string, n int) []string {
	if len(chunks) > n {
		return chunks[:n]
	}
	return chunks
}
