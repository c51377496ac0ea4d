package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/logger"
)

// Summarizer produces agreement-aware summaries. It picks a template by
// agreement type and renders every variant through one prompt.
type Summarizer struct {
	llm        driven.LLMService
	prompts    driven.PromptStore
	classifier *Classifier
	timeout    time.Duration
	now        func() time.Time
}

// NewSummarizer creates a summarizer.
func NewSummarizer(
	llm driven.LLMService,
	prompts driven.PromptStore,
	classifier *Classifier,
	timeout time.Duration,
) *Summarizer {
	if timeout <= 0 {
		timeout = domain.DefaultGenerationTimeout
	}
	return &Summarizer{
		llm:        llm,
		prompts:    prompts,
		classifier: classifier,
		timeout:    timeout,
		now:        time.Now,
	}
}

// Summarize classifies text and then summarises it.
func (s *Summarizer) Summarize(ctx context.Context, text string, detail domain.SummaryDetail) *domain.Summary {
	return s.SummarizeAs(ctx, text, detail, s.classifier.Classify(ctx, text))
}

// SummarizeAs summarises text using an existing classification.
// It never fails: a generation error yields the variant's placeholder text
// with Failed set.
func (s *Summarizer) SummarizeAs(
	ctx context.Context, text string, detail domain.SummaryDetail, cls Classification,
) *domain.Summary {
	if !detail.IsValid() {
		detail = domain.SummaryShort
	}

	summary := &domain.Summary{
		AgreementType:  cls.Type,
		AgreementLabel: cls.Label,
		Detail:         detail,
		GeneratedAt:    s.now(),
	}

	out, err := s.generate(ctx, text, detail, domain.TemplateFor(cls.Type))
	if err != nil {
		logger.Warn("Summary generation failed: %v", err)
		out = detail.Placeholder()
		summary.Failed = true
	}

	summary.Text = out
	summary.WordCount = domain.CountWords(out)
	logger.Debug("Generated %s summary: %d words", detail, summary.WordCount)
	return summary
}

func (s *Summarizer) generate(
	ctx context.Context, text string, detail domain.SummaryDetail, tmpl domain.TemplateDescriptor,
) (string, error) {
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	minWords, maxWords := detail.WordBand()
	prompt, err := renderPrompt(s.prompts, driven.PromptSummary, summaryPromptData{
		Text:     text,
		Template: tmpl,
		Detailed: detail == domain.SummaryDetailed,
		MinWords: minWords,
		MaxWords: maxWords,
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.llm.Generate(callCtx, prompt, driven.GenerateOptions{})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrGeneration, err)
	}

	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty response", domain.ErrGeneration)
	}
	return out, nil
}
