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

// Classification is the outcome of agreement type detection.
type Classification struct {
	Type  domain.AgreementType
	Label string
}

// unknownClassification is used whenever the classifier cannot answer.
var unknownClassification = Classification{
	Type:  domain.AgreementUnknown,
	Label: domain.UnknownAgreementLabel,
}

// Classifier assigns an agreement category to document text.
type Classifier struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	prefix  int
	timeout time.Duration
}

// NewClassifier creates a classifier. A nil llm always yields the unknown type.
func NewClassifier(llm driven.LLMService, prompts driven.PromptStore, timeout time.Duration) *Classifier {
	if timeout <= 0 {
		timeout = domain.DefaultGenerationTimeout
	}
	return &Classifier{
		llm:     llm,
		prompts: prompts,
		prefix:  domain.DefaultClassifierPrefix,
		timeout: timeout,
	}
}

// Classify asks the model for a category using the first 3000 characters
// of text. It never fails: any error is logged and reported as the unknown
// type so callers take the generic summary path.
func (c *Classifier) Classify(ctx context.Context, text string) Classification {
	label, err := c.ask(ctx, text)
	if err != nil {
		logger.Warn("Agreement classification failed: %v", err)
		return unknownClassification
	}

	kind := domain.AgreementTypeFromLabel(label)
	logger.Debug("Classified agreement as %q (%s)", label, kind)
	return Classification{Type: kind, Label: label}
}

func (c *Classifier) ask(ctx context.Context, text string) (string, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	categories := domain.ClassifiableAgreementTypes()
	labels := make([]string, 0, len(categories))
	for _, t := range categories {
		label := t.Label()
		if t == domain.AgreementOther {
			label = "Other (specify)"
		}
		labels = append(labels, label)
	}

	prompt, err := renderPrompt(c.prompts, driven.PromptClassify, classifyPromptData{
		Text:       truncateRunes(text, c.prefix),
		Categories: labels,
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	answer, err := c.llm.Generate(callCtx, prompt, driven.GenerateOptions{Temperature: 0})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrClassification, err)
	}

	answer = strings.TrimSpace(answer)
	if answer == "" {
		return "", fmt.Errorf("%w: empty answer", domain.ErrClassification)
	}
	return answer, nil
}

// truncateRunes returns at most n runes of s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
