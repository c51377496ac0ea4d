package services

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/logger"
)

const (
	maxChatNameLength  = 50
	maxSummaryPreview  = 200
	maxDocNameInChat   = 30
	fallbackChatSuffix = " Chat"
)

// ChatNamer names new chat sessions.
type ChatNamer struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	timeout time.Duration
}

// NewChatNamer creates a namer. A nil llm always uses the fallback name.
func NewChatNamer(llm driven.LLMService, prompts driven.PromptStore, timeout time.Duration) *ChatNamer {
	if timeout <= 0 {
		timeout = domain.DefaultProviderTimeout
	}
	return &ChatNamer{llm: llm, prompts: prompts, timeout: timeout}
}

// Name returns a title of at most 50 characters for a session. Model
// output has quotes stripped; an empty, overlong or failed answer falls
// back to a name built from the query or the document name.
func (n *ChatNamer) Name(ctx context.Context, documentName, summary, query string) string {
	name, err := n.generate(ctx, documentName, summary, query)
	if err != nil {
		logger.Debug("Chat naming failed, using fallback: %v", err)
		return fallbackChatName(documentName, query)
	}

	name = strings.TrimSpace(strings.NewReplacer(`"`, "", "'", "").Replace(name))
	if name == "" || len([]rune(name)) > maxChatNameLength {
		return fallbackChatName(documentName, query)
	}
	return name
}

func (n *ChatNamer) generate(ctx context.Context, documentName, summary, query string) (string, error) {
	if n.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	if len([]rune(summary)) > maxSummaryPreview {
		summary = truncateRunes(summary, maxSummaryPreview) + "..."
	}

	prompt, err := renderPrompt(n.prompts, driven.PromptChatName, chatNamePromptData{
		DocumentName: documentName,
		Summary:      summary,
		Query:        query,
	})
	if err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, n.timeout)
	defer cancel()

	return n.llm.Generate(callCtx, prompt, driven.GenerateOptions{MaxTokens: 32})
}

// fallbackChatName builds a name from the first three query words, or from
// the document name without its extension.
func fallbackChatName(documentName, query string) string {
	if words := strings.Fields(query); len(words) > 0 {
		name := strings.Join(words[:min(3, len(words))], " ") + fallbackChatSuffix
		if len([]rune(name)) <= maxChatNameLength {
			return name
		}
		return truncateRunes(words[0], maxChatNameLength-len(fallbackChatSuffix)) + fallbackChatSuffix
	}

	base := strings.TrimSuffix(documentName, filepath.Ext(documentName))
	if strings.TrimSpace(base) == "" {
		base = "Document"
	}
	return truncateRunes(base, maxDocNameInChat) + fallbackChatSuffix
}
