package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads LLM prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts as text/template sources.
// These are used when user files don't exist and as the initial content for new files.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptClassify: `Analyze the following legal document text and determine the type of agreement.

DOCUMENT TEXT:
{{.Text}}

CLASSIFY this document into ONE of these categories:
{{range $i, $c := .Categories}}{{inc $i}}. {{$c}}
{{end}}
Respond with ONLY the category number and name, nothing else.
Example: "1. Residential Rental/Lease Agreement"`,

	driven.PromptSummary: `{{if .Template.IsGeneric}}You are a legal document analyst.{{else}}You are a legal document analyst specializing in {{.Template.Specialty}}.{{end}}
Analyze the following {{.Template.Subject}} and create a {{if .Detailed}}comprehensive, detailed{{else}}comprehensive{{end}} summary of {{.MinWords}}-{{.MaxWords}} words.

DOCUMENT TEXT:
{{.Text}}
{{if .Detailed}}
Your detailed summary MUST include:
{{range $i, $s := .Template.Sections}}
{{inc $i}}. **{{$s.Title}}** ({{$s.MinWords}}-{{$s.MaxWords}} words):
{{range $s.Points}}- {{.}}
{{end}}{{end}}
Format the summary in clear, professional language with proper sections.
Keep it between {{.MinWords}}-{{.MaxWords}} words total.
Focus on providing a comprehensive understanding of all clauses and identifying potential problems.{{else}}
{{if .Template.IsGeneric}}Your summary should include:{{else}}Your summary MUST include these key components:{{end}}
{{range .Template.MustInclude}}- {{.}}
{{end}}{{with .Template.AlsoInclude}}
Also include:
{{range .}}- {{.}}
{{end}}{{end}}
Format the summary in clear, professional language suitable for a client.
Keep it between {{.MinWords}}-{{.MaxWords}} words.{{with .Template.ShortFocus}}
{{.}}{{end}}{{end}}`,

	driven.PromptAnswer: `You are a professional legal assistant who explains complex legal documents in simple, easy-to-understand language for people without legal backgrounds.

CONTEXT FROM DOCUMENT:
{{join .Context "\n\n"}}
{{with .History}}
PREVIOUS CONVERSATION:
{{join . "\n"}}
{{end}}
USER QUESTION: {{.Query}}

INSTRUCTIONS:
- Use simple language. Explain legal terms in plain English that anyone can understand.
- Break down complex legal concepts and make them clear and accessible.
- Help users grasp what the legal language actually means for them.
- Stay helpful, informative and professional.
- Use previous conversation context when relevant.
- If the question requires steps, procedures or a comprehensive explanation, provide them.

RESPONSE STYLE:
- Start with a clear, direct answer to the question.
- Use bullet points and numbered lists when they make complex information easier to understand.
- Use examples and practical explanations when helpful.
- Avoid legal jargon and complex terminology.
- Adapt response length to the complexity of the question.`,

	driven.PromptChatName: `Generate a concise, descriptive chat name (maximum 50 characters) for a legal agreement analysis session.

Context:
{{with .DocumentName}}Document: {{.}}
{{end}}{{with .Summary}}Content: {{.}}
{{end}}{{with .Query}}First question: {{.}}
{{end}}
Requirements:
- Be specific and descriptive about the legal agreement type
- Include the agreement type or main legal topic
- Keep it under 50 characters
- Use title case
- Avoid generic names like "Document Chat" or "PDF Discussion"

Examples of good names:
- "Employment Contract Review"
- "Lease Agreement Analysis"
- "Service Agreement Chat"
- "Partnership Agreement Review"

Generate only the chat name, nothing else:`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.clausewise/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		promptDir = filepath.Join(home, ".clausewise", "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// DefaultPrompt returns the embedded prompt for name.
func DefaultPrompt(name string) (string, bool) {
	p, ok := defaultPrompts[name]
	return p, ok
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Clausewise Prompts

This directory contains the prompts Clausewise sends to the language model.

## Files

- ` + "`classify.txt`" + ` - Picks the agreement category
- ` + "`summary.txt`" + ` - Short and detailed summaries
- ` + "`answer.txt`" + ` - Answers questions from retrieved clauses
- ` + "`chat_name.txt`" + ` - Names new chat sessions

## Customisation

Edit any file to customise LLM behaviour. Changes take effect on the next
command.

## Template Syntax

Prompts are Go text/template sources. Fields such as ` + "`{{.Text}}`" + ` and
` + "`{{.Query}}`" + ` are filled in at run time, and the helpers ` + "`join`" + ` and
` + "`inc`" + ` are available. Delete a file to restore its default.
`
	return os.WriteFile(path, []byte(content), 0600)
}
