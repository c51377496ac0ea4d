package services

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

// promptFuncs are the helpers available to every prompt template.
var promptFuncs = template.FuncMap{
	"join": strings.Join,
	"inc":  func(i int) int { return i + 1 },
}

// renderPrompt loads the named template and executes it with data.
func renderPrompt(store driven.PromptStore, name string, data any) (string, error) {
	src, err := store.Load(name)
	if err != nil {
		return "", fmt.Errorf("load prompt %s: %w", name, err)
	}

	tmpl, err := template.New(name).Funcs(promptFuncs).Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse prompt %s: %w", name, err)
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render prompt %s: %w", name, err)
	}
	return b.String(), nil
}

type classifyPromptData struct {
	Text       string
	Categories []string
}

type summaryPromptData struct {
	Text     string
	Template domain.TemplateDescriptor
	Detailed bool
	MinWords int
	MaxWords int
}

type answerPromptData struct {
	Context []string
	History []string
	Query   string
}

type chatNamePromptData struct {
	DocumentName string
	Summary      string
	Query        string
}
