package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name      string
		reply     string
		wantType  domain.AgreementType
		wantLabel string
	}{
		{"residential", "1. Residential Rental/Lease Agreement", domain.AgreementResidentialLease, "1. Residential Rental/Lease Agreement"},
		{"commercial wins over lease", "2. Commercial Lease Agreement", domain.AgreementCommercialLease, "2. Commercial Lease Agreement"},
		{"hostel", "3. Paying Guest (PG) or Hostel Contract", domain.AgreementPayingGuest, "3. Paying Guest (PG) or Hostel Contract"},
		{"surrounding whitespace", "  5. Employment Agreement\n", domain.AgreementEmployment, "5. Employment Agreement"},
		{"unrecognised", "9. Other: Non-Disclosure Agreement", domain.AgreementOther, "9. Other: Non-Disclosure Agreement"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := newMockLLM()
			llm.setReply("CLASSIFY", tt.reply)
			c := NewClassifier(llm, &mockPromptStore{}, 0)

			got := c.Classify(context.Background(), "text")

			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, tt.wantLabel, got.Label)
		})
	}
}

func TestClassifier_FailuresYieldUnknown(t *testing.T) {
	t.Run("provider error", func(t *testing.T) {
		llm := newMockLLM()
		llm.setErr("CLASSIFY", fmt.Errorf("503"))
		c := NewClassifier(llm, &mockPromptStore{}, 0)

		assert.Equal(t, unknownClassification, c.Classify(context.Background(), "text"))
	})

	t.Run("empty answer", func(t *testing.T) {
		llm := newMockLLM()
		llm.setReply("CLASSIFY", "   ")
		c := NewClassifier(llm, &mockPromptStore{}, 0)

		assert.Equal(t, unknownClassification, c.Classify(context.Background(), "text"))
	})

	t.Run("no llm", func(t *testing.T) {
		c := NewClassifier(nil, &mockPromptStore{}, 0)

		got := c.Classify(context.Background(), "text")
		assert.Equal(t, domain.AgreementUnknown, got.Type)
		assert.Equal(t, domain.UnknownAgreementLabel, got.Label)
	})

	t.Run("missing prompt", func(t *testing.T) {
		c := NewClassifier(newMockLLM(), &mockPromptStore{prompts: map[string]string{}}, 0)

		assert.Equal(t, unknownClassification, c.Classify(context.Background(), "text"))
	})
}

func TestClassifier_PromptUsesPrefixAndCategories(t *testing.T) {
	llm := newMockLLM()
	c := NewClassifier(llm, &mockPromptStore{}, 0)
	text := strings.Repeat("a", 3000) + strings.Repeat("b", 500)

	c.Classify(context.Background(), text)

	prompts := llm.promptsOf("CLASSIFY")
	require.Len(t, prompts, 1)
	body, categories, ok := strings.Cut(strings.TrimPrefix(prompts[0], "CLASSIFY "), "|")
	require.True(t, ok)
	assert.Equal(t, strings.Repeat("a", 3000), body)

	labels := strings.Split(categories, ";")
	require.Len(t, labels, 9)
	assert.Equal(t, "Residential Rental/Lease Agreement", labels[0])
	assert.Equal(t, "Other (specify)", labels[8])
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "héll", truncateRunes("héllo", 4))
	assert.Equal(t, "héllo", truncateRunes("héllo", 10))
	assert.Empty(t, truncateRunes("héllo", 0))
}
