package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks provider settings before they are saved by
// building the adapter and pinging it.
type ConfigValidator struct {
	timeout time.Duration
}

// ValidatorOption configures a ConfigValidator.
type ValidatorOption func(*ConfigValidator)

// WithValidationTimeout bounds each validation, including client set-up.
func WithValidationTimeout(d time.Duration) ValidatorOption {
	return func(v *ConfigValidator) {
		if d > 0 {
			v.timeout = d
		}
	}
}

// NewConfigValidator creates a validator.
func NewConfigValidator(opts ...ValidatorOption) *ConfigValidator {
	v := &ConfigValidator{timeout: 2 * pingTimeout}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateEmbedding pings the embedding provider. Unconfigured settings pass.
func (v *ConfigValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := ValidateEmbeddingConfig(ctx, config); err != nil {
		return fmt.Errorf("embedding provider %s (model %q): %w", config.Provider, config.Model, err)
	}
	return nil
}

// ValidateLLM pings the LLM provider. Unconfigured settings pass.
func (v *ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	ctx, cancel := context.WithTimeout(context.Background(), v.timeout)
	defer cancel()

	if err := ValidateLLMConfig(ctx, config); err != nil {
		return fmt.Errorf("LLM provider %s (model %q): %w", config.Provider, config.Model, err)
	}
	return nil
}
