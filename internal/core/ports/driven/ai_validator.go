package driven

import "github.com/custodia-labs/clausewise/internal/core/domain"

// AIConfigValidator checks AI provider settings by connecting to the provider.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider described by config.
	// Returns nil when the provider is not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider described by config.
	// Returns nil when the provider is not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
