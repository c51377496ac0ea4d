package driving

import "github.com/custodia-labs/clausewise/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetChunking updates chunk size and overlap.
	// Returns domain.ErrConfiguration when overlap >= chunk size.
	SetChunking(chunkSize, overlap int) error

	// Validate checks that the pipeline can run with current settings.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error

	// GetPipelineConfig returns the post-processor pipeline configuration.
	GetPipelineConfig() domain.PipelineConfig
}
