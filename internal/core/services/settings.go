package services

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyOwner             = "owner"
	keyEmbedProvider     = "embedding.provider"
	keyEmbedModel        = "embedding.model"
	keyEmbedBaseURL      = "embedding.base_url"
	keyEmbedAPIKey       = "embedding.api_key"
	keyEmbedBatchSize    = "embedding.batch_size"
	keyEmbedMaxRetries   = "embedding.max_retries"
	keyEmbedConcurrency  = "embedding.concurrency"
	keyEmbedTimeout      = "embedding.timeout_seconds"
	keyEmbedRPS          = "embedding.requests_per_second"
	keyLLMProvider       = "llm.provider"
	keyLLMModel          = "llm.model"
	keyLLMBaseURL        = "llm.base_url"
	keyLLMAPIKey         = "llm.api_key"
	keyLLMTimeout        = "llm.timeout_seconds"
	keyChunkSize         = "chunker.chunk_size"
	keyChunkOverlap      = "chunker.overlap"
	keyRetrievalTopK     = "retrieval.top_k"
	keyRetrievalHistory  = "retrieval.history_window"
	keyStorageBackend    = "storage.backend"
	keyStoragePath       = "storage.path"
	keyRedisAddr         = "redis.addr"
	keyRedisPassword     = "redis.password"
	keyRedisDB           = "redis.db"
	keyRedisPoolSize     = "redis.pool_size"
	keyPipelineProcessor = "pipeline.processors"
)

// Environment variables consulted when a key is not configured.
const (
	EnvOpenAIKey    = "OPENAI_API_KEY"
	EnvAnthropicKey = "ANTHROPIC_API_KEY"
	EnvGeminiKey    = "GEMINI_API_KEY"
	EnvGoogleKey    = "GOOGLE_API_KEY"
	EnvRedisAddr    = "CLAUSEWISE_REDIS_ADDR"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// SetEnvLookup replaces the environment lookup used for API key fallbacks.
func (s *SettingsService) SetEnvLookup(getenv func(string) string) {
	s.getenv = getenv
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Owner: s.getString(keyOwner, defaults.Owner),
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, defaults.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			BatchSize:         s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
			MaxRetries:        s.getInt(keyEmbedMaxRetries, defaults.Embedding.MaxRetries),
			Concurrency:       s.getInt(keyEmbedConcurrency, defaults.Embedding.Concurrency),
			Timeout:           s.getSeconds(keyEmbedTimeout, defaults.Embedding.Timeout),
			RequestsPerSecond: s.configStore.GetFloat(keyEmbedRPS),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:    s.getString(keyLLMModel, defaults.LLM.Model),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Chunker: domain.ChunkerSettings{
			ChunkSize: s.getInt(keyChunkSize, defaults.Chunker.ChunkSize),
			Overlap:   s.getIntOrZero(keyChunkOverlap, defaults.Chunker.Overlap),
		},
		Retrieval: domain.RetrievalSettings{
			TopK:          s.getInt(keyRetrievalTopK, defaults.Retrieval.TopK),
			HistoryWindow: s.getInt(keyRetrievalHistory, defaults.Retrieval.HistoryWindow),
		},
		Storage: domain.StorageSettings{
			Backend: s.getBackend(defaults.Storage.Backend),
			Path:    s.configStore.GetString(keyStoragePath),
			Redis: domain.RedisSettings{
				Addr:     s.getString(keyRedisAddr, s.envOr(EnvRedisAddr, defaults.Storage.Redis.Addr)),
				Password: s.configStore.GetString(keyRedisPassword),
				DB:       s.configStore.GetInt(keyRedisDB),
				PoolSize: s.getInt(keyRedisPoolSize, defaults.Storage.Redis.PoolSize),
			},
		},
	}

	if settings.Embedding.APIKey == "" {
		settings.Embedding.APIKey = s.envAPIKey(settings.Embedding.Provider)
	}
	if settings.LLM.APIKey == "" {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

// Save persists application settings.
// API keys are only written when set, so environment fallbacks are not
// copied into the config file.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyOwner, settings.Owner},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyEmbedBatchSize, settings.Embedding.BatchSize},
		{keyEmbedMaxRetries, settings.Embedding.MaxRetries},
		{keyEmbedConcurrency, settings.Embedding.Concurrency},
		{keyEmbedTimeout, int(settings.Embedding.Timeout / time.Second)},
		{keyEmbedRPS, settings.Embedding.RequestsPerSecond},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyChunkSize, settings.Chunker.ChunkSize},
		{keyChunkOverlap, settings.Chunker.Overlap},
		{keyRetrievalTopK, settings.Retrieval.TopK},
		{keyRetrievalHistory, settings.Retrieval.HistoryWindow},
		{keyStorageBackend, string(settings.Storage.Backend)},
		{keyStoragePath, settings.Storage.Path},
		{keyRedisAddr, settings.Storage.Redis.Addr},
		{keyRedisDB, settings.Storage.Redis.DB},
		{keyRedisPoolSize, settings.Storage.Redis.PoolSize},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key   string
		value string
		env   string
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey, s.envAPIKey(settings.Embedding.Provider)},
		{keyLLMAPIKey, settings.LLM.APIKey, s.envAPIKey(settings.LLM.Provider)},
		{keyRedisPassword, settings.Storage.Redis.Password, ""},
	}
	for _, v := range secrets {
		if v.value == "" || v.value == v.env {
			continue
		}
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}
	if !slices.Contains(domain.AllEmbeddingProviders(), provider) {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}
	if apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetChunking updates chunk size and overlap.
func (s *SettingsService) SetChunking(chunkSize, overlap int) error {
	cfg := domain.ChunkerSettings{ChunkSize: chunkSize, Overlap: overlap}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("chunk_size=%d overlap=%d: %w", chunkSize, overlap, err)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Chunker = cfg
	return s.Save(settings)
}

// Validate checks that the pipeline can run with current settings.
// Ingestion needs an embedding provider; summaries and answers need an LLM.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if err := settings.Chunker.Validate(); err != nil {
		return fmt.Errorf("chunker settings: %w", err)
	}
	if !settings.Storage.Backend.IsValid() {
		return fmt.Errorf("storage backend %q: %w", settings.Storage.Backend, domain.ErrConfiguration)
	}
	if !settings.Embedding.IsConfigured() {
		return fmt.Errorf("embedding provider is not configured: %w", domain.ErrConfiguration)
	}
	if !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider is not configured: %w", domain.ErrConfiguration)
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// GetPipelineConfig returns the post-processor pipeline configuration.
// The chunker is configured from the chunker.* keys.
func (s *SettingsService) GetPipelineConfig() domain.PipelineConfig {
	cfg := domain.DefaultPipelineConfig()

	if processors := s.configStore.GetStringSlice(keyPipelineProcessor); len(processors) > 0 {
		cfg.Processors = processors
	}

	if settings, err := s.Get(); err == nil {
		cfg.ProcessorConfigs["chunker"] = map[string]any{
			"chunk_size": settings.Chunker.ChunkSize,
			"overlap":    settings.Chunker.Overlap,
		}
	}

	return cfg
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

// getIntOrZero is getInt for keys where zero is a meaningful value.
func (s *SettingsService) getIntOrZero(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if n := s.configStore.GetInt(key); n > 0 {
		return time.Duration(n) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.StorageBackend) domain.StorageBackend {
	val := domain.StorageBackend(s.configStore.GetString(keyStorageBackend))
	if !val.IsValid() {
		return defaultVal
	}
	return val
}

func (s *SettingsService) envOr(name, defaultVal string) string {
	if v := s.getenv(name); v != "" {
		return v
	}
	return defaultVal
}

// envAPIKey returns the provider's API key from the environment.
func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	switch provider {
	case domain.AIProviderOpenAI:
		return s.getenv(EnvOpenAIKey)
	case domain.AIProviderAnthropic:
		return s.getenv(EnvAnthropicKey)
	case domain.AIProviderGemini:
		return s.envOr(EnvGeminiKey, s.getenv(EnvGoogleKey))
	default:
		return ""
	}
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

// baseURLFor keeps a configured URL for local providers and clears it for
// cloud providers.
func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return "http://localhost:11434"
	}
	return current
}
