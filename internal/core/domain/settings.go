package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Google Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// BatchSize is the number of texts sent per provider call.
	BatchSize int

	// MaxRetries is the number of attempts per batch.
	MaxRetries int

	// Concurrency is the number of batches in flight at once.
	Concurrency int

	// Timeout bounds a single provider call.
	Timeout time.Duration

	// RequestsPerSecond paces provider calls. Zero disables pacing.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds a single generation call.
	Timeout time.Duration
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// ChunkerSettings holds chunking parameters.
type ChunkerSettings struct {
	ChunkSize int
	Overlap   int
}

// Validate rejects parameters the chunker cannot honour.
func (c ChunkerSettings) Validate() error {
	if c.ChunkSize <= 0 || c.Overlap < 0 || c.Overlap >= c.ChunkSize {
		return ErrConfiguration
	}
	return nil
}

// RetrievalSettings holds answer composition parameters.
type RetrievalSettings struct {
	// TopK is the number of chunks retrieved per question.
	TopK int

	// HistoryWindow is the number of previous messages quoted in the prompt.
	HistoryWindow int
}

// StorageBackend identifies a blob store implementation.
type StorageBackend string

// Available storage backends.
const (
	StorageSQLite StorageBackend = "sqlite"
	StorageMemory StorageBackend = "memory"
	StorageRedis  StorageBackend = "redis"
)

// IsValid returns true if the backend is recognised.
func (b StorageBackend) IsValid() bool {
	return b == StorageSQLite || b == StorageMemory || b == StorageRedis
}

// RedisSettings holds Redis connection configuration.
type RedisSettings struct {
	Addr     string
	Password string
	DB       int
	PoolSize int
}

// StorageSettings holds blob store configuration.
type StorageSettings struct {
	Backend StorageBackend

	// Path is the SQLite data directory. Empty uses ~/.clausewise/data.
	Path string

	Redis RedisSettings
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Owner is the default owner for blobs when none is given.
	Owner string

	Embedding EmbeddingSettings
	LLM       LLMSettings
	Chunker   ChunkerSettings
	Retrieval RetrievalSettings
	Storage   StorageSettings
}

// Pipeline defaults.
const (
	DefaultOwner             = "local"
	DefaultChunkSize         = 1200
	DefaultChunkOverlap      = 200
	DefaultEmbedBatchSize    = 32
	DefaultEmbedMaxRetries   = 3
	DefaultEmbedConcurrency  = 1
	DefaultProviderTimeout   = 30 * time.Second
	DefaultGenerationTimeout = 120 * time.Second
	DefaultTopK              = 3
	DefaultHistoryWindow     = 4
	DefaultHistoryLimit      = 20
	DefaultSummaryChunks     = 5
	DefaultClassifierPrefix  = 3000
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users set them via the settings commands.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Owner: DefaultOwner,
		Embedding: EmbeddingSettings{
			BatchSize:   DefaultEmbedBatchSize,
			MaxRetries:  DefaultEmbedMaxRetries,
			Concurrency: DefaultEmbedConcurrency,
			Timeout:     DefaultProviderTimeout,
		},
		LLM: LLMSettings{
			Timeout: DefaultGenerationTimeout,
		},
		Chunker: ChunkerSettings{
			ChunkSize: DefaultChunkSize,
			Overlap:   DefaultChunkOverlap,
		},
		Retrieval: RetrievalSettings{
			TopK:          DefaultTopK,
			HistoryWindow: DefaultHistoryWindow,
		},
		Storage: StorageSettings{
			Backend: StorageSQLite,
			Redis: RedisSettings{
				Addr:     "localhost:6379",
				PoolSize: 10,
			},
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderGemini,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
		AIProviderGemini: "text-embedding-004",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderGemini:    "gemini-2.5-flash",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
		// Gemini models
		"text-embedding-004": 768,
		"gemini-embedding-001": 3072,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config for extensibility - new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	// Key is processor name, value is processor-specific config.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig returns the default pipeline configuration.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
				"overlap":    DefaultChunkOverlap,
			},
		},
	}
}
