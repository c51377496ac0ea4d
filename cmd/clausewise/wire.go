package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/custodia-labs/clausewise/internal/adapters/driven/ai"
	"github.com/custodia-labs/clausewise/internal/adapters/driven/config/file"
	"github.com/custodia-labs/clausewise/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/clausewise/internal/adapters/driven/storage/redis"
	"github.com/custodia-labs/clausewise/internal/adapters/driven/storage/sqlite"
	textfile "github.com/custodia-labs/clausewise/internal/adapters/driven/textsource/file"
	"github.com/custodia-labs/clausewise/internal/adapters/driving/cli"
	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driven"
	"github.com/custodia-labs/clausewise/internal/core/services"
	"github.com/custodia-labs/clausewise/internal/logger"
	"github.com/custodia-labs/clausewise/internal/postprocessors"
)

// bootstrap wires adapters into services. Storage and settings are always
// available; the pipeline services need both AI providers, and when they
// cannot start the failure is returned in PipelineErr so that settings
// commands keep working.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, error) {
	configStore, err := file.NewConfigStore(opts.ConfigDir)
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	blobs, err := openBlobStore(ctx, opts.ConfigDir, settings.Storage)
	if err != nil {
		return nil, err
	}
	logger.Debug("Storage backend: %s", settings.Storage.Backend)

	out := &cli.Services{
		Sessions:  services.NewSessionStore(blobs),
		Documents: services.NewDocumentService(blobs),
		Settings:  settingsService,
		Close:     func() { _ = blobs.Close() },
	}

	if err := wirePipeline(ctx, opts, settingsService, blobs, out); err != nil {
		out.PipelineErr = err
	}
	return out, nil
}

func wirePipeline(
	ctx context.Context,
	opts cli.Options,
	settingsService *services.SettingsService,
	blobs driven.BlobStore,
	out *cli.Services,
) error {
	settings, err := settingsService.Get()
	if err != nil {
		return err
	}

	pipeline, err := postprocessors.NewPipelineFromConfig(settingsService.GetPipelineConfig())
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	promptDir := ""
	if opts.ConfigDir != "" {
		promptDir = filepath.Join(opts.ConfigDir, "prompts")
	}
	prompts, err := file.NewPromptStore(promptDir)
	if err != nil {
		return fmt.Errorf("prompts: %w", err)
	}

	providers, err := ai.Init(ctx, settings)
	if err != nil {
		return err
	}

	timeout := settings.LLM.Timeout
	embedder := services.NewEmbedder(providers.EmbeddingService, settings.Embedding)
	classifier := services.NewClassifier(providers.LLMService, prompts, timeout)
	summarizer := services.NewSummarizer(providers.LLMService, prompts, classifier, timeout)
	answerer := services.NewAnswerer(embedder, providers.LLMService, prompts, summarizer, settings.Retrieval, timeout)
	namer := services.NewChatNamer(providers.LLMService, prompts, timeout)

	sessions := services.NewSessionStore(blobs)
	chat := services.NewChatService(blobs, sessions, answerer, summarizer, namer, settings.Retrieval)

	out.Ingest = services.NewIngestService(textfile.NewDefault(), pipeline, embedder, summarizer, blobs)
	out.Chat = chat
	out.Summary = chat
	out.Sessions = sessions

	closeBlobs := out.Close
	out.Close = func() {
		providers.Close()
		closeBlobs()
	}
	return nil
}

// openBlobStore opens the configured storage backend.
func openBlobStore(ctx context.Context, configDir string, cfg domain.StorageSettings) (driven.BlobStore, error) {
	switch cfg.Backend {
	case domain.StorageMemory:
		return memory.NewBlobStore(), nil
	case domain.StorageRedis:
		store, err := redis.NewStore(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return nil, fmt.Errorf("opening redis storage: %w", err)
		}
		return store, nil
	case domain.StorageSQLite, "":
		dir := cfg.Path
		if dir == "" && configDir != "" {
			dir = filepath.Join(configDir, "data")
		}
		store, err := sqlite.NewStore(dir)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite storage: %w", err)
		}
		return store, nil
	default:
		return nil, fmt.Errorf("storage backend %q: %w", cfg.Backend, domain.ErrConfiguration)
	}
}
