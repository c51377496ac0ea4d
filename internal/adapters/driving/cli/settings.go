package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, chunking, storage and other options.

Settings are stored in ~/.clausewise/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used to index agreements and questions.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for classification, summaries and answers.`,
	RunE:  runSettingsLLM,
}

var settingsChunkingCmd = &cobra.Command{
	Use:   "chunking [chunk-size] [overlap]",
	Short: "Set chunk size and overlap in characters",
	Long: `Set the chunk size and overlap used when splitting agreements.
Overlap must be smaller than the chunk size. Re-ingest documents to apply.`,
	Args: cobra.ExactArgs(2),
	RunE: runSettingsChunking,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:       "set-key [embedding|llm]",
	Short:     "Set the API key for a provider without echoing it",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"embedding", "llm"},
	RunE:      runSettingsSetKey,
}

var settingsStorageCmd = &cobra.Command{
	Use:       "storage [sqlite|memory|redis]",
	Short:     "Select the storage backend",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"sqlite", "memory", "redis"},
	RunE:      runSettingsStorage,
}

var settingsOwnerCmd = &cobra.Command{
	Use:   "owner [name]",
	Short: "Set the default owner",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingsOwner,
}

var (
	redisAddrFlag   string
	storagePathFlag string
)

// stdin is swapped in tests.
var stdin io.Reader = os.Stdin

func init() {
	settingsStorageCmd.Flags().StringVar(&redisAddrFlag, "addr", "", "Redis address (host:port)")
	settingsStorageCmd.Flags().StringVar(&storagePathFlag, "path", "", "SQLite database directory")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsChunkingCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsStorageCmd)
	settingsCmd.AddCommand(settingsOwnerCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Printf("Owner: %s\n\n", settings.Owner)

	cmd.Println("[Embedding]")
	printProvider(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Printf("  Batch size: %d, retries: %d, concurrency: %d\n",
		settings.Embedding.BatchSize, settings.Embedding.MaxRetries, settings.Embedding.Concurrency)
	cmd.Println()

	cmd.Println("[LLM]")
	printProvider(cmd, settings.LLM.Provider, settings.LLM.Model,
		settings.LLM.BaseURL, settings.LLM.APIKey, settings.LLM.IsConfigured())
	cmd.Println()

	cmd.Println("[Chunking]")
	cmd.Printf("  Chunk size: %d\n", settings.Chunker.ChunkSize)
	cmd.Printf("  Overlap: %d\n", settings.Chunker.Overlap)
	cmd.Println()

	cmd.Println("[Retrieval]")
	cmd.Printf("  Top K: %d\n", settings.Retrieval.TopK)
	cmd.Printf("  History window: %d\n", settings.Retrieval.HistoryWindow)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Backend: %s\n", settings.Storage.Backend)
	switch settings.Storage.Backend {
	case domain.StorageSQLite:
		if settings.Storage.Path != "" {
			cmd.Printf("  Path: %s\n", settings.Storage.Path)
		}
	case domain.StorageRedis:
		cmd.Printf("  Address: %s (db %d)\n", settings.Storage.Redis.Addr, settings.Storage.Redis.DB)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'clausewise settings embedding' and 'clausewise settings llm' to fix.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if provider.IsLocal() {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(stdin), embeddingTarget)
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(stdin), llmTarget)
}

// providerTarget describes one of the two configurable providers.
type providerTarget struct {
	name      string
	providers func() []domain.AIProvider
	defaults  func() map[domain.AIProvider]string
	set       func(provider domain.AIProvider, model, apiKey string) error
	validate  func() error
}

var (
	embeddingTarget = providerTarget{
		name:      "embedding",
		providers: domain.AllEmbeddingProviders,
		defaults:  domain.DefaultEmbeddingModels,
		set: func(p domain.AIProvider, model, key string) error {
			return settingsService.SetEmbeddingProvider(p, model, key)
		},
		validate: func() error { return settingsService.ValidateEmbeddingConfig() },
	}
	llmTarget = providerTarget{
		name:      "LLM",
		providers: domain.AllLLMProviders,
		defaults:  domain.DefaultLLMModels,
		set: func(p domain.AIProvider, model, key string) error {
			return settingsService.SetLLMProvider(p, model, key)
		},
		validate: func() error { return settingsService.ValidateLLMConfig() },
	}
)

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, target providerTarget) error {
	cmd.Printf("Select %s Provider\n", target.name)
	providers := target.providers()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	defaultModel := target.defaults()[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key (leave empty to use the environment): ")
		apiKey = readPassword(reader)
		cmd.Println()
	}

	if err := target.set(selected, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", target.name, err)
	}

	cmd.Print("Validating configuration... ")
	if err := target.validate(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("%s configuration validation failed: %w", target.name, err)
	}
	cmd.Println("OK")

	cmd.Printf("%s provider configured: %s (%s)\n", target.name, selected.Description(), model)
	return nil
}

func runSettingsChunking(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	size, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("chunk size must be a number: %w", domain.ErrInvalidInput)
	}
	overlap, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("overlap must be a number: %w", domain.ErrInvalidInput)
	}

	if err := settingsService.SetChunking(size, overlap); err != nil {
		return fmt.Errorf("failed to set chunking: %w", err)
	}

	cmd.Printf("Chunking set to %d characters with %d overlap.\n", size, overlap)
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Print("Enter API key: ")
	apiKey := readPassword(bufio.NewReader(stdin))
	cmd.Println()
	if apiKey == "" {
		return fmt.Errorf("API key is empty: %w", domain.ErrInvalidInput)
	}

	switch args[0] {
	case "embedding":
		err = settingsService.SetEmbeddingProvider(settings.Embedding.Provider, settings.Embedding.Model, apiKey)
	case "llm":
		err = settingsService.SetLLMProvider(settings.LLM.Provider, settings.LLM.Model, apiKey)
	default:
		return fmt.Errorf("unknown target %q, use embedding or llm: %w", args[0], domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to save API key: %w", err)
	}

	cmd.Printf("API key saved for %s (%s).\n", args[0], maskAPIKey(apiKey))
	return nil
}

func runSettingsStorage(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	backend := domain.StorageBackend(args[0])
	if !backend.IsValid() {
		return fmt.Errorf("unknown storage backend %q: %w", args[0], domain.ErrInvalidInput)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Storage.Backend = backend
	if storagePathFlag != "" {
		settings.Storage.Path = storagePathFlag
	}
	if redisAddrFlag != "" {
		settings.Storage.Redis.Addr = redisAddrFlag
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Storage backend set to %s.\n", backend)
	if backend == domain.StorageMemory {
		cmd.Println("Note: the memory backend forgets everything when the process exits.")
	}
	return nil
}

func runSettingsOwner(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	owner := strings.TrimSpace(args[0])
	if owner == "" {
		return fmt.Errorf("owner is empty: %w", domain.ErrInvalidInput)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Owner = owner
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Default owner set to %s.\n", owner)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo from a terminal, else one line from reader.
func readPassword(reader *bufio.Reader) string {
	if f, ok := stdin.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
