// Package cli provides the clausewise command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
	"github.com/custodia-labs/clausewise/internal/core/ports/driving"
	"github.com/custodia-labs/clausewise/internal/logger"
)

// version is set at build time via -ldflags or SetVersion.
var version = "dev"

// Services wired by the application before commands run.
var (
	ingestService   driving.IngestService
	chatService     driving.ChatService
	summaryService  driving.SummaryService
	sessionService  driving.SessionService
	documentService driving.DocumentService
	settingsService driving.SettingsService
)

// Global flags.
var (
	verbose   bool
	ownerFlag string
	configDir string
)

// Options carries the global flags into Bootstrap.
type Options struct {
	ConfigDir string
}

// Services bundles the driving ports the commands use.
// Pipeline ports may be nil when the AI providers are not configured;
// PipelineErr then explains why.
type Services struct {
	Ingest    driving.IngestService
	Chat      driving.ChatService
	Summary   driving.SummaryService
	Sessions  driving.SessionService
	Documents driving.DocumentService
	Settings  driving.SettingsService

	PipelineErr error

	// Close releases storage and provider connections.
	Close func()
}

// BootstrapFunc builds the services once global flags are parsed.
type BootstrapFunc func(ctx context.Context, opts Options) (*Services, error)

var (
	bootstrap     BootstrapFunc
	pipelineErr   error
	closeServices func()
)

var rootCmd = &cobra.Command{
	Use:   "clausewise",
	Short: "Understand legal agreements from the command line",
	Long: `clausewise ingests legal agreements (PDF, DOCX, text, Markdown),
classifies them, summarises them and answers questions grounded in the
agreement's own clauses.

Configure an embedding and an LLM provider first:
  clausewise settings embedding
  clausewise settings llm`,
	SilenceUsage:      true,
	PersistentPreRunE: persistentPreRun,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print pipeline progress to stderr")
	rootCmd.PersistentFlags().StringVar(&ownerFlag, "owner", "", "Owner whose documents and sessions are used (default from settings)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Config directory (default ~/.clausewise)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// SetBootstrap registers the function that builds services on startup.
func SetBootstrap(fn BootstrapFunc) {
	bootstrap = fn
}

// SetServices installs services directly.
func SetServices(s *Services) {
	ingestService = s.Ingest
	chatService = s.Chat
	summaryService = s.Summary
	sessionService = s.Sessions
	documentService = s.Documents
	settingsService = s.Settings
	pipelineErr = s.PipelineErr
	closeServices = s.Close
}

// Execute runs the root command.
func Execute() error {
	defer func() {
		if closeServices != nil {
			closeServices()
		}
	}()
	return rootCmd.Execute()
}

func persistentPreRun(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || settingsService != nil {
		return nil
	}

	services, err := bootstrap(cmd.Context(), Options{ConfigDir: configDir})
	if err != nil {
		return err
	}
	SetServices(services)
	if pipelineErr != nil {
		logger.Warn("Pipeline unavailable: %v", pipelineErr)
	}
	return nil
}

// notConfigured explains why a service is missing.
func notConfigured(name string) error {
	if pipelineErr != nil {
		return fmt.Errorf("%s service not configured: %w", name, pipelineErr)
	}
	return fmt.Errorf("%s service not configured", name)
}

// currentOwner resolves --owner, then the configured owner.
func currentOwner() string {
	if owner := strings.TrimSpace(ownerFlag); owner != "" {
		return owner
	}
	if settingsService != nil {
		if settings, err := settingsService.Get(); err == nil && settings.Owner != "" {
			return settings.Owner
		}
	}
	return domain.DefaultOwner
}

// exitCode maps an error to a process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrUnsupportedType):
		return 2
	case errors.Is(err, domain.ErrConfiguration):
		return 3
	default:
		return 1
	}
}

// Main runs the CLI and exits with a status derived from the error.
func Main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}
