package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path...]",
	Short: "Ingest one or more agreements",
	Long: `Extract the text of each agreement, index it for questions, classify it
and print a short summary.

Supported formats: .pdf (needs pdftotext), .docx, .txt, .md.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	addJSONFlag(ingestCmd)
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest")
	}

	owner := currentOwner()
	results := make([]*domain.IngestResult, 0, len(args))
	var errs []error

	for _, path := range args {
		result, err := ingestService.Ingest(cmd.Context(), path, owner)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			continue
		}
		results = append(results, result)

		if jsonOutput {
			continue
		}
		cmd.Printf("Ingested %s\n", result.Title)
		cmd.Printf("ID:      %s\n", result.DocumentID)
		cmd.Printf("Chunks:  %d\n", result.ChunkCount)
		printSummary(cmd, result.Summary)
		cmd.Println()
	}

	if jsonOutput {
		if err := printJSON(cmd, results); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
