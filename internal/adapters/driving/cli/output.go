package cli

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

const timeLayout = "2006-01-02 15:04:05"

// jsonOutput is shared by commands that support --json.
var jsonOutput bool

func addJSONFlag(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print machine-readable JSON")
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printSummary writes a summary block.
func printSummary(cmd *cobra.Command, summary *domain.Summary) {
	if summary == nil {
		return
	}
	cmd.Printf("Type:    %s\n", summary.AgreementLabel)
	cmd.Printf("Words:   %d\n", summary.WordCount)
	if summary.Failed {
		cmd.Println("Status:  generation failed")
	}
	cmd.Println()
	cmd.Println(strings.TrimSpace(summary.Text))
}
