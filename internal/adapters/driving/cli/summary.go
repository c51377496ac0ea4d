package cli

import (
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show or generate agreement summaries",
}

var summaryShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show the summary stored at ingestion",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummaryShow,
}

var summaryDetailedCmd = &cobra.Command{
	Use:   "detailed [document-id]",
	Short: "Generate a detailed summary",
	Long: `Generate a detailed summary organised by the sections that matter for the
agreement's type. The summary is also recorded in the document's chat session.`,
	Args: cobra.ExactArgs(1),
	RunE: runSummaryDetailed,
}

func init() {
	addJSONFlag(summaryShowCmd)
	addJSONFlag(summaryDetailedCmd)
	summaryCmd.AddCommand(summaryShowCmd)
	summaryCmd.AddCommand(summaryDetailedCmd)
	rootCmd.AddCommand(summaryCmd)
}

func runSummaryShow(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return notConfigured("summary")
	}

	summary, err := summaryService.ShortSummary(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, summary)
	}
	printSummary(cmd, summary)
	return nil
}

func runSummaryDetailed(cmd *cobra.Command, args []string) error {
	if summaryService == nil {
		return notConfigured("summary")
	}

	cmd.PrintErrln("Generating detailed summary...")
	summary, err := summaryService.DetailedSummary(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, summary)
	}
	printSummary(cmd, summary)
	return nil
}
