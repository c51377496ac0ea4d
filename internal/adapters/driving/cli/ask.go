package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var askSessionID string

var askCmd = &cobra.Command{
	Use:   "ask [document-id] [question...]",
	Short: "Ask a question about an ingested agreement",
	Long: `Answer a question using the agreement's most relevant clauses.

The question and answer are recorded in the document's chat session.
Asking "summary" returns a detailed summary instead.

Without a question, starts an interactive session; type "exit" to quit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askSessionID, "session", "s", "", "Continue a specific chat session")
	addJSONFlag(askCmd)
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if chatService == nil {
		return notConfigured("chat")
	}

	documentID := args[0]
	if len(args) > 1 {
		return askOnce(cmd, documentID, strings.Join(args[1:], " "))
	}
	return askInteractive(cmd, documentID)
}

func askOnce(cmd *cobra.Command, documentID, query string) error {
	result, err := chatService.Ask(cmd.Context(), domain.AskRequest{
		Owner:      currentOwner(),
		DocumentID: documentID,
		SessionID:  askSessionID,
		Query:      query,
	})
	if err != nil {
		return err
	}

	// Later questions in the same invocation continue this session.
	askSessionID = result.SessionID

	if jsonOutput {
		return printJSON(cmd, result)
	}
	cmd.Println(strings.TrimSpace(result.Response))
	cmd.PrintErrf("\n[session %s \"%s\", %d messages]\n", result.SessionID, result.SessionName, result.MessageCount)
	return nil
}

func askInteractive(cmd *cobra.Command, documentID string) error {
	scanner := bufio.NewScanner(cmd.InOrStdin())
	cmd.Println(`Ask about the agreement. Type "summary" for a detailed summary, "exit" to quit.`)

	for {
		cmd.Print("> ")
		if !scanner.Scan() {
			cmd.Println()
			return scanner.Err()
		}

		query := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(query) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		if err := askOnce(cmd, documentID, query); err != nil {
			cmd.PrintErrf("Error: %v\n", err)
		}
		cmd.Println()
	}
}
