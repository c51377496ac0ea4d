package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Browse chat sessions",
	RunE:  runSessionsList,
}

var sessionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List chat sessions, most recent first",
	RunE:  runSessionsList,
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show [session-id]",
	Short: "Print a session's messages",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsShow,
}

var sessionsDocumentCmd = &cobra.Command{
	Use:   "document [document-id]",
	Short: "Print the session linked to a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDocument,
}

var sessionsRenameCmd = &cobra.Command{
	Use:   "rename [session-id] [name...]",
	Short: "Rename a chat session",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runSessionsRename,
}

func init() {
	addJSONFlag(sessionsListCmd)
	addJSONFlag(sessionsShowCmd)
	addJSONFlag(sessionsDocumentCmd)
	addJSONFlag(sessionsRenameCmd)
	sessionsCmd.AddCommand(sessionsListCmd)
	sessionsCmd.AddCommand(sessionsShowCmd)
	sessionsCmd.AddCommand(sessionsDocumentCmd)
	sessionsCmd.AddCommand(sessionsRenameCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessionsList(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return notConfigured("session")
	}

	sessions, err := sessionService.List(cmd.Context(), currentOwner())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, sessions)
	}
	if len(sessions) == 0 {
		cmd.Println("No sessions yet. Ask a question with 'clausewise ask'.")
		return nil
	}

	for i := range sessions {
		s := &sessions[i]
		cmd.Printf("%s  %s\n", s.ID, s.Name)
		if s.DocumentName != "" {
			cmd.Printf("    Document: %s (%s)\n", s.DocumentName, s.DocumentID)
		}
		cmd.Printf("    Messages: %d, updated %s\n", s.MessageCount, s.UpdatedAt.Local().Format(timeLayout))
	}
	cmd.Printf("\nTotal: %d sessions\n", len(sessions))
	return nil
}

func runSessionsShow(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return notConfigured("session")
	}

	session, err := sessionService.Get(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}
	return printSession(cmd, session)
}

func runSessionsDocument(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return notConfigured("session")
	}

	session, err := sessionService.ForDocument(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}
	return printSession(cmd, session)
}

func runSessionsRename(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return notConfigured("session")
	}

	name := strings.Join(args[1:], " ")
	session, err := sessionService.Rename(cmd.Context(), currentOwner(), args[0], name)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, session)
	}
	cmd.Printf("Renamed session %s to %q\n", session.ID, session.Name)
	return nil
}

func printSession(cmd *cobra.Command, session *domain.ChatSession) error {
	if jsonOutput {
		return printJSON(cmd, session)
	}

	cmd.Printf("Session:  %s\n", session.Name)
	cmd.Printf("ID:       %s\n", session.ID)
	if session.DocumentName != "" {
		cmd.Printf("Document: %s\n", session.DocumentName)
	}
	cmd.Printf("State:    %s\n", session.State())
	cmd.Printf("Messages: %d\n\n", session.MessageCount)

	for _, m := range session.Messages {
		cmd.Printf("[%s] %s:\n%s\n\n", m.Timestamp.Local().Format(timeLayout), m.Role.Speaker(), m.Content)
	}
	return nil
}
