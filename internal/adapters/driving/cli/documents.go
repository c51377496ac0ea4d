package cli

import (
	"sort"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"document", "docs"},
	Short:   "Manage ingested agreements",
	RunE:    runDocumentsList,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested agreements, newest first",
	RunE:  runDocumentsList,
}

var documentsShowCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Show agreement details",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsShow,
}

var documentsChunksCmd = &cobra.Command{
	Use:   "chunks [document-id]",
	Short: "Print the indexed chunks of an agreement",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsChunks,
}

var documentsDeleteCmd = &cobra.Command{
	Use:   "delete [document-id]",
	Short: "Delete an agreement with its index and summaries",
	Long:  `Delete an agreement with its index, chunks and summaries. Chat sessions are kept.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentsDelete,
}

var showContent bool

func init() {
	addJSONFlag(documentsListCmd)
	addJSONFlag(documentsShowCmd)
	documentsShowCmd.Flags().BoolVar(&showContent, "content", false, "Include the indexed text")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsShowCmd)
	documentsCmd.AddCommand(documentsChunksCmd)
	documentsCmd.AddCommand(documentsDeleteCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	docs, err := documentService.List(cmd.Context(), currentOwner())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd, docs)
	}
	if len(docs) == 0 {
		cmd.Println("No documents ingested yet. Add one with 'clausewise ingest <path>'.")
		return nil
	}

	for i := range docs {
		cmd.Printf("%s  %s\n", docs[i].ID, docs[i].Title)
		cmd.Printf("    Type: %s, chunks: %d, ingested %s\n",
			docs[i].AgreementType, docs[i].ChunkCount, docs[i].CreatedAt.Local().Format(timeLayout))
	}
	cmd.Printf("\nTotal: %d documents\n", len(docs))
	return nil
}

func runDocumentsShow(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	doc, err := documentService.Get(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}

	var content string
	if showContent {
		if content, err = documentService.Content(cmd.Context(), currentOwner(), doc.ID); err != nil {
			return err
		}
	}

	if jsonOutput {
		if showContent {
			return printJSON(cmd, struct {
				*domain.Document
				Content string `json:"content"`
			}{doc, content})
		}
		return printJSON(cmd, doc)
	}

	cmd.Printf("Document: %s\n\n", doc.ID)
	cmd.Printf("  Title:      %s\n", doc.Title)
	cmd.Printf("  URI:        %s\n", doc.URI)
	cmd.Printf("  Type:       %s\n", doc.AgreementType)
	cmd.Printf("  Chunks:     %d\n", doc.ChunkCount)
	cmd.Printf("  Embeddings: %s (%d dimensions)\n", doc.EmbeddingModel, doc.Dimensions)
	cmd.Printf("  Created:    %s\n", doc.CreatedAt.Local().Format(timeLayout))
	cmd.Printf("  Updated:    %s\n", doc.UpdatedAt.Local().Format(timeLayout))

	if len(doc.Metadata) > 0 {
		keys := make([]string, 0, len(doc.Metadata))
		for k := range doc.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		cmd.Println("\n  Metadata:")
		for _, k := range keys {
			cmd.Printf("    %s: %v\n", k, doc.Metadata[k])
		}
	}

	if showContent {
		cmd.Printf("\n  Content:\n\n%s\n", content)
	}
	return nil
}

func runDocumentsChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	chunks, err := documentService.Chunks(cmd.Context(), currentOwner(), args[0])
	if err != nil {
		return err
	}

	for i := range chunks {
		cmd.Printf("--- chunk %d ---\n%s\n\n", chunks[i].Position, chunks[i].Content)
	}
	return nil
}

func runDocumentsDelete(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return notConfigured("document")
	}

	if err := documentService.Delete(cmd.Context(), currentOwner(), args[0]); err != nil {
		return err
	}

	cmd.Printf("Document %s deleted.\n", args[0])
	return nil
}
