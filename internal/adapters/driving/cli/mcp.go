package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/clausewise/internal/adapters/driving/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "MCP server commands",
	Long:  `Commands for the Model Context Protocol (MCP) server integration.`,
}

var mcpServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the Model Context Protocol server so AI assistants can ingest
agreements, ask questions and read detailed summaries.

Tools: ingest_document, ask_document, detailed_summary
Resources: clausewise://sessions, clausewise://documents

The server speaks JSON-RPC over stdio by default. Use --port to serve
streamable HTTP instead, for example with the MCP Inspector.

Examples:
  clausewise mcp serve
  clausewise mcp serve --port 8080
  clausewise --owner alice mcp serve`,
	RunE: runMCPServe,
}

func init() {
	mcpServeCmd.Flags().IntP("port", "p", 0, "HTTP port (0 = use stdio)")
	mcpCmd.AddCommand(mcpServeCmd)
	rootCmd.AddCommand(mcpCmd)
}

func runMCPServe(cmd *cobra.Command, _ []string) error {
	port, err := cmd.Flags().GetInt("port")
	if err != nil {
		return fmt.Errorf("getting port flag: %w", err)
	}
	if ingestService == nil || chatService == nil || summaryService == nil {
		return notConfigured("pipeline")
	}

	ports := &mcp.Ports{
		Ingest:    ingestService,
		Chat:      chatService,
		Summary:   summaryService,
		Sessions:  sessionService,
		Documents: documentService,
		Owner:     currentOwner(),
	}

	server, err := mcp.NewServer(ports)
	if err != nil {
		return err
	}

	if port > 0 {
		addr := fmt.Sprintf(":%d", port)
		fmt.Fprintf(cmd.ErrOrStderr(), "MCP server listening on http://localhost%s\n", addr)
		return server.RunHTTP(cmd.Context(), addr)
	}

	return server.Run(cmd.Context())
}
