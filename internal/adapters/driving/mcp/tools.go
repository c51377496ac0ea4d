package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

// IngestInput is the input schema for the ingest_document tool.
type IngestInput struct {
	Path  string `json:"path" jsonschema:"local path of the agreement (pdf, docx, txt or md)"`
	Owner string `json:"owner,omitempty" jsonschema:"owner the document is stored under"`
}

// IngestOutput is the output schema for the ingest_document tool.
type IngestOutput struct {
	DocumentID     string `json:"document_id"`
	Title          string `json:"title"`
	ChunkCount     int    `json:"chunk_count"`
	AgreementType  string `json:"agreement_type"`
	AgreementLabel string `json:"agreement_label"`
	Summary        string `json:"initial_summary"`
}

// AskInput is the input schema for the ask_document tool.
type AskInput struct {
	DocumentID string `json:"document_id" jsonschema:"id returned by ingest_document"`
	Query      string `json:"query" jsonschema:"question about the agreement; send 'summary' for a detailed summary"`
	SessionID  string `json:"session_id,omitempty" jsonschema:"existing chat session to continue"`
	Owner      string `json:"owner,omitempty" jsonschema:"owner the document is stored under"`
}

// AskOutput is the output schema for the ask_document tool.
type AskOutput struct {
	SessionID    string `json:"session_id"`
	SessionName  string `json:"session_name"`
	Response     string `json:"response"`
	MessageCount int    `json:"message_count"`
	Route        string `json:"route"`
}

// SummaryInput is the input schema for the detailed_summary tool.
type SummaryInput struct {
	DocumentID string `json:"document_id" jsonschema:"id returned by ingest_document"`
	Owner      string `json:"owner,omitempty" jsonschema:"owner the document is stored under"`
}

// SummaryOutput is the output schema for the detailed_summary tool.
type SummaryOutput struct {
	DocumentID     string `json:"document_id"`
	AgreementType  string `json:"agreement_type"`
	AgreementLabel string `json:"agreement_label"`
	Summary        string `json:"detailed_summary"`
	WordCount      int    `json:"word_count"`
	Failed         bool   `json:"failed,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a legal agreement: extract text, index it, classify it and return a short summary",
	}, s.handleIngest)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_document",
		Description: "Ask a question about an ingested agreement; answers are grounded in the most relevant clauses",
	}, s.handleAsk)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "detailed_summary",
		Description: "Generate a detailed, type-specific summary of an ingested agreement",
	}, s.handleDetailedSummary)
}

// handleIngest handles the ingest_document tool invocation.
func (s *Server) handleIngest(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input IngestInput,
) (*mcp.CallToolResult, IngestOutput, error) {
	result, err := s.ports.Ingest.Ingest(ctx, input.Path, s.ports.owner(input.Owner))
	if err != nil {
		return nil, IngestOutput{}, err
	}

	output := IngestOutput{
		DocumentID: result.DocumentID,
		Title:      result.Title,
		ChunkCount: result.ChunkCount,
	}
	if result.Summary != nil {
		output.AgreementType = string(result.Summary.AgreementType)
		output.AgreementLabel = result.Summary.AgreementLabel
		output.Summary = result.Summary.Text
	}
	return nil, output, nil
}

// handleAsk handles the ask_document tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	result, err := s.ports.Chat.Ask(ctx, domain.AskRequest{
		Owner:      s.ports.owner(input.Owner),
		DocumentID: input.DocumentID,
		SessionID:  input.SessionID,
		Query:      input.Query,
	})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{
		SessionID:    result.SessionID,
		SessionName:  result.SessionName,
		Response:     result.Response,
		MessageCount: result.MessageCount,
		Route:        string(result.Route),
	}, nil
}

// handleDetailedSummary handles the detailed_summary tool invocation.
// A failed generation is reported in the output, not as a tool error.
func (s *Server) handleDetailedSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SummaryInput,
) (*mcp.CallToolResult, SummaryOutput, error) {
	summary, err := s.ports.Summary.DetailedSummary(ctx, s.ports.owner(input.Owner), input.DocumentID)
	if err != nil {
		return nil, SummaryOutput{}, err
	}

	return nil, SummaryOutput{
		DocumentID:     input.DocumentID,
		AgreementType:  string(summary.AgreementType),
		AgreementLabel: summary.AgreementLabel,
		Summary:        summary.Text,
		WordCount:      summary.WordCount,
		Failed:         summary.Failed,
	}, nil
}
