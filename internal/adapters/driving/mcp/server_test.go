package mcp

import (
	"context"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestNewServer(t *testing.T) {
	t.Run("missing ports return error", func(t *testing.T) {
		server, err := NewServer(&Ports{})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingIngestService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(newTestPorts())
		require.NoError(t, err)
		assert.NotNil(t, server)
		assert.NotNil(t, server.Handler())
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"empty", &Ports{}, ErrMissingIngestService},
		{"no chat", &Ports{Ingest: &mockIngestService{}}, ErrMissingChatService},
		{"no summary", &Ports{Ingest: &mockIngestService{}, Chat: &mockChatService{}}, ErrMissingSummaryService},
		{"pipeline only", newTestPorts(), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestPorts_Owner(t *testing.T) {
	assert.Equal(t, "bob", (&Ports{Owner: "alice"}).owner("bob"))
	assert.Equal(t, "alice", (&Ports{Owner: "alice"}).owner(""))
	assert.Equal(t, domain.DefaultOwner, (&Ports{}).owner(""))
}

// connect starts server on an in-memory transport and returns a client session.
func connect(t *testing.T, server *Server) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestServer_ListsToolsAndResources(t *testing.T) {
	server, err := NewServer(newTestPorts())
	require.NoError(t, err)
	session := connect(t, server)
	ctx := context.Background()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"ingest_document", "ask_document", "detailed_summary"}, names)

	resources, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	uris := make([]string, 0, len(resources.Resources))
	for _, r := range resources.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{"clausewise://sessions", "clausewise://documents"}, uris)
}

func TestServer_CallAskOverTransport(t *testing.T) {
	ports := newTestPorts()
	chat := &mockChatService{result: &domain.AskResult{
		SessionID: "s-1", SessionName: "Lease questions", Response: "Rent is due monthly.",
		MessageCount: 2, Route: domain.RouteRetrieval,
	}}
	ports.Chat = chat

	server, err := NewServer(ports)
	require.NoError(t, err)
	session := connect(t, server)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_document",
		Arguments: map[string]any{"document_id": "doc-1", "query": "When is rent due?"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	assert.Contains(t, text.Text, "Rent is due monthly.")
	assert.Equal(t, "doc-1", chat.req.DocumentID)
	assert.Equal(t, "alice", chat.req.Owner)
}

func TestServer_ToolErrorIsReported(t *testing.T) {
	ports := newTestPorts()
	ports.Chat = &mockChatService{err: domain.ErrDocumentNotFound}

	server, err := NewServer(ports)
	require.NoError(t, err)
	session := connect(t, server)

	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{
		Name:      "ask_document",
		Arguments: map[string]any{"document_id": "missing", "query": "anything"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
