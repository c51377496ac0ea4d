package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestAskCmd_JoinsQuestionWords(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "ask", "doc-1", "what", "is", "the", "deposit?")
	require.NoError(t, err)

	require.Len(t, ts.chat.requests, 1)
	req := ts.chat.requests[0]
	assert.Equal(t, "what is the deposit?", req.Query)
	assert.Equal(t, "doc-1", req.DocumentID)
	assert.Equal(t, "alice", req.Owner)
	assert.Empty(t, req.SessionID)
	assert.Contains(t, out, "The deposit is two months of rent.")
	assert.Contains(t, out, "sess-1")
}

func TestAskCmd_SessionFlag(t *testing.T) {
	ts := setupTestServices(t)

	_, err := execute(t, "ask", "--session", "sess-9", "doc-1", "hello")
	require.NoError(t, err)

	require.Len(t, ts.chat.requests, 1)
	assert.Equal(t, "sess-9", ts.chat.requests[0].SessionID)
}

func TestAskCmd_PropagatesError(t *testing.T) {
	ts := setupTestServices(t)
	ts.chat.err = domain.ErrSessionNotFound

	_, err := execute(t, "ask", "-s", "nope", "doc-1", "hello")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestAskCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "ask", "--json", "doc-1", "deposit?")
	require.NoError(t, err)

	var result domain.AskResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, "sess-1", result.SessionID)
	assert.Equal(t, domain.RouteRetrieval, result.Route)
	assert.Equal(t, 2, result.MessageCount)
}

func TestAskCmd_Interactive(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("what is the rent?\n\nsummary\nexit\nnever asked\n"))

	out, err := execute(t, "ask", "doc-1")
	require.NoError(t, err)

	require.Len(t, ts.chat.requests, 2)
	assert.Equal(t, "what is the rent?", ts.chat.requests[0].Query)
	assert.Equal(t, "summary", ts.chat.requests[1].Query)
	// The second question continues the session the first one opened.
	assert.Empty(t, ts.chat.requests[0].SessionID)
	assert.Equal(t, "sess-1", ts.chat.requests[1].SessionID)
	assert.Contains(t, out, "> ")
}

func TestAskCmd_InteractiveEOF(t *testing.T) {
	ts := setupTestServices(t)
	rootCmd.SetIn(strings.NewReader("one question\n"))

	_, err := execute(t, "ask", "doc-1")
	require.NoError(t, err)
	assert.Len(t, ts.chat.requests, 1)
}
