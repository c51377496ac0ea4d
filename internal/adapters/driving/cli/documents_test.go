package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/clausewise/internal/core/domain"
)

func TestDocumentsCmd_Aliases(t *testing.T) {
	assert.Contains(t, documentsCmd.Aliases, "docs")
	assert.Contains(t, documentsCmd.Aliases, "document")
}

func TestDocumentsListCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "list")
	require.NoError(t, err)

	assert.Contains(t, out, "doc-1  Lease")
	assert.Contains(t, out, "Type: residential_lease")
	assert.Contains(t, out, "Total: 1 documents")
}

func TestDocumentsListCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "--owner", "carol", "docs")
	require.NoError(t, err)
	assert.Contains(t, out, "No documents ingested yet")
}

func TestDocumentsShowCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "show", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "URI:        /agreements/lease.pdf")
	assert.Contains(t, out, "test-embed (3 dimensions)")
	assert.Contains(t, out, "format: pdf")
	assert.Less(t, strings.Index(out, "format:"), strings.Index(out, "pages:"), "metadata keys are sorted")
}

func TestDocumentsShowCmd_JSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "show", "--json", "doc-1")
	require.NoError(t, err)

	var doc domain.Document
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Lease", doc.Title)
	assert.Equal(t, 2, doc.ChunkCount)
}

func TestDocumentsShowCmd_Content(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "show", "--content", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "Content:\n\n1. Rent is due monthly.\n2. The deposit is held in trust.")
}

func TestDocumentsShowCmd_ContentJSON(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "show", "--json", "--content", "doc-1")
	require.NoError(t, err)

	var got struct {
		ID      string `json:"id"`
		Content string `json:"content"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "doc-1", got.ID)
	assert.Equal(t, "1. Rent is due monthly.\n2. The deposit is held in trust.", got.Content)
}

func TestDocumentsChunksCmd(t *testing.T) {
	setupTestServices(t)

	out, err := execute(t, "documents", "chunks", "doc-1")
	require.NoError(t, err)

	assert.Contains(t, out, "--- chunk 0 ---\n1. Rent is due monthly.")
	assert.Contains(t, out, "--- chunk 1 ---\n2. The deposit is held in trust.")
}

func TestDocumentsDeleteCmd(t *testing.T) {
	ts := setupTestServices(t)

	out, err := execute(t, "documents", "delete", "doc-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Document doc-1 deleted.")
	assert.Equal(t, []string{"doc-1"}, ts.documents.deleted)

	_, err = execute(t, "documents", "delete", "doc-1")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
}
