package extract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/docsight/internal/insight"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestExtractMarkdown(t *testing.T) {
	path := writeFile(t, "README.md", []byte("# Title\n\nBody text."))

	content, info, err := Extract(path)
	require.NoError(t, err)

	assert.True(t, info.Extracted)
	assert.Equal(t, "README.md", info.FileName)
	assert.True(t, strings.HasPrefix(content, insight.ExtractionMarker))
	assert.Contains(t, content, "# Title")
	assert.Equal(t, insight.ClassExtractedDocument, insight.Classify(content, nil))
}

func TestExtractBinaryExtension(t *testing.T) {
	path := writeFile(t, "paper.pdf", []byte("%PDF-1.4 binary bytes"))

	content, info, err := Extract(path)
	require.NoError(t, err)

	assert.False(t, info.Extracted)
	assert.NotContains(t, content, insight.ExtractionMarker)
	assert.Contains(t, content, "paper.pdf")
	assert.Contains(t, content, "PDF document")
	assert.Equal(t, insight.ClassGenericDocument, insight.Classify(content, nil))
}

// TestExtractInvalidUTF8 covers a text extension holding non-text bytes:
// the file is treated as binary rather than poisoning downstream prompts.
func TestExtractInvalidUTF8(t *testing.T) {
	path := writeFile(t, "notes.txt", []byte{0xff, 0xfe, 0x00, 0x01})

	content, info, err := Extract(path)
	require.NoError(t, err)

	assert.False(t, info.Extracted)
	assert.NotContains(t, content, insight.ExtractionMarker)
}

func TestExtractMissingFile(t *testing.T) {
	_, _, err := Extract(filepath.Join(t.TempDir(), "absent.md"))
	assert.Error(t, err)
}

func TestExtractDirectory(t *testing.T) {
	_, _, err := Extract(t.TempDir())
	assert.Error(t, err)
}
