// Package extract turns local document files into analyzable text. Plain
// text formats are read directly and marked as real extracted content;
// binary formats (PDF and friends) are treated as opaque and produce an
// inferred description from the filename and size, which the engine's
// heuristics and prompts handle on a weaker footing.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/normanking/docsight/internal/insight"
)

// textExtensions are formats read verbatim.
var textExtensions = map[string]bool{
	".md":       true,
	".markdown": true,
	".txt":      true,
	".rst":      true,
	".adoc":     true,
}

// MaxFileSize bounds how much of a document is read (4MB).
const MaxFileSize = 4 << 20

// Extract reads the file and returns its content plus document info. The
// returned DocumentInfo.Extracted flag reports whether Content is real text
// or an inferred placeholder.
func Extract(path string) (content string, info *insight.DocumentInfo, err error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("stat document: %w", err)
	}
	if st.IsDir() {
		return "", nil, fmt.Errorf("%s is a directory, not a document", path)
	}

	info = &insight.DocumentInfo{
		FileName: filepath.Base(path),
		FileSize: st.Size(),
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !textExtensions[ext] {
		info.Extracted = false
		return inferredContent(info, ext), info, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", nil, fmt.Errorf("read document: %w", err)
	}
	if len(data) > MaxFileSize {
		data = data[:MaxFileSize]
	}
	if !utf8.Valid(data) {
		// Extension lied; treat as binary.
		info.Extracted = false
		return inferredContent(info, ext), info, nil
	}

	info.Extracted = true
	return insight.ExtractionMarker + "\n\n" + string(data), info, nil
}

// inferredContent builds a best-effort description when no text could be
// extracted. The absence of the extraction marker routes the engine onto
// the generic-document path.
func inferredContent(info *insight.DocumentInfo, ext string) string {
	kind := "binary document"
	if ext == ".pdf" {
		kind = "PDF document"
	}
	return fmt.Sprintf(
		"Document %q is a %s of %d bytes. Its text could not be extracted; this description is inferred from the file name and size alone.",
		info.FileName, kind, info.FileSize,
	)
}
