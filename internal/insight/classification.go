package insight

import "strings"

// Classification identifies what kind of source text is being analyzed. Both
// the prompt builder and the heuristic analyzer branch on it, so deriving it
// in one place keeps the two paths consistent by construction.
type Classification string

const (
	// ClassRepository is a GitHub repository README plus metadata.
	ClassRepository Classification = "github-repository"

	// ClassExtractedDocument is a document whose text was genuinely
	// extracted rather than inferred from the filename.
	ClassExtractedDocument Classification = "document-with-extracted-text"

	// ClassGenericDocument is everything else.
	ClassGenericDocument Classification = "document-generic"
)

// ExtractionMarker is prepended by the extract collaborator when it produced
// real text from a document. Its presence switches the engine onto the
// extracted-document templates and heuristics.
const ExtractionMarker = "[EXTRACTED DOCUMENT CONTENT]"

// Classify derives the classification from the available signals: repository
// metadata wins, then the extraction marker, then the generic bucket.
func Classify(content string, repo *RepoMetadata) Classification {
	if repo != nil {
		return ClassRepository
	}
	if strings.Contains(content, ExtractionMarker) {
		return ClassExtractedDocument
	}
	return ClassGenericDocument
}
