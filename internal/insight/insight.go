// Package insight defines the structured output of the analysis engine and
// the request types fed into it. An Insight is always fully populated: every
// producer in this module goes through Sanitize before handing one to a caller.
package insight

import "strings"

// Complexity is a closed rating of how involved a project or document is.
type Complexity string

const (
	ComplexityLow    Complexity = "Low"
	ComplexityMedium Complexity = "Medium"
	ComplexityHigh   Complexity = "High"
)

// ParseComplexity maps free text onto the closed enumeration. Anything
// unrecognized becomes Medium so the field never carries arbitrary text.
func ParseComplexity(s string) Complexity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ComplexityLow
	case "high":
		return ComplexityHigh
	default:
		return ComplexityMedium
	}
}

// Insight is the six-field analysis result rendered to users.
type Insight struct {
	Summary        string     `json:"summary"`
	KeyFeatures    []string   `json:"keyFeatures"`
	Technologies   []string   `json:"technologies"`
	UseCases       []string   `json:"useCases"`
	MainSections   []string   `json:"mainSections"`
	Complexity     Complexity `json:"complexity"`
	Recommendation string     `json:"recommendation"`
}

// Sanitize enforces the structural invariant: no nil slices, a valid
// complexity bucket, and non-empty summary/recommendation placeholders.
// It returns the receiver for chaining.
func (in *Insight) Sanitize() *Insight {
	if in.KeyFeatures == nil {
		in.KeyFeatures = []string{}
	}
	if in.Technologies == nil {
		in.Technologies = []string{}
	}
	if in.UseCases == nil {
		in.UseCases = []string{}
	}
	if in.MainSections == nil {
		in.MainSections = []string{}
	}
	switch in.Complexity {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
	default:
		in.Complexity = ParseComplexity(string(in.Complexity))
	}
	if strings.TrimSpace(in.Summary) == "" {
		in.Summary = "No summary could be derived from the provided content."
	}
	if strings.TrimSpace(in.Recommendation) == "" {
		in.Recommendation = "Review the source material directly for more detail."
	}
	return in
}

// RepoMetadata is repository context supplied by the fetch collaborator.
// It is read-only as far as the engine is concerned.
type RepoMetadata struct {
	Name        string `json:"name"`
	Language    string `json:"language"`
	Stars       int    `json:"stars"`
	Description string `json:"description"`
	Size        int    `json:"size"` // repository size in KB, as reported by the API
}

// DocumentInfo describes an uploaded or local document. Extracted reports
// whether the content is real extracted text or a best-effort description
// inferred from the filename and size alone.
type DocumentInfo struct {
	FileName  string `json:"fileName"`
	FileSize  int64  `json:"fileSize"`
	PageCount int    `json:"pageCount,omitempty"`
	Extracted bool   `json:"extracted"`
}

// Request carries everything the engine needs for one analysis.
type Request struct {
	Content        string
	Classification Classification
	Repo           *RepoMetadata
	Document       *DocumentInfo
}
