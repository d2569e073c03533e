// Package prompt builds the natural-language instructions sent to a backend.
// One template family per content classification; all three demand the same
// six-field JSON object so the response normalizer has a single shape to
// recover regardless of which template ran.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/normanking/docsight/internal/insight"
)

// Content caps bound how much source text is embedded per template. These
// are cost controls, not correctness requirements: they decide how much of
// the input the backend can see.
const (
	RepoContentCap      = 4000
	ExtractedContentCap = 8000
	GenericContentCap   = 3000
)

// System is the instruction context shared by every template family.
const System = "You are a precise document analyst. Answer with a single JSON object and nothing else. Never invent facts that are not supported by the provided content."

const jsonShape = `{"summary": "...", "keyFeatures": ["..."], "technologies": ["..."], "useCases": ["..."], "mainSections": ["..."], "complexity": "Low|Medium|High", "recommendation": "..."}`

var repoTmpl = template.Must(template.New("repository").Parse(
	`Analyze this GitHub repository and respond with exactly one JSON object of this shape:
{{.Shape}}

Repository: {{.Name}}
Primary language: {{.Language}}
Stars: {{.Stars}}
{{if .Description}}Description: {{.Description}}
{{end}}
README (may be truncated):
{{.Content}}

Rules:
- Quote actual terms from the README; do not substitute generic language.
- Set technologies[0] to "{{.Language}}", the repository's primary language.
- complexity must be exactly one of Low, Medium, High.`))

var extractedTmpl = template.Must(template.New("extracted").Parse(
	`The following text was extracted from a document. Analyze it and respond with exactly one JSON object of this shape:
{{.Shape}}

Document text (may be truncated):
{{.Content}}

Rules:
- Report only facts explicitly present in the text: names, dates, numbers, and stated claims.
- Do not infer or invent content that the text does not support.
- complexity must be exactly one of Low, Medium, High.`))

var genericTmpl = template.Must(template.New("generic").Parse(
	`Analyze this document and respond with exactly one JSON object of this shape:
{{.Shape}}

Content (may be truncated):
{{.Content}}

complexity must be exactly one of Low, Medium, High.`))

// Builder renders the per-classification templates. The zero value uses the
// default caps; a custom Builder can narrow them for cheaper backends.
type Builder struct {
	RepoCap      int
	ExtractedCap int
	GenericCap   int
}

// NewBuilder returns a Builder with the default content caps.
func NewBuilder() *Builder {
	return &Builder{
		RepoCap:      RepoContentCap,
		ExtractedCap: ExtractedContentCap,
		GenericCap:   GenericContentCap,
	}
}

// Build renders the instruction string for the request.
func (b *Builder) Build(req *insight.Request) (string, error) {
	switch req.Classification {
	case insight.ClassRepository:
		return b.buildRepo(req)
	case insight.ClassExtractedDocument:
		return render(extractedTmpl, map[string]string{
			"Shape":   jsonShape,
			"Content": truncate(req.Content, b.capOr(b.ExtractedCap, ExtractedContentCap)),
		})
	default:
		return render(genericTmpl, map[string]string{
			"Shape":   jsonShape,
			"Content": truncate(req.Content, b.capOr(b.GenericCap, GenericContentCap)),
		})
	}
}

func (b *Builder) buildRepo(req *insight.Request) (string, error) {
	repo := req.Repo
	if repo == nil {
		repo = &insight.RepoMetadata{}
	}
	language := repo.Language
	if language == "" {
		language = "Unknown"
	}
	return render(repoTmpl, map[string]any{
		"Shape":       jsonShape,
		"Name":        repo.Name,
		"Language":    language,
		"Stars":       repo.Stars,
		"Description": strings.TrimSpace(repo.Description),
		"Content":     truncate(req.Content, b.capOr(b.RepoCap, RepoContentCap)),
	})
}

func (b *Builder) capOr(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", t.Name(), err)
	}
	return buf.String(), nil
}

// truncate bounds the content without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8Start(s[cut]) {
		cut--
	}
	return s[:cut] + "\n[truncated]"
}

func utf8Start(b byte) bool {
	return b&0xC0 != 0x80
}
