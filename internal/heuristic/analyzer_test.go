package heuristic

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/docsight/internal/insight"
	"github.com/normanking/docsight/internal/patterns"
)

const sampleReadme = `# Widget Service

A distributed widget pipeline written in Go with a PostgreSQL backend.

## Features

- Fast widget ingestion
- Redis-backed caching
- Kubernetes deployment manifests

## Usage

- Run widgets locally
- Deploy to production

## Installation

Install with Docker.
`

func repoRequest(stars int) *insight.Request {
	return &insight.Request{
		Content:        sampleReadme,
		Classification: insight.ClassRepository,
		Repo: &insight.RepoMetadata{
			Name:        "acme/widgets",
			Language:    "Go",
			Stars:       stars,
			Description: "A widget service",
			Size:        500,
		},
	}
}

// TestAnalyzeIsDeterministic verifies that identical input always produces
// an identical insight, field for field.
func TestAnalyzeIsDeterministic(t *testing.T) {
	a := New(patterns.Default())

	first := a.Analyze(repoRequest(1500))
	second := a.Analyze(repoRequest(1500))

	assert.Equal(t, first, second)
}

// TestPopularRepositoryRatesHigh checks the popularity signal: a repository
// above a thousand stars rates High regardless of README length, and the
// declared primary language leads the technologies list.
func TestPopularRepositoryRatesHigh(t *testing.T) {
	a := New(patterns.Default())

	out := a.Analyze(repoRequest(1500))

	assert.Equal(t, insight.ComplexityHigh, out.Complexity)
	require.NotEmpty(t, out.Technologies)
	assert.Equal(t, "Go", out.Technologies[0])
}

func TestObscureRepositoryRatesLower(t *testing.T) {
	a := New(patterns.Default())

	out := a.Analyze(repoRequest(3))

	assert.NotEqual(t, insight.ComplexityHigh, out.Complexity)
}

func TestRepositoryHarvestsListsAndSections(t *testing.T) {
	a := New(patterns.Default())

	out := a.Analyze(repoRequest(50))

	assert.Contains(t, out.KeyFeatures, "Fast widget ingestion")
	assert.Contains(t, out.UseCases, "Run widgets locally")
	assert.Contains(t, out.MainSections, "Widget Service")
	assert.Contains(t, out.MainSections, "Features")

	// Pattern matches from the README body, after the primary language.
	assert.Contains(t, out.Technologies, "PostgreSQL")
	assert.Contains(t, out.Technologies, "Redis")
	assert.Contains(t, out.Technologies, "Kubernetes")
	assert.Contains(t, out.Technologies, "Docker")
}

// TestComplexityMonotonicInWordCount verifies that more words can only hold
// or raise the complexity bucket, never lower it.
func TestComplexityMonotonicInWordCount(t *testing.T) {
	a := New(patterns.Default())

	rank := map[insight.Complexity]int{
		insight.ComplexityLow:    0,
		insight.ComplexityMedium: 1,
		insight.ComplexityHigh:   2,
	}

	// Filler words that match no recognizer, so word count is the only
	// signal that varies.
	filler := func(words int) string {
		return strings.TrimSpace(strings.Repeat("pear plum fig ", (words+2)/3))
	}

	doc := &insight.DocumentInfo{FileName: "notes.txt", FileSize: 2 << 20, PageCount: 30}

	prev := -1
	for _, words := range []int{50, 500, 1500, 2500, 5000, 20000} {
		out := a.Analyze(&insight.Request{
			Content:        filler(words),
			Classification: insight.ClassGenericDocument,
			Document:       doc,
		})
		got := rank[out.Complexity]
		assert.GreaterOrEqual(t, got, prev, "complexity dropped at %d words", words)
		prev = got
	}
}

// TestAnalyzeTotality feeds degenerate input and checks that the result is
// still a complete insight.
func TestAnalyzeTotality(t *testing.T) {
	a := New(patterns.Default())

	for _, req := range []*insight.Request{
		{Content: "", Classification: insight.ClassGenericDocument},
		{Content: "", Classification: insight.ClassRepository},
		{Content: strings.Repeat("\x00garbage ", 100), Classification: insight.ClassExtractedDocument},
		{Classification: insight.ClassRepository, Repo: &insight.RepoMetadata{}},
	} {
		out := a.Analyze(req)
		require.NotNil(t, out)
		assert.NotEmpty(t, out.Summary)
		assert.NotEmpty(t, out.Recommendation)
		assert.NotNil(t, out.KeyFeatures)
		assert.NotNil(t, out.Technologies)
		assert.NotNil(t, out.UseCases)
		assert.NotNil(t, out.MainSections)
		assert.Contains(t, []insight.Complexity{
			insight.ComplexityLow, insight.ComplexityMedium, insight.ComplexityHigh,
		}, out.Complexity)
	}
}

func TestClassifyDocumentTypes(t *testing.T) {
	a := New(patterns.Default())

	resume := `Jane Doe
Professional Experience
Work experience at Acme Corp.
Education and skills listed below.
Employment history: ten years.`

	report := `Quarterly Report
This analysis presents our findings.
Methodology: survey of 200 users.
Conclusion: growth continues.`

	tests := []struct {
		name    string
		content string
		want    patterns.DocType
	}{
		{"resume", resume, patterns.DocTypeResume},
		{"report", report, patterns.DocTypeReport},
		{"generic", "Just some plain text about nothing in particular.", patterns.DocTypeGeneric},
		{"single weak signal", "One research mention only here.", patterns.DocTypeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, a.classifyDocument(tt.content))
		})
	}
}

func TestDocumentProfilesDriveOutput(t *testing.T) {
	a := New(patterns.Default())
	lib := patterns.Default()

	out := a.Analyze(&insight.Request{
		Content: `Resume of Jane Doe
Work experience: engineer.
Professional experience across teams.
Employment history attached.`,
		Classification: insight.ClassExtractedDocument,
		Document:       &insight.DocumentInfo{FileName: "jane.pdf", Extracted: true},
	})

	assert.Equal(t, lib.Profiles[patterns.DocTypeResume].Features, out.KeyFeatures)
	assert.Contains(t, out.Summary, "resume or CV")
	assert.Contains(t, out.Summary, "jane.pdf")
}

func TestExtractTechnologiesDeduplicates(t *testing.T) {
	a := New(patterns.Default())

	techs := a.extractTechnologies("Go and golang and GO again, plus Python.", "Go")

	assert.Equal(t, "Go", techs[0])
	count := 0
	for _, tech := range techs {
		if strings.EqualFold(tech, "go") {
			count++
		}
	}
	assert.Equal(t, 1, count, "language should appear once")
	assert.Contains(t, techs, "Python")
}

func TestHarvestListCapsAtEight(t *testing.T) {
	a := New(patterns.Default())

	var b strings.Builder
	b.WriteString("## Features\n")
	for i := 0; i < 12; i++ {
		b.WriteString("- item\n")
	}

	items := a.harvestList(b.String(), []string{"features"})
	assert.Len(t, items, 8)
}

func TestHarvestListStopsAtNextHeader(t *testing.T) {
	a := New(patterns.Default())

	content := `## Features
- real feature

## Other
- not a feature`

	items := a.harvestList(content, []string{"features"})
	assert.Equal(t, []string{"real feature"}, items)
}

func TestExcerptTruncatesOnWordBoundary(t *testing.T) {
	long := strings.Repeat("word ", 100)

	ex := excerpt(long, 40)
	assert.True(t, strings.HasSuffix(ex, "..."))
	assert.LessOrEqual(t, len([]rune(ex)), 43)
	assert.NotContains(t, strings.TrimSuffix(ex, "..."), "wor ")

	short := "short text"
	assert.Equal(t, short, excerpt(short, 40))
}
