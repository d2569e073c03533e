package render

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/docsight/internal/insight"
)

func sampleInsight() *insight.Insight {
	return &insight.Insight{
		Summary:        "A compact Go tool.",
		KeyFeatures:    []string{"fast startup"},
		Technologies:   []string{"Go", "SQLite"},
		UseCases:       []string{"automation"},
		MainSections:   []string{"Usage"},
		Complexity:     insight.ComplexityLow,
		Recommendation: "Read the README.",
	}
}

func TestReportPlainMarkdown(t *testing.T) {
	out, err := New(ModePlain).Report(sampleInsight(), "acme/tool", "heuristic")
	require.NoError(t, err)

	assert.Contains(t, out, "# acme/tool")
	assert.Contains(t, out, "**Complexity:** Low")
	assert.Contains(t, out, "A compact Go tool.")
	assert.Contains(t, out, "## Technologies")
	assert.Contains(t, out, "- SQLite")
	assert.Contains(t, out, "## Recommendation")
	assert.Contains(t, out, "Read the README.")
}

func TestReportOmitsEmptyLists(t *testing.T) {
	in := sampleInsight()
	in.UseCases = []string{}

	out, err := New(ModePlain).Report(in, "src", "heuristic")
	require.NoError(t, err)
	assert.NotContains(t, out, "## Use Cases")
}

func TestReportJSONRoundTrips(t *testing.T) {
	out, err := New(ModeJSON).Report(sampleInsight(), "acme/tool", "anthropic")
	require.NoError(t, err)

	var decoded insight.Insight
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, *sampleInsight(), decoded)
}

func TestReportStyledNeverErrors(t *testing.T) {
	r := New(ModeStyled)
	r.SetWidth(80)

	out, err := r.Report(sampleInsight(), "acme/tool", "heuristic")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/tool")
	assert.NotEmpty(t, out)
}
