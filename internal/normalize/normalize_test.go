package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/normanking/docsight/internal/insight"
)

const wellFormed = `{
	"summary": "A compact CLI tool.",
	"keyFeatures": ["fast", "small"],
	"technologies": ["Go"],
	"useCases": ["automation"],
	"mainSections": ["Usage"],
	"complexity": "Low",
	"recommendation": "Try it."
}`

func TestNormalizeWholeString(t *testing.T) {
	in, err := Normalize(wellFormed)
	require.NoError(t, err)

	assert.Equal(t, "A compact CLI tool.", in.Summary)
	assert.Equal(t, insight.ComplexityLow, in.Complexity)
	assert.Equal(t, []string{"Go"}, in.Technologies)
}

// TestNormalizeRecoversFromSurroundingProse checks the balanced-substring
// strategy: the object is buried in chatter on both sides.
func TestNormalizeRecoversFromSurroundingProse(t *testing.T) {
	raw := "Sure! Here is the analysis you asked for:\n" + wellFormed + "\nLet me know if you need more."

	in, err := Normalize(raw)
	require.NoError(t, err)
	assert.Equal(t, "A compact CLI tool.", in.Summary)
}

func TestNormalizeRecoversFromFencedBlock(t *testing.T) {
	for _, fence := range []string{"```json\n", "```\n"} {
		raw := "Here you go:\n\n" + fence + wellFormed + "\n```\n"

		in, err := Normalize(raw)
		require.NoError(t, err, "fence %q", fence)
		assert.Equal(t, "Try it.", in.Recommendation)
	}
}

// TestNormalizeDefaultsMissingFields verifies parse success with a sparse
// object: absent fields are defaulted, not rejected.
func TestNormalizeDefaultsMissingFields(t *testing.T) {
	in, err := Normalize(`{"summary": "Only a summary."}`)
	require.NoError(t, err)

	assert.Equal(t, "Only a summary.", in.Summary)
	assert.NotNil(t, in.KeyFeatures)
	assert.Equal(t, insight.ComplexityMedium, in.Complexity)
	assert.NotEmpty(t, in.Recommendation)
}

func TestNormalizeCoercesComplexityText(t *testing.T) {
	in, err := Normalize(`{"summary": "s", "complexity": "HIGH"}`)
	require.NoError(t, err)
	assert.Equal(t, insight.ComplexityHigh, in.Complexity)
}

func TestNormalizeRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{
		"",
		"I could not produce JSON, sorry.",
		"null",
		`"just a string"`,
		"{broken json",
		"```\nnot json either\n```",
	} {
		in, err := Normalize(raw)
		assert.Nil(t, in, "input %q", raw)
		require.Error(t, err, "input %q", raw)
		assert.True(t, errors.Is(err, ErrUnparseable), "input %q", raw)
	}
}

func TestParseErrorKeepsBoundedSample(t *testing.T) {
	long := "x" + string(make([]byte, 500))

	_, err := Normalize(long)
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.LessOrEqual(t, len(pe.Sample), 80)
}
