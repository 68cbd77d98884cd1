package results

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_WellFormedJUnit(t *testing.T) {
	parsed, err := Parse([]RawResult{{Format: FormatJUnit, Path: "run.xml", Content: []byte(sampleJUnit)}})
	require.NoError(t, err)
	require.NotNil(t, parsed)

	assert.False(t, parsed.Empty())
	totals := parsed.Totals()
	assert.Equal(t, 2, totals.Tests)
	assert.Equal(t, 1, totals.Passed)
	assert.Equal(t, 1, totals.Failed)
}

func TestParse_AggregatesAcrossRawResults(t *testing.T) {
	raw := RawResult{Format: FormatJUnit, Path: "run.xml", Content: []byte(sampleJUnit)}

	parsed, err := Parse([]RawResult{raw, raw})
	require.NoError(t, err)
	assert.Equal(t, 4, parsed.Totals().Tests)
}

func TestParse_NothingToParse(t *testing.T) {
	parsed, err := Parse(nil)
	require.NoError(t, err)
	assert.Nil(t, parsed)
	assert.True(t, parsed.Empty(), "a nil result counts as empty")
	assert.Equal(t, 0, parsed.Totals().Tests)
}

func TestParse_MalformedXMLPropagates(t *testing.T) {
	_, err := Parse([]RawResult{{Format: FormatJUnit, Path: "bad.xml", Content: []byte("<testsuite")}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.xml")
}
