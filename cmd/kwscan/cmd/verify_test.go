package cmd

import (
	"bytes"
	"testing"

	"github.com/corey/kwscan/internal/domain/reference"
	"github.com/corey/kwscan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropLast wraps a matcher and loses its last match.
type dropLast struct{ ports.PatternMatcher }

func (d dropLast) SearchIn(text string) []ports.Match {
	matches := d.PatternMatcher.SearchIn(text)
	if len(matches) == 0 {
		return matches
	}
	return matches[:len(matches)-1]
}

func TestCompareEngines_Agree(t *testing.T) {
	kws := []string{"he", "she", "his", "hers"}
	engines, err := buildEngines(kws, nil)
	require.NoError(t, err)
	require.Len(t, engines, 3)

	var buf bytes.Buffer
	ok := compareEngines(&buf, "", "ushers", reference.New(kws), engines)
	assert.True(t, ok)
	assert.Equal(t, "lazy: ok (3 matches)\ndfa: ok (3 matches)\nlibrary: ok (3 matches)\n", buf.String())
}

func TestCompareEngines_ReportsMismatch(t *testing.T) {
	kws := []string{"he", "she", "his", "hers"}
	engines, err := buildEngines(kws, nil)
	require.NoError(t, err)
	engines[1].matcher = dropLast{engines[1].matcher}

	var buf bytes.Buffer
	ok := compareEngines(&buf, "in.txt", "ushers", reference.New(kws), engines)
	assert.False(t, ok)
	assert.Contains(t, buf.String(), "in.txt: lazy: ok")
	assert.Contains(t, buf.String(), "in.txt: dfa: MISMATCH (-reference +dfa)")
	assert.Contains(t, buf.String(), "in.txt: library: ok")
}

func TestCompareEngines_NoMatchesIsAgreement(t *testing.T) {
	engines, err := buildEngines([]string{"zebra"}, nil)
	require.NoError(t, err)
	var buf bytes.Buffer
	assert.True(t, compareEngines(&buf, "", "nothing here", reference.New([]string{"zebra"}), engines))
}
