package reference

import (
	"testing"

	"github.com/corey/kwscan/internal/ports"
	"github.com/stretchr/testify/assert"
)

// =============================================================================
// Reference matcher: brute-force scan used as the oracle for faster matchers
// Expectation: every occurrence of every keyword, overlaps included, with
// code-point offsets
// =============================================================================

func TestSearchIn_OverlappingOccurrences(t *testing.T) {
	m := New([]string{"aa"})
	assert.Equal(t, []ports.Match{{Offset: 0, Keyword: "aa"}, {Offset: 1, Keyword: "aa"}}, m.SearchIn("aaa"))
}

func TestSearchIn_CodePointOffsets(t *testing.T) {
	m := New([]string{"の", "蛙"})
	assert.Equal(t, []ports.Match{{Offset: 1, Keyword: "の"}, {Offset: 3, Keyword: "の"}, {Offset: 4, Keyword: "蛙"}}, m.SearchIn("井の中の蛙"))
}

func TestSearchIn_GroupedByKeyword(t *testing.T) {
	m := New([]string{"b", "a"})
	assert.Equal(t, []ports.Match{{Offset: 1, Keyword: "b"}, {Offset: 0, Keyword: "a"}, {Offset: 2, Keyword: "a"}}, m.SearchIn("aba"))
}

func TestSearchIn_KeywordLongerThanText(t *testing.T) {
	m := New([]string{"abcd"})
	assert.Nil(t, m.SearchIn("abc"))
}

func TestSearchIn_EmptyInputs(t *testing.T) {
	assert.Nil(t, New([]string{"a"}).SearchIn(""))
	assert.Nil(t, New(nil).SearchIn("abc"))
	assert.Nil(t, New([]string{""}).SearchIn("abc"))
}

func TestKeywords_Filtered(t *testing.T) {
	m := New([]string{"x", "", "y", "x"})
	assert.Equal(t, []string{"x", "y"}, m.Keywords())
}
