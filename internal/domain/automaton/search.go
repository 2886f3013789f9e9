package automaton

import (
	"cmp"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/corey/kwscan/internal/ports"
)

// SearchIn returns every keyword occurrence in text, overlapping ones
// included, in the order they are recognized: by end position, and at one
// end position longest keyword first. Offsets count code points.
func (m *Matcher) SearchIn(text string) []ports.Match {
	if len(m.keywords) == 0 || text == "" {
		return nil
	}
	var matches []ports.Match
	s, i := root, 0
	for _, ch := range text {
		s = m.NextState(s, ch)
		matches = m.emit(matches, s, i)
		i++
	}
	return matches
}

// SearchRunes is SearchIn over already decoded text.
func (m *Matcher) SearchRunes(text []rune) []ports.Match {
	if len(m.keywords) == 0 || len(text) == 0 {
		return nil
	}
	var matches []ports.Match
	s := root
	for i, ch := range text {
		s = m.NextState(s, ch)
		matches = m.emit(matches, s, i)
	}
	return matches
}

func (m *Matcher) emit(dst []ports.Match, s, end int) []ports.Match {
	for _, id := range m.states[s].out {
		dst = append(dst, ports.Match{
			Offset:  end - m.lens[id] + 1,
			Keyword: m.keywords[id],
		})
	}
	return dst
}

// SortMatches orders matches by offset, then keyword length in code points,
// then keyword text.
func SortMatches(matches []ports.Match) {
	slices.SortFunc(matches, CompareMatches)
}

// CompareMatches is the ordering used by SortMatches.
func CompareMatches(a, b ports.Match) int {
	if c := cmp.Compare(a.Offset, b.Offset); c != 0 {
		return c
	}
	if c := cmp.Compare(utf8.RuneCountInString(a.Keyword), utf8.RuneCountInString(b.Keyword)); c != 0 {
		return c
	}
	return strings.Compare(a.Keyword, b.Keyword)
}
