// Package ahocorasick adapts the petar-dambovaliev/aho-corasick library to
// the ports.PatternMatcher contract. The library works in bytes; this adapter
// reports code-point offsets so its results compare directly with the
// in-house automaton.
package ahocorasick

import (
	aho "github.com/petar-dambovaliev/aho-corasick"

	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/ports"
)

// Matcher finds overlapping keyword occurrences with the library's DFA.
type Matcher struct {
	automaton aho.AhoCorasick
	keywords  []string
}

var _ ports.PatternMatcher = (*Matcher)(nil)

// NewMatcher builds the library automaton. Keywords are filtered the same way
// automaton.New filters them.
func NewMatcher(keywords []string) *Matcher {
	m := &Matcher{keywords: automaton.NormalizeKeywords(keywords)}
	if len(m.keywords) == 0 {
		return m
	}
	builder := aho.NewAhoCorasickBuilder(aho.Opts{
		DFA: true,
	})
	m.automaton = builder.Build(m.keywords)
	return m
}

func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// SearchIn returns all occurrences in the library's iteration order.
func (m *Matcher) SearchIn(text string) []ports.Match {
	if len(m.keywords) == 0 || text == "" {
		return nil
	}
	var (
		matches []ports.Match
		offsets []int32
	)
	iter := m.automaton.IterOverlappingByte([]byte(text))
	for next := iter.Next(); next != nil; next = iter.Next() {
		if offsets == nil {
			offsets = runeOffsets(text)
		}
		hit := *next
		matches = append(matches, ports.Match{
			Offset:  int(offsets[hit.Start()]),
			Keyword: m.keywords[hit.Pattern()],
		})
	}
	return matches
}

// runeOffsets maps each byte offset at which a code point starts to that
// code point's index. A UTF-8 keyword can only match on such boundaries.
func runeOffsets(text string) []int32 {
	offsets := make([]int32, len(text)+1)
	var n int32
	for i := range text {
		offsets[i] = n
		n++
	}
	offsets[len(text)] = n
	return offsets
}
