// Package reference is a brute-force keyword matcher. It scans the text once
// per keyword and exists to check faster matchers against; it shares no code
// with them.
package reference

import "github.com/corey/kwscan/internal/ports"

// Matcher finds keyword occurrences by direct comparison at every position.
type Matcher struct {
	keywords []string
	runes    [][]rune
}

var _ ports.PatternMatcher = (*Matcher)(nil)

// New keeps the distinct non-empty keywords in first-occurrence order.
func New(keywords []string) *Matcher {
	m := &Matcher{}
	seen := make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		m.keywords = append(m.keywords, kw)
		m.runes = append(m.runes, []rune(kw))
	}
	return m
}

func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// SearchIn reports matches grouped by keyword, each group in offset order.
// After an occurrence the scan resumes one code point past its start, so
// overlapping occurrences of the same keyword are all found.
func (m *Matcher) SearchIn(text string) []ports.Match {
	if text == "" || len(m.keywords) == 0 {
		return nil
	}
	hay := []rune(text)
	var matches []ports.Match
	for k, needle := range m.runes {
		for i := 0; i+len(needle) <= len(hay); i++ {
			if equal(hay[i:i+len(needle)], needle) {
				matches = append(matches, ports.Match{Offset: i, Keyword: m.keywords[k]})
			}
		}
	}
	return matches
}

func equal(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
