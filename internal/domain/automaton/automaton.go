// Package automaton implements Aho-Corasick multi-keyword matching.
//
// A Matcher is built once from a keyword set: a trie of success transitions,
// failure links computed breadth-first, and output lists closed over the
// failure chain. Searching is a single left-to-right pass over the text's
// code points, so cost is linear in the text plus the number of matches no
// matter how many keywords are loaded.
//
// Two transition strategies share one construction. The lazy strategy walks
// failure links on a miss. The deterministic strategy (WithDeterministicTable)
// precomputes the result for every state and alphabet character, trading
// states x alphabet memory for one lookup per character.
//
// A built Matcher is immutable and safe for concurrent searches.
package automaton

import (
	"errors"
	"io"
	"log/slog"

	"github.com/corey/kwscan/internal/ports"
)

// ErrNoKeywords is reported by Err when nothing was left to search for after
// dropping empty and duplicate keywords.
var ErrNoKeywords = errors.New("automaton: no keywords to search for")

// root is the empty-prefix state. Every unmatched path leads back to it.
const root = 0

type state struct {
	next map[rune]int32
	fail int32
	out  []int32 // keyword ids; own keyword first, then the failure target's list
}

// Matcher is an Aho-Corasick automaton over a fixed keyword set.
type Matcher struct {
	keywords []string
	lens     []int // keyword lengths in code points
	states   []state
	alphabet []rune
	order    []int32 // non-root states in breadth-first order

	deterministic bool
	columns       map[rune]int32
	table         []int32 // len(states) rows of len(alphabet) cells

	err    error
	logger *slog.Logger
}

var _ ports.PatternMatcher = (*Matcher)(nil)

// Option configures New.
type Option func(*options)

type options struct {
	deterministic bool
	logger        *slog.Logger
}

// WithDeterministicTable precomputes the full transition table after
// construction. NextState and SearchIn then never walk failure links.
func WithDeterministicTable() Option {
	return func(o *options) { o.deterministic = true }
}

// WithLogger sets the logger used for construction diagnostics.
// A nil logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// New builds a matcher for keywords. Empty strings are dropped and duplicates
// collapse to their first occurrence. If nothing remains, New still returns a
// usable matcher that never matches; the condition is logged as a warning and
// reported by Err.
func New(keywords []string, opts ...Option) *Matcher {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	logger := o.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m := &Matcher{
		keywords: NormalizeKeywords(keywords),
		states:   make([]state, 1),
		logger:   logger,
	}
	if len(m.keywords) == 0 {
		m.err = ErrNoKeywords
		logger.Warn("empty keyword set, matcher will never report a match",
			"given", len(keywords))
	} else {
		m.buildTrie()
		m.buildFailure()
	}
	if o.deterministic {
		m.buildTable()
	}

	logger.Debug("automaton built",
		"keywords", len(m.keywords),
		"states", len(m.states),
		"alphabet", len(m.alphabet),
		"deterministic", m.deterministic)
	return m
}

// NormalizeKeywords drops empty strings and repeated keywords, keeping the
// first occurrence of each in its original position.
func NormalizeKeywords(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// Keywords returns a copy of the effective keyword set.
func (m *Matcher) Keywords() []string {
	out := make([]string, len(m.keywords))
	copy(out, m.keywords)
	return out
}

// Err returns ErrNoKeywords for an inert matcher, nil otherwise.
func (m *Matcher) Err() error { return m.err }

// Empty reports whether the matcher has no keywords.
func (m *Matcher) Empty() bool { return len(m.keywords) == 0 }

// Deterministic reports whether the transition table was precomputed.
func (m *Matcher) Deterministic() bool { return m.deterministic }

// StateCount returns the number of states including the root.
func (m *Matcher) StateCount() int { return len(m.states) }

// Alphabet returns every distinct code point used by the keywords, in the
// order first seen.
func (m *Matcher) Alphabet() []rune {
	out := make([]rune, len(m.alphabet))
	copy(out, m.alphabet)
	return out
}

// Failure returns the failure link of state. Out-of-range states and the root
// itself fail to the root.
func (m *Matcher) Failure(state int) int {
	if !m.valid(state) {
		return root
	}
	return int(m.states[state].fail)
}

// Outputs returns the keywords recognized on entering state, own keyword first.
func (m *Matcher) Outputs(state int) []string {
	if !m.valid(state) {
		return nil
	}
	ids := m.states[state].out
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = m.keywords[id]
	}
	return out
}

func (m *Matcher) valid(state int) bool {
	return state >= 0 && state < len(m.states)
}
