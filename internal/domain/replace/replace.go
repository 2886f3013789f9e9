// Package replace rewrites text by substituting keyword occurrences found by
// a multi-keyword matcher.
//
// The policy is the one PHP's strtr applies to an array of pairs: scanning
// left to right, the longest key that starts at the current position wins,
// its replacement is emitted, and scanning resumes after the replaced key.
// Replacement text is never rescanned.
package replace

import (
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/ports"
)

// Engine builds a matcher over the replacement keys.
type Engine func(keywords []string) ports.PatternMatcher

// Replacer substitutes keys with their paired values. Safe for concurrent use.
type Replacer struct {
	pairs   map[string]string
	keys    []string
	matcher ports.PatternMatcher
}

// Edit is one substitution chosen by Replacements. Offset and Length count
// code points in the original text.
type Edit struct {
	Offset int
	Length int
	From   string
	To     string
}

type Option func(*options)

type options struct {
	engine Engine
}

// WithEngine selects the matcher used to find keys. The default is the
// lazy automaton.
func WithEngine(engine Engine) Option {
	return func(o *options) { o.engine = engine }
}

// New builds a replacer from key to replacement pairs. Empty keys are ignored.
func New(pairs map[string]string, opts ...Option) *Replacer {
	o := options{
		engine: func(keywords []string) ports.PatternMatcher { return automaton.New(keywords) },
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := &Replacer{pairs: make(map[string]string, len(pairs))}
	for from, to := range pairs {
		if from == "" {
			continue
		}
		r.pairs[from] = to
		r.keys = append(r.keys, from)
	}
	slices.Sort(r.keys)
	r.matcher = o.engine(r.keys)
	return r
}

// Keys returns the replacement keys in sorted order.
func (r *Replacer) Keys() []string {
	return slices.Clone(r.keys)
}

// Replacements returns the substitutions Replace would make, in text order.
func (r *Replacer) Replacements(text string) []Edit {
	if len(r.keys) == 0 {
		return nil
	}
	matches := r.matcher.SearchIn(text)
	if len(matches) == 0 {
		return nil
	}

	longest := make(map[int]string, len(matches))
	for _, m := range matches {
		cur, ok := longest[m.Offset]
		if !ok || utf8.RuneCountInString(m.Keyword) > utf8.RuneCountInString(cur) {
			longest[m.Offset] = m.Keyword
		}
	}
	offsets := make([]int, 0, len(longest))
	for off := range longest {
		offsets = append(offsets, off)
	}
	slices.Sort(offsets)

	var edits []Edit
	next := 0
	for _, off := range offsets {
		if off < next {
			continue
		}
		from := longest[off]
		n := utf8.RuneCountInString(from)
		edits = append(edits, Edit{Offset: off, Length: n, From: from, To: r.pairs[from]})
		next = off + n
	}
	return edits
}

// Replace returns text with every chosen key substituted. Bytes outside the
// replaced spans are copied unchanged, invalid UTF-8 included.
func (r *Replacer) Replace(text string) string {
	edits := r.Replacements(text)
	if len(edits) == 0 {
		return text
	}

	// byte offset of each code point, plus one past the end
	starts := make([]int, 0, len(text)+1)
	for i := range text {
		starts = append(starts, i)
	}
	starts = append(starts, len(text))

	var b strings.Builder
	b.Grow(len(text))
	pos := 0
	for _, e := range edits {
		b.WriteString(text[pos:starts[e.Offset]])
		b.WriteString(e.To)
		pos = starts[e.Offset+e.Length]
	}
	b.WriteString(text[pos:])
	return b.String()
}
