package ahocorasick

import (
	"github.com/corey/kwscan/internal/domain/replace"
	"github.com/corey/kwscan/internal/ports"
)

// Replacer substitutes keys leftmost-longest using the library matcher for
// the search. The library's own replacer cannot be used: its FindAll still
// yields overlapping matches under LeftMostLongestMatch.
type Replacer struct {
	r *replace.Replacer
}

// NewReplacer builds a replacer from key to replacement pairs. Empty keys
// are ignored.
func NewReplacer(pairs map[string]string) *Replacer {
	return &Replacer{r: replace.New(pairs, replace.WithEngine(libraryEngine))}
}

func libraryEngine(keywords []string) ports.PatternMatcher {
	return NewMatcher(keywords)
}

// Replace returns text with every selected key occurrence substituted.
func (r *Replacer) Replace(text string) string {
	return r.r.Replace(text)
}
