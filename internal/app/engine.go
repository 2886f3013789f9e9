package app

import (
	"fmt"
	"log/slog"

	"github.com/corey/kwscan/internal/adapters/ahocorasick"
	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/domain/replace"
	"github.com/corey/kwscan/internal/ports"
)

// Engine names accepted by config and the --engine flag.
const (
	EngineLazy    = "lazy"    // automaton, failure links walked on demand
	EngineDFA     = "dfa"     // automaton with the precomputed transition table
	EngineLibrary = "library" // petar-dambovaliev/aho-corasick
)

// Engines lists every engine name.
func Engines() []string {
	return []string{EngineLazy, EngineDFA, EngineLibrary}
}

// ValidEngine reports whether name is a known engine.
func ValidEngine(name string) bool {
	switch name {
	case EngineLazy, EngineDFA, EngineLibrary:
		return true
	}
	return false
}

// NewMatcher builds a matcher for keywords with the named engine. The
// logger receives construction diagnostics such as an empty keyword set.
func NewMatcher(engine string, keywords []string, logger *slog.Logger) (ports.PatternMatcher, error) {
	switch engine {
	case EngineLazy:
		return automaton.New(keywords, automaton.WithLogger(logger)), nil
	case EngineDFA:
		return automaton.New(keywords, automaton.WithLogger(logger), automaton.WithDeterministicTable()), nil
	case EngineLibrary:
		m := ahocorasick.NewMatcher(keywords)
		if len(m.Keywords()) == 0 && logger != nil {
			logger.Warn("empty keyword set, matcher will never report a match", "given", len(keywords))
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}

// Replacer is satisfied by both replacer implementations.
type Replacer interface {
	Replace(text string) string
}

// NewReplacer builds a replacer whose key search uses the named engine.
func NewReplacer(engine string, pairs map[string]string) (Replacer, error) {
	switch engine {
	case EngineLazy:
		return replace.New(pairs), nil
	case EngineDFA:
		return replace.New(pairs, replace.WithEngine(func(kws []string) ports.PatternMatcher {
			return automaton.New(kws, automaton.WithDeterministicTable())
		})), nil
	case EngineLibrary:
		return ahocorasick.NewReplacer(pairs), nil
	default:
		return nil, fmt.Errorf("unknown engine %q", engine)
	}
}
