package app

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/corey/kwscan/internal/ports"
	"github.com/pkg/errors"
)

// KeywordSource names where keywords come from. Sources are concatenated in
// field order; the matcher drops duplicates and empty strings.
type KeywordSource struct {
	Inline []string // -k flags
	File   string   // -f: one keyword per line
	Set    string   // --set: a stored keyword set
}

// Empty reports whether no source was given.
func (s KeywordSource) Empty() bool {
	return len(s.Inline) == 0 && s.File == "" && s.Set == ""
}

// Resolve gathers keywords from every source. store may be nil when Set is
// empty.
func (s KeywordSource) Resolve(store ports.KeywordStore) ([]string, error) {
	keywords := append([]string(nil), s.Inline...)
	if s.File != "" {
		kws, err := ReadKeywordsFile(s.File)
		if err != nil {
			return nil, err
		}
		keywords = append(keywords, kws...)
	}
	if s.Set != "" {
		if store == nil {
			return nil, fmt.Errorf("keyword set %q: no store", s.Set)
		}
		kws, err := store.LoadSet(s.Set)
		if err != nil {
			return nil, fmt.Errorf("load set %q: %w", s.Set, err)
		}
		if kws == nil {
			return nil, fmt.Errorf("keyword set %q not found", s.Set)
		}
		keywords = append(keywords, kws...)
	}
	return keywords, nil
}

// ReadKeywordsFile reads one keyword per line. Line endings (LF or CRLF) are
// stripped; all other whitespace is part of the keyword.
func ReadKeywordsFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKeywords(data), nil
}

// ParseKeywords splits data into lines, dropping the empty line after a
// trailing newline.
func ParseKeywords(data []byte) []string {
	if len(data) == 0 {
		return nil
	}
	data = bytes.TrimSuffix(data, []byte("\n"))
	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

// ReadPairsFile reads replacement pairs from a TOML file of top-level
// string keys, e.g. "江戸" = "東京".
func ReadPairsFile(path string) (map[string]string, error) {
	pairs := make(map[string]string)
	if _, err := toml.DecodeFile(path, &pairs); err != nil {
		return nil, errors.Wrapf(err, "load pairs from file:%s", path)
	}
	return pairs, nil
}

// ParsePair splits a from=to flag value at the first '='.
func ParsePair(s string) (from, to string, err error) {
	i := strings.IndexByte(s, '=')
	if i <= 0 {
		return "", "", fmt.Errorf("invalid pair %q (want from=to)", s)
	}
	return s[:i], s[i+1:], nil
}
