package test

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"github.com/corey/kwscan/internal/app"
	"github.com/corey/kwscan/internal/ports"
)

// --- Matching Fixtures ---

type fixtureFile struct {
	Search  []searchFixture  `json:"search"`
	Replace []replaceFixture `json:"replace"`
}

type searchFixture struct {
	Name     string        `json:"name"`
	Keywords []string      `json:"keywords"`
	Text     string        `json:"text"`
	Expected []ports.Match `json:"expected"`
}

type replaceFixture struct {
	Name  string            `json:"name"`
	Pairs map[string]string `json:"pairs"`
	Text  string            `json:"text"`
	Want  string            `json:"want"`
}

func loadFixtures(path string) (*fixtureFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixtures: %w", err)
	}
	var f fixtureFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	return &f, nil
}

// --- Corpus Generators ---

// vocabulary is the word pool for generated keyword sets and text. Mixed
// scripts so code-point offsets differ from byte offsets.
var vocabulary = []string{
	"handler", "response", "request", "dashboard", "config", "cache",
	"séance", "naïve", "façade", "crème",
	"東京", "江戸", "京都", "大阪",
	"язык", "группа", "слово",
	"🙂", "🚀",
}

// buildKeywords returns n distinct keywords formed from vocabulary words with
// numeric suffixes, plus the bare words themselves.
func buildKeywords(n int) []string {
	kws := append([]string(nil), vocabulary...)
	for i := 0; len(kws) < n; i++ {
		kws = append(kws, fmt.Sprintf("%s%d", vocabulary[i%len(vocabulary)], i))
	}
	return kws[:n]
}

// buildText returns about size bytes of space-separated words drawn from
// vocabulary and filler, deterministic for a given seed.
func buildText(size int, seed int64) string {
	rng := rand.New(rand.NewSource(seed))
	filler := []string{"the", "of", "and", "a", "to", "in", "is", "x", "42"}
	var sb strings.Builder
	sb.Grow(size + 32)
	for sb.Len() < size {
		if rng.Intn(4) == 0 {
			w := vocabulary[rng.Intn(len(vocabulary))]
			sb.WriteString(w)
			if rng.Intn(3) == 0 {
				fmt.Fprintf(&sb, "%d", rng.Intn(500))
			}
		} else {
			sb.WriteString(filler[rng.Intn(len(filler))])
		}
		sb.WriteByte(' ')
	}
	return sb.String()
}

// buildAll constructs one matcher per engine.
func buildAll(keywords []string) (map[string]ports.PatternMatcher, error) {
	out := make(map[string]ports.PatternMatcher)
	for _, engine := range app.Engines() {
		m, err := app.NewMatcher(engine, keywords, nil)
		if err != nil {
			return nil, err
		}
		out[engine] = m
	}
	return out, nil
}
