package automaton

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Construction: trie, failure links, output closure
// Expectation: keyword set is filtered and ordered predictably, every state
// fails to its longest proper suffix that is also a keyword prefix, and every
// state outputs exactly the keywords that are suffixes of its path
// =============================================================================

// classic is the keyword set from Aho and Corasick's paper.
var classic = []string{"he", "she", "his", "hers"}

// stateFor walks success transitions from the root along path.
func stateFor(t *testing.T, m *Matcher, path string) int {
	t.Helper()
	s := int32(root)
	for _, ch := range path {
		nxt, ok := m.states[s].next[ch]
		require.True(t, ok, "no trie path for %q", path)
		s = nxt
	}
	return int(s)
}

// paths maps every state to the string spelled on the way from the root.
func paths(m *Matcher) map[int]string {
	out := map[int]string{root: ""}
	queue := []int32{root}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		for ch, nxt := range m.states[s].next {
			out[int(nxt)] = out[int(s)] + string(ch)
			queue = append(queue, nxt)
		}
	}
	return out
}

func TestNew_KeywordsPreserveOrder(t *testing.T) {
	in := []string{"s", "sea", "の"}
	m := New(in)
	assert.Equal(t, in, m.Keywords())
	assert.NoError(t, m.Err())
	assert.False(t, m.Empty())
}

func TestNew_DropsEmptyAndDuplicates(t *testing.T) {
	m := New([]string{"の", "", "食", "の", "小蓑", ""})
	assert.Equal(t, []string{"の", "食", "小蓑"}, m.Keywords())
}

func TestNew_KeywordsStableAcrossBuilds(t *testing.T) {
	in := []string{"b", "a", "", "b", "ab"}
	assert.Equal(t, New(in).Keywords(), New(in).Keywords())
}

func TestKeywords_ReturnsCopy(t *testing.T) {
	m := New([]string{"x", "y"})
	kws := m.Keywords()
	kws[0] = "mutated"
	assert.Equal(t, []string{"x", "y"}, m.Keywords())
}

func TestNew_EmptyKeywordSetWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	m := New(nil, WithLogger(logger))

	assert.ErrorIs(t, m.Err(), ErrNoKeywords)
	assert.True(t, m.Empty())
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "empty keyword set")
	assert.Empty(t, m.SearchIn("anything at all"))
	assert.Equal(t, 1, m.StateCount())
}

func TestNew_OnlyEmptyStringsIsEmptySet(t *testing.T) {
	m := New([]string{"", ""}, WithDeterministicTable())
	assert.ErrorIs(t, m.Err(), ErrNoKeywords)
	assert.Empty(t, m.Keywords())
	assert.Equal(t, root, m.NextState(root, 'a'))
	assert.Empty(t, m.SearchIn("aaa"))
}

func TestNew_NilLoggerIsSilent(t *testing.T) {
	assert.NotPanics(t, func() { New(nil, WithLogger(nil)) })
}

func TestStateCount_Classic(t *testing.T) {
	// h he her hers hi his s sh she, plus the root
	assert.Equal(t, 10, New(classic).StateCount())
}

func TestAlphabet_FirstSeenOrder(t *testing.T) {
	assert.Equal(t, []rune{'h', 'e', 's', 'i', 'r'}, New(classic).Alphabet())
}

func TestFailure_Classic(t *testing.T) {
	m := New(classic)
	cases := []struct {
		path string
		want string
	}{
		{"h", ""},
		{"s", ""},
		{"he", ""},
		{"hi", ""},
		{"sh", "h"},
		{"she", "he"},
		{"her", ""},
		{"his", "s"},
		{"hers", "s"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			want := root
			if tc.want != "" {
				want = stateFor(t, m, tc.want)
			}
			assert.Equal(t, want, m.Failure(stateFor(t, m, tc.path)))
		})
	}
}

func TestFailure_RootAndOutOfRange(t *testing.T) {
	m := New(classic)
	assert.Equal(t, root, m.Failure(root))
	assert.Equal(t, root, m.Failure(-1))
	assert.Equal(t, root, m.Failure(m.StateCount()))
}

func TestOutputs_OwnKeywordFirst(t *testing.T) {
	m := New(classic)
	assert.Equal(t, []string{"she", "he"}, m.Outputs(stateFor(t, m, "she")))
	assert.Equal(t, []string{"hers"}, m.Outputs(stateFor(t, m, "hers")))
	assert.Equal(t, []string{"he"}, m.Outputs(stateFor(t, m, "he")))
	assert.Nil(t, m.Outputs(stateFor(t, m, "sh")))
	assert.Nil(t, m.Outputs(root))
	assert.Nil(t, m.Outputs(999))
}

func TestOutputs_ChainedInheritance(t *testing.T) {
	m := New([]string{"s", "ls", "lls", "hells", "shell", "she", "he", "h"})
	assert.Equal(t, []string{"hells", "lls", "ls", "s"}, m.Outputs(stateFor(t, m, "hells")))
	assert.Equal(t, []string{"she", "he"}, m.Outputs(stateFor(t, m, "she")))
	assert.Equal(t, []string{"h"}, m.Outputs(stateFor(t, m, "sh")))
}

func TestOutputs_ExactlyTheKeywordSuffixes(t *testing.T) {
	sets := [][]string{
		classic,
		{"s", "se", "sea", "ore", "hell", "eat"},
		{"s", "ls", "lls", "hells", "shell", "she", "he", "h"},
		{"a", "aa", "aaa", "aaaa", "ba", "aab"},
		{"の", "中の", "井の中の", "蛙"},
	}
	for _, kws := range sets {
		m := New(kws)
		for s, path := range paths(m) {
			var want []string
			for _, kw := range kws {
				if len(kw) <= len(path) && path[len(path)-len(kw):] == kw {
					want = append(want, kw)
				}
			}
			assert.ElementsMatch(t, want, m.Outputs(s), "state %d path %q", s, path)

			ids := m.states[s].out
			seen := make(map[int32]bool, len(ids))
			for _, id := range ids {
				assert.False(t, seen[id], "duplicate output %q at %q", m.keywords[id], path)
				seen[id] = true
			}
		}
	}
}

func TestFailure_IsLongestSuffixThatIsAPrefix(t *testing.T) {
	m := New([]string{"abcab", "bcabd", "cab", "ab", "b"})
	all := paths(m)
	byPath := make(map[string]int, len(all))
	for s, p := range all {
		byPath[p] = s
	}
	for s, p := range all {
		if s == root {
			continue
		}
		want := root
		for i := 1; i < len(p); i++ {
			if st, ok := byPath[p[i:]]; ok {
				want = st
				break
			}
		}
		assert.Equal(t, want, m.Failure(s), "path %q", p)
	}
}
