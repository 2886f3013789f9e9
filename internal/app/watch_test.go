package app

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeWatcher records registrations and lets tests fire change events.
type fakeWatcher struct {
	mu      sync.Mutex
	cbs     map[string]func(string)
	stopped bool
	failOn  string // absolute path whose Watch fails
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{cbs: make(map[string]func(string))}
}

func (f *fakeWatcher) Watch(path string, onChange func(string)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if abs == f.failOn {
		return errors.New("watch " + path + ": no such file")
	}
	f.cbs[abs] = onChange
	return nil
}

func (f *fakeWatcher) Stop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
	return nil
}

func (f *fakeWatcher) registered() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.cbs)
}

func (f *fakeWatcher) isStopped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stopped
}

func (f *fakeWatcher) fire(t *testing.T, path string) {
	t.Helper()
	abs, err := filepath.Abs(path)
	require.NoError(t, err)
	f.mu.Lock()
	cb := f.cbs[abs]
	f.mu.Unlock()
	require.NotNil(t, cb, "no watch on %s", path)
	cb(abs)
}

type run struct {
	keywords []string
	inputs   []string
}

func nextRun(t *testing.T, runs <-chan run) run {
	t.Helper()
	select {
	case r := <-runs:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for search")
		return run{}
	}
}

func TestWatchedSearch(t *testing.T) {
	dir := t.TempDir()
	kwFile := filepath.Join(dir, "keywords.txt")
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")

	var (
		mu       sync.Mutex
		keywords = []string{"he"}
		buildErr error
	)
	runs := make(chan run, 8)
	ws := WatchedSearch{
		KeywordFile: kwFile,
		Inputs:      []string{a, b},
		Build: func() (ports.PatternMatcher, error) {
			mu.Lock()
			defer mu.Unlock()
			if buildErr != nil {
				return nil, buildErr
			}
			return automaton.New(keywords), nil
		},
		Run: func(m ports.PatternMatcher, inputs []string) {
			runs <- run{keywords: m.Keywords(), inputs: inputs}
		},
	}

	fw := newFakeWatcher()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- ws.Watch(ctx, fw) }()

	r := nextRun(t, runs)
	assert.Equal(t, []string{"he"}, r.keywords)
	assert.Equal(t, []string{a, b}, r.inputs, "initial search covers every input")

	require.Eventually(t, func() bool { return fw.registered() == 3 }, time.Second, 5*time.Millisecond)

	t.Run("input change searches that input", func(t *testing.T) {
		fw.fire(t, b)
		r := nextRun(t, runs)
		assert.Equal(t, []string{b}, r.inputs)
		assert.Equal(t, []string{"he"}, r.keywords)
	})

	t.Run("keyword change rebuilds and searches everything", func(t *testing.T) {
		mu.Lock()
		keywords = []string{"she", "hers"}
		mu.Unlock()
		fw.fire(t, kwFile)
		r := nextRun(t, runs)
		assert.Equal(t, []string{"she", "hers"}, r.keywords)
		assert.Equal(t, []string{a, b}, r.inputs)
	})

	t.Run("failed rebuild keeps previous matcher", func(t *testing.T) {
		mu.Lock()
		buildErr = errors.New("unreadable")
		mu.Unlock()
		fw.fire(t, kwFile)
		r := nextRun(t, runs)
		assert.Equal(t, []string{"she", "hers"}, r.keywords)
	})

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
	assert.True(t, fw.isStopped())
}

func TestWatchedSearch_BuildError(t *testing.T) {
	ws := WatchedSearch{
		Build: func() (ports.PatternMatcher, error) { return nil, errors.New("boom") },
		Run:   func(ports.PatternMatcher, []string) { t.Fatal("search ran without a matcher") },
	}
	err := ws.Watch(context.Background(), newFakeWatcher())
	assert.EqualError(t, err, "boom")
}

func TestWatchedSearch_WatchErrorStopsWatcher(t *testing.T) {
	dir := t.TempDir()
	kwFile := filepath.Join(dir, "keywords.txt")
	input := filepath.Join(dir, "input.txt")
	for name, failOn := range map[string]string{"keyword file": kwFile, "input": input} {
		t.Run(name, func(t *testing.T) {
			w := newFakeWatcher()
			w.failOn = failOn
			ws := WatchedSearch{
				KeywordFile: kwFile,
				Inputs:      []string{input},
				Build:       func() (ports.PatternMatcher, error) { return automaton.New([]string{"a"}), nil },
				Run:         func(ports.PatternMatcher, []string) {},
			}
			err := ws.Watch(context.Background(), w)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "no such file")
			assert.True(t, w.isStopped())
		})
	}
}
