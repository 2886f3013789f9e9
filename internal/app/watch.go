package app

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/corey/kwscan/internal/ports"
)

// WatchedSearch re-runs a search whenever its inputs change. A change to
// KeywordFile builds a fresh matcher; a change to an input re-runs the
// search with the current one. Matchers are never modified in place.
type WatchedSearch struct {
	KeywordFile string   // optional
	Inputs      []string // files to search
	Build       func() (ports.PatternMatcher, error)
	Run         func(ports.PatternMatcher, []string)
	Logger      *slog.Logger
}

// Watch performs an initial search, then repeats it on every change until
// ctx is cancelled. Run receives the inputs that changed, or all inputs
// after a rebuild. Events arriving while a search runs are batched into
// the next one.
func (ws WatchedSearch) Watch(ctx context.Context, w ports.Watcher) error {
	logger := ws.Logger
	if logger == nil {
		logger = slog.Default()
	}
	matcher, err := ws.Build()
	if err != nil {
		return err
	}
	ws.Run(matcher, ws.Inputs)

	var (
		mu      sync.Mutex
		pending = make(map[string]bool)
		wake    = make(chan struct{}, 1)
	)
	notify := func(path string) {
		mu.Lock()
		pending[path] = true
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	}

	keywordFile := ""
	if ws.KeywordFile != "" {
		keywordFile, _ = filepath.Abs(ws.KeywordFile)
		if err := w.Watch(ws.KeywordFile, notify); err != nil {
			w.Stop()
			return err
		}
	}
	for _, in := range ws.Inputs {
		if err := w.Watch(in, notify); err != nil {
			w.Stop()
			return err
		}
	}
	defer w.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-wake:
		}

		mu.Lock()
		changed := pending
		pending = make(map[string]bool)
		mu.Unlock()

		if keywordFile != "" && changed[keywordFile] {
			next, err := ws.Build()
			if err != nil {
				logger.Warn("keeping previous keywords", "err", err)
			} else {
				matcher = next
				logger.Info("keywords reloaded", "count", len(matcher.Keywords()))
			}
			ws.Run(matcher, ws.Inputs)
			continue
		}

		var inputs []string
		for _, in := range ws.Inputs {
			abs, _ := filepath.Abs(in)
			if changed[abs] {
				inputs = append(inputs, in)
			}
		}
		if len(inputs) > 0 {
			ws.Run(matcher, inputs)
		}
	}
}
