// Package fsnotify implements the ports.Watcher interface using github.com/fsnotify/fsnotify.
// It watches either a directory tree or single files, filters out VCS and editor
// noise, and debounces rapid events (editors often trigger multiple writes per save).
package fsnotify

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Directories to ignore when watching a tree.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	".idea":        true,
	".vscode":      true,
	".kwscan":      true,
}

// File names/suffixes to ignore.
var ignoreFiles = map[string]bool{
	".DS_Store": true,
	".swp":      true,
	".swx":      true,
	"~":         true,
}

const debounceInterval = 50 * time.Millisecond

// target is one Watch registration. A file target reports only events for
// file; a tree target reports everything under dir that isn't ignored.
type target struct {
	dir      string
	file     string
	onChange func(string)
}

func (t target) matches(path string) bool {
	if t.file != "" {
		return path == t.file
	}
	if path != t.dir && !strings.HasPrefix(path, t.dir+string(filepath.Separator)) {
		return false
	}
	return !shouldIgnorePath(strings.TrimPrefix(path, t.dir))
}

// Watcher implements ports.Watcher using fsnotify. Watch may be called
// several times; all registrations share one fsnotify handle and one event
// loop.
type Watcher struct {
	fw      *fsnotify.Watcher
	done    chan struct{}
	start   sync.Once
	stopped bool
	targets []target
	mu      sync.Mutex
}

// NewWatcher creates a new file system watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		fw:   fw,
		done: make(chan struct{}),
	}, nil
}

// Watch starts monitoring path, a directory (recursively) or a single file.
// onChange is called with the absolute path of each changed file.
func (w *Watcher) Watch(path string, onChange func(filePath string)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return err
	}

	t := target{dir: absPath, onChange: onChange}
	if info.IsDir() {
		err = w.addTree(absPath)
	} else {
		// Watch the parent so that editors replacing the file by rename
		// keep being observed.
		t.dir, t.file = filepath.Dir(absPath), absPath
		err = w.fw.Add(t.dir)
	}
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.targets = append(w.targets, t)
	w.mu.Unlock()

	w.start.Do(func() { go w.loop() })
	return nil
}

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // skip inaccessible paths
		}
		if info.IsDir() {
			if shouldIgnoreDir(info.Name()) && path != root {
				return filepath.SkipDir
			}
			return w.fw.Add(path)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	// Debounce state: last event time per file
	debounce := make(map[string]time.Time)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			path := event.Name

			// New directories inside a watched tree join the watch list
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(path); err == nil && info.IsDir() && !shouldIgnoreDir(info.Name()) {
					w.fw.Add(path)
				}
			}

			if !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
				continue
			}

			now := time.Now()
			if last, seen := debounce[path]; seen && now.Sub(last) < debounceInterval {
				continue
			}
			debounce[path] = now

			w.mu.Lock()
			if w.stopped {
				w.mu.Unlock()
				return
			}
			var fire []func(string)
			for _, t := range w.targets {
				if t.matches(path) {
					fire = append(fire, t.onChange)
				}
			}
			w.mu.Unlock()

			for _, fn := range fire {
				fn(path)
			}

		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Errors are swallowed; fsnotify recovers automatically

		case <-w.done:
			return
		}
	}
}

// Stop ends monitoring and releases all resources.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}

// shouldIgnoreDir returns true if the directory name should be skipped.
func shouldIgnoreDir(name string) bool {
	return ignoreDirs[name]
}

// shouldIgnorePath returns true if a path relative to a watched tree should
// not trigger onChange.
func shouldIgnorePath(path string) bool {
	base := filepath.Base(path)

	if ignoreFiles[base] {
		return true
	}
	for suffix := range ignoreFiles {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}

	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if ignoreDirs[part] {
			return true
		}
	}
	return false
}
