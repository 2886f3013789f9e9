package ports

// Watcher reports changes to a file or directory tree. Used to re-run a
// search when its input or its keyword file changes.
type Watcher interface {
	// Watch starts monitoring path. A directory is watched recursively,
	// skipping VCS and dependency directories. A regular file is watched
	// through its parent directory and only events for that file are
	// reported. onChange receives the absolute path of the changed file and
	// may be invoked from any goroutine. Returns an error if path doesn't
	// exist or permissions are insufficient.
	Watch(path string, onChange func(filePath string)) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
