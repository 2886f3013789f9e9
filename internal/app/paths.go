package app

import (
	"os"
	"path/filepath"
)

// Paths holds all resolved filesystem paths for the .kwscan/ project directory.
// All fields are pre-computed strings, so access after construction is free.
type Paths struct {
	Root   string // .kwscan/
	DB     string // .kwscan/kwscan.db
	Config string // .kwscan/config.toml

	LogDir    string // .kwscan/log/
	DaemonLog string // .kwscan/log/daemon.log

	RunDir      string // .kwscan/run/
	PIDFile     string // .kwscan/run/daemon.pid
	MetricsFile string // .kwscan/run/metrics.addr
}

// NewPaths constructs all resolved paths from a project root directory.
func NewPaths(projectRoot string) *Paths {
	root := filepath.Join(projectRoot, ".kwscan")
	return &Paths{
		Root:   root,
		DB:     filepath.Join(root, "kwscan.db"),
		Config: filepath.Join(root, "config.toml"),

		LogDir:    filepath.Join(root, "log"),
		DaemonLog: filepath.Join(root, "log", "daemon.log"),

		RunDir:      filepath.Join(root, "run"),
		PIDFile:     filepath.Join(root, "run", "daemon.pid"),
		MetricsFile: filepath.Join(root, "run", "metrics.addr"),
	}
}

// EnsureDirs creates all subdirectories under .kwscan/. Idempotent.
func (p *Paths) EnsureDirs() error {
	for _, d := range []string{p.Root, p.LogDir, p.RunDir} {
		if err := os.MkdirAll(d, 0755); err != nil {
			return err
		}
	}
	return nil
}

// CleanEphemeral removes runtime files (PID file and metrics address).
// Called on clean daemon shutdown.
func (p *Paths) CleanEphemeral() {
	os.Remove(p.PIDFile)
	os.Remove(p.MetricsFile)
}
