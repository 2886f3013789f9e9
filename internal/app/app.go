// Package app wires the keyword matcher to storage, configuration and the
// daemon. The CLI builds on it; domain packages never import it.
package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/corey/kwscan/internal/adapters/bbolt"
	"github.com/corey/kwscan/internal/adapters/metrics"
	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/corey/kwscan/internal/ports"
)

// Options holds initialization parameters for the App. Zero fields fall
// back to the project's config.toml.
type Options struct {
	ProjectRoot string
	Set         string    // keyword set to serve
	Engine      string    // matcher engine
	MetricsAddr string    // Prometheus endpoint, "" to use config
	LogOutput   io.Writer // default: .kwscan/log/daemon.log
}

// App is a daemon serving one keyword set over the project socket.
type App struct {
	ProjectRoot string
	Paths       *Paths
	Config      *Config
	Logger      *slog.Logger
	Matcher     ports.PatternMatcher
	Server      *socket.Server
	Metrics     *metrics.Metrics

	set        string
	engine     string
	metricsSrv *metrics.Server
	logFile    *os.File
	started    time.Time
}

// New loads configuration and the keyword set and builds the matcher and
// server. Does not start listening. The store is only held open while the
// set is read, so "kwscan set" keeps working while the daemon runs.
func New(opts Options) (*App, error) {
	if opts.ProjectRoot == "" {
		return nil, fmt.Errorf("project root required")
	}
	paths := NewPaths(opts.ProjectRoot)
	if err := paths.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create %s: %w", paths.Root, err)
	}
	cfg, err := LoadConfig(paths.Config)
	if err != nil {
		return nil, err
	}

	a := &App{
		ProjectRoot: opts.ProjectRoot,
		Paths:       paths,
		Config:      cfg,
		set:         firstNonEmpty(opts.Set, cfg.Daemon.Set),
		engine:      firstNonEmpty(opts.Engine, cfg.Engine),
	}
	if !ValidEngine(a.engine) {
		return nil, fmt.Errorf("unknown engine %q", a.engine)
	}

	out := opts.LogOutput
	if out == nil {
		f, err := os.OpenFile(paths.DaemonLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("open daemon log: %w", err)
		}
		a.logFile = f
		out = f
	}
	a.Logger = NewLogger(out, cfg.Level()).With("set", a.set, "engine", a.engine)

	keywords, err := a.loadSet()
	if err != nil {
		a.closeLog()
		return nil, err
	}
	a.Matcher, err = NewMatcher(a.engine, keywords, a.Logger)
	if err != nil {
		a.closeLog()
		return nil, err
	}

	serverCfg := socket.ServerConfig{Engine: a.engine, Set: a.set, Logger: a.Logger}
	if addr := firstNonEmpty(opts.MetricsAddr, cfg.Daemon.MetricsAddr); addr != "" {
		a.Metrics = metrics.New()
		a.Metrics.SetKeywords(len(a.Matcher.Keywords()))
		serverCfg.Observer = a.Metrics.ObserveSearch
		cfg.Daemon.MetricsAddr = addr
	}
	a.Server = socket.NewServer(a.Matcher, socket.SocketPath(opts.ProjectRoot), serverCfg)
	return a, nil
}

func (a *App) loadSet() ([]string, error) {
	store, err := bbolt.NewStore(a.Paths.DB)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	keywords, err := KeywordSource{Set: a.set}.Resolve(store)
	if err != nil {
		return nil, err
	}
	return keywords, nil
}

// Start begins serving: the socket server, then the metrics endpoint if
// configured. A metrics failure is logged, not fatal.
func (a *App) Start() error {
	a.started = time.Now()
	if err := a.Server.Start(); err != nil {
		return fmt.Errorf("start server: %w", err)
	}
	if a.Metrics != nil {
		srv, err := a.Metrics.Serve(a.Config.Daemon.MetricsAddr)
		if err != nil {
			a.Logger.Warn("metrics endpoint unavailable", "addr", a.Config.Daemon.MetricsAddr, "err", err)
		} else {
			a.metricsSrv = srv
			os.WriteFile(a.Paths.MetricsFile, []byte(srv.Addr()), 0644)
			a.Logger.Info("metrics listening", "addr", srv.Addr())
		}
	}
	os.WriteFile(a.Paths.PIDFile, []byte(strconv.Itoa(os.Getpid())), 0644)
	return nil
}

// Stop shuts down every service and removes runtime files.
func (a *App) Stop() error {
	if a.metricsSrv != nil {
		a.metricsSrv.Close()
	}
	a.Server.Stop()
	a.Paths.CleanEphemeral()
	a.Logger.Info("daemon exited", "uptime", time.Since(a.started).Round(time.Second).String())
	a.closeLog()
	return nil
}

// SetName returns the keyword set being served.
func (a *App) SetName() string { return a.set }

// Engine returns the engine name being served.
func (a *App) Engine() string { return a.engine }

// MetricsAddr returns the bound metrics address, or "" when disabled.
func (a *App) MetricsAddr() string {
	if a.metricsSrv == nil {
		return ""
	}
	return a.metricsSrv.Addr()
}

func (a *App) closeLog() {
	if a.logFile != nil {
		a.logFile.Close()
		a.logFile = nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
