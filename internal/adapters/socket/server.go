package socket

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/corey/kwscan/internal/domain/automaton"
	"github.com/corey/kwscan/internal/ports"
)

// SearchObserver is told about every completed search.
type SearchObserver func(engine string, matches int, elapsed time.Duration)

// ServerConfig describes what the daemon is serving.
type ServerConfig struct {
	Engine   string // engine name reported by health
	Set      string // keyword set name, if loaded from the store
	Observer SearchObserver
	Logger   *slog.Logger
}

// stateCounter is implemented by matchers that expose their automaton size.
type stateCounter interface {
	StateCount() int
}

// Server is the daemon that listens on a Unix socket and serves searches
// against one immutable matcher. Connections share the matcher without locking.
type Server struct {
	matcher  ports.PatternMatcher
	cfg      ServerConfig
	logger   *slog.Logger
	listener net.Listener
	sockPath string
	started  time.Time
	searches atomic.Int64

	done         chan struct{}
	shutdownCh   chan struct{} // closed when a remote shutdown request is received
	shutdownOnce sync.Once
	stopOnce     sync.Once
	wg           sync.WaitGroup
}

// NewServer creates a daemon server backed by the given matcher.
func NewServer(matcher ports.PatternMatcher, sockPath string, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{
		matcher:    matcher,
		cfg:        cfg,
		logger:     logger,
		sockPath:   sockPath,
		done:       make(chan struct{}),
		shutdownCh: make(chan struct{}),
	}
}

// Start begins listening on the Unix socket. It handles stale sockets by
// attempting a connection first. If the connection fails, the stale socket
// is removed before binding.
func (s *Server) Start() error {
	if _, err := os.Stat(s.sockPath); err == nil {
		conn, err := net.DialTimeout("unix", s.sockPath, 500*time.Millisecond)
		if err == nil {
			conn.Close()
			return fmt.Errorf("daemon already running at %s", s.sockPath)
		}
		s.logger.Info("removing stale socket", "path", s.sockPath)
		os.Remove(s.sockPath)
	}

	ln, err := net.Listen("unix", s.sockPath)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = ln
	s.started = time.Now()
	s.logger.Info("daemon listening", "path", s.sockPath, "engine", s.cfg.Engine,
		"keywords", len(s.matcher.Keywords()))

	s.wg.Add(1)
	go s.acceptLoop()

	return nil
}

// Stop closes the listener, waits for open connections to finish and removes
// the socket file. Idempotent; safe after a remote shutdown plus a signal.
func (s *Server) Stop() error {
	s.stopOnce.Do(func() {
		close(s.done)
		if s.listener != nil {
			s.listener.Close()
		}
		s.wg.Wait()
		os.Remove(s.sockPath)
		s.logger.Info("daemon stopped", "searches", s.searches.Load())
	})
	return nil
}

// ShutdownCh returns a channel that is closed when a remote shutdown request
// is received. The daemon's main goroutine should select on this alongside
// OS signals so the process actually exits after a remote stop.
func (s *Server) ShutdownCh() <-chan struct{} {
	return s.shutdownCh
}

// Addr returns the socket path the server is listening on.
func (s *Server) Addr() string {
	return s.sockPath
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.done:
				return
			default:
				continue
			}
		}
		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

func (s *Server) handleConn(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), maxMessage)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			s.writeResponse(conn, Response{Error: "invalid request JSON"})
			continue
		}

		resp := s.handleRequest(req)
		s.writeResponse(conn, resp)

		if req.Method == MethodShutdown {
			s.logger.Info("remote shutdown requested")
			s.shutdownOnce.Do(func() { close(s.shutdownCh) })
			return
		}
	}
	if err := scanner.Err(); err != nil {
		s.logger.Warn("connection read failed", "err", err)
	}
}

func (s *Server) handleRequest(req Request) Response {
	switch req.Method {
	case MethodSearch:
		return s.handleSearch(req)
	case MethodKeywords:
		kws := s.matcher.Keywords()
		return Response{ID: req.ID, Result: KeywordsResult{Keywords: kws, Count: len(kws)}}
	case MethodHealth:
		return s.handleHealth(req)
	case MethodShutdown:
		return Response{ID: req.ID, Result: struct{}{}}
	default:
		return Response{ID: req.ID, Error: fmt.Sprintf("unknown method: %s", req.Method)}
	}
}

func (s *Server) handleSearch(req Request) Response {
	// Re-marshal params to decode into SearchParams
	paramsJSON, err := json.Marshal(req.Params)
	if err != nil {
		return Response{ID: req.ID, Error: "invalid search params"}
	}
	var params SearchParams
	if err := json.Unmarshal(paramsJSON, &params); err != nil {
		return Response{ID: req.ID, Error: "invalid search params"}
	}

	start := time.Now()
	matches := s.matcher.SearchIn(params.Text)
	if params.Sorted {
		automaton.SortMatches(matches)
	}
	elapsed := time.Since(start)

	s.searches.Add(1)
	if s.cfg.Observer != nil {
		s.cfg.Observer(s.cfg.Engine, len(matches), elapsed)
	}
	s.logger.Debug("search", "bytes", len(params.Text), "matches", len(matches), "elapsed", elapsed)

	if matches == nil {
		matches = []ports.Match{}
	}
	return Response{
		ID: req.ID,
		Result: SearchResult{
			Matches: matches,
			Count:   len(matches),
			Elapsed: elapsed.String(),
		},
	}
}

func (s *Server) handleHealth(req Request) Response {
	result := HealthResult{
		Status:   "ok",
		Engine:   s.cfg.Engine,
		Set:      s.cfg.Set,
		Keywords: len(s.matcher.Keywords()),
		Searches: s.searches.Load(),
		Uptime:   time.Since(s.started).Round(time.Second).String(),
	}
	if sc, ok := s.matcher.(stateCounter); ok {
		result.States = sc.StateCount()
	}
	return Response{ID: req.ID, Result: result}
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	data = append(data, '\n')
	conn.Write(data)
}
