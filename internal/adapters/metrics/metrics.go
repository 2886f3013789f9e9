// Package metrics exports daemon search statistics in Prometheus format.
// Collectors live on a private registry so that several daemons, or tests,
// never collide on the global default registry.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	statSearches = "kwscan_searches_total"
	statMatches  = "kwscan_matches_total"
	statDuration = "kwscan_search_duration_seconds"
	statKeywords = "kwscan_keywords"
)

var engineLabels = []string{"engine"}

// Metrics holds the daemon's collectors.
type Metrics struct {
	registry *prometheus.Registry
	searches *prometheus.CounterVec
	matches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	keywords prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		searches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: statSearches,
				Help: "Searches served.",
			}, engineLabels),
		matches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: statMatches,
				Help: "Keyword occurrences reported.",
			}, engineLabels),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    statDuration,
				Help:    "Time spent matching one request.",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			}, engineLabels),
		keywords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: statKeywords,
				Help: "Keywords loaded in the serving matcher.",
			}),
	}
	m.registry.MustRegister(m.searches, m.matches, m.duration, m.keywords)
	return m
}

// ObserveSearch records one search. Its signature matches
// socket.SearchObserver.
func (m *Metrics) ObserveSearch(engine string, matches int, elapsed time.Duration) {
	m.searches.WithLabelValues(engine).Inc()
	m.matches.WithLabelValues(engine).Add(float64(matches))
	m.duration.WithLabelValues(engine).Observe(elapsed.Seconds())
}

// SetKeywords records the size of the loaded keyword set.
func (m *Metrics) SetKeywords(n int) {
	m.keywords.Set(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Server is a running /metrics endpoint.
type Server struct {
	srv *http.Server
	ln  net.Listener
}

// Serve starts an HTTP server exposing /metrics on addr. Use ":0" for an
// ephemeral port; Addr reports the bound address.
func (m *Metrics) Serve(addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())

	s := &Server{
		srv: &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second},
		ln:  ln,
	}
	go func() {
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			ln.Close()
		}
	}()
	return s, nil
}

// Addr returns the listening address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close stops the endpoint, waiting briefly for in-flight scrapes.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
