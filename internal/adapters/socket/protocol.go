// Package socket implements a JSON-over-Unix-socket protocol for the kwscan daemon.
// The protocol uses newline-delimited JSON: each message is one JSON object + \n.
package socket

import (
	"crypto/sha256"
	"fmt"
	"path/filepath"

	"github.com/corey/kwscan/internal/ports"
)

// maxMessage bounds a single request or response line.
const maxMessage = 16 * 1024 * 1024

// SocketPath returns the Unix socket path for a given project root.
// Format: /tmp/kwscan-{first12hex}.sock
func SocketPath(projectRoot string) string {
	abs, err := filepath.Abs(projectRoot)
	if err != nil {
		abs = projectRoot
	}
	h := sha256.Sum256([]byte(abs))
	return fmt.Sprintf("/tmp/kwscan-%x.sock", h[:6])
}

// Method names for the protocol.
const (
	MethodSearch   = "search"
	MethodKeywords = "keywords"
	MethodHealth   = "health"
	MethodShutdown = "shutdown"
)

// Request is the wire format for client-to-server messages.
type Request struct {
	ID     string      `json:"id"`
	Method string      `json:"method"`
	Params interface{} `json:"params,omitempty"`
}

// Response is the wire format for server-to-client messages.
type Response struct {
	ID     string      `json:"id"`
	Result interface{} `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// SearchParams is the params for a search request.
type SearchParams struct {
	Text   string `json:"text"`
	Sorted bool   `json:"sorted,omitempty"`
}

// SearchResult is the result of a search request.
type SearchResult struct {
	Matches []ports.Match `json:"matches"`
	Count   int           `json:"count"`
	Elapsed string        `json:"elapsed"`
}

// KeywordsResult is the result of a keywords request.
type KeywordsResult struct {
	Keywords []string `json:"keywords"`
	Count    int      `json:"count"`
}

// HealthResult is the result of a health request.
type HealthResult struct {
	Status   string `json:"status"`
	Engine   string `json:"engine"`
	Set      string `json:"set,omitempty"`
	Keywords int    `json:"keywords"`
	States   int    `json:"states,omitempty"`
	Searches int64  `json:"searches"`
	Uptime   string `json:"uptime"`
}
