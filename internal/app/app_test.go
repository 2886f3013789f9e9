package app

import (
	"bytes"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/corey/kwscan/internal/adapters/bbolt"
	"github.com/corey/kwscan/internal/adapters/socket"
	"github.com/corey/kwscan/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Daemon lifecycle: stored set -> matcher -> socket (+ metrics)
// =============================================================================

func seedSet(t *testing.T, root, name string, keywords []string) {
	t.Helper()
	paths := NewPaths(root)
	require.NoError(t, paths.EnsureDirs())
	store, err := bbolt.NewStore(paths.DB)
	require.NoError(t, err)
	require.NoError(t, store.SaveSet(name, keywords))
	require.NoError(t, store.Close())
}

func TestApp_ServesStoredSet(t *testing.T) {
	root := t.TempDir()
	seedSet(t, root, "classic", []string{"he", "she", "his", "hers"})

	var logs bytes.Buffer
	a, err := New(Options{
		ProjectRoot: root,
		Set:         "classic",
		Engine:      EngineDFA,
		MetricsAddr: "127.0.0.1:0",
		LogOutput:   &logs,
	})
	require.NoError(t, err)
	assert.Equal(t, "classic", a.SetName())
	assert.Equal(t, EngineDFA, a.Engine())
	require.NoError(t, a.Start())

	_, err = os.Stat(a.Paths.PIDFile)
	assert.NoError(t, err, "PID file written")

	client := socket.NewClient(socket.SocketPath(root))
	res, err := client.Search("ushers", true)
	require.NoError(t, err)
	assert.Equal(t, []ports.Match{
		{Offset: 1, Keyword: "she"},
		{Offset: 2, Keyword: "he"},
		{Offset: 2, Keyword: "hers"},
	}, res.Matches)

	health, err := client.Health()
	require.NoError(t, err)
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, "classic", health.Set)
	assert.Equal(t, 4, health.Keywords)
	assert.Equal(t, int64(1), health.Searches)

	addr := a.MetricsAddr()
	require.NotEmpty(t, addr)
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `kwscan_searches_total{engine="dfa"} 1`)
	assert.Contains(t, string(body), "kwscan_keywords 4")

	require.NoError(t, a.Stop())
	assert.False(t, client.Ping(), "socket closed after stop")
	_, err = os.Stat(a.Paths.PIDFile)
	assert.True(t, os.IsNotExist(err), "PID file removed")
	assert.Contains(t, logs.String(), "daemon exited")
}

func TestApp_DefaultsFromConfig(t *testing.T) {
	root := t.TempDir()
	seedSet(t, root, "default", []string{"x"})

	a, err := New(Options{ProjectRoot: root, LogOutput: io.Discard})
	require.NoError(t, err)
	assert.Equal(t, "default", a.SetName())
	assert.Equal(t, EngineLazy, a.Engine())
	assert.Nil(t, a.Metrics, "metrics disabled without an address")
}

func TestApp_MissingSet(t *testing.T) {
	_, err := New(Options{ProjectRoot: t.TempDir(), Set: "nope", LogOutput: io.Discard})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `keyword set "nope" not found`)
}

func TestApp_UnknownEngine(t *testing.T) {
	_, err := New(Options{ProjectRoot: t.TempDir(), Engine: "regex", LogOutput: io.Discard})
	assert.Error(t, err)
}

func TestApp_RequiresRoot(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
