package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shohag/countboard/internal/api"
	"github.com/shohag/countboard/internal/config"
	"github.com/shohag/countboard/internal/storage"
)

func newTestAPI(t *testing.T) string {
	t.Helper()

	store, err := storage.NewSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	ts := httptest.NewServer(api.NewServer(config.ServerConfig{}, store, zerolog.Nop()).Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCounterCommands(t *testing.T) {
	chdir(t, t.TempDir())
	url := newTestAPI(t)

	out, err := run(t, "--api-url", url, "counter", "inc")
	require.NoError(t, err)
	assert.Equal(t, "1\n", out)

	out, err = run(t, "--api-url", url, "counter", "set", "42")
	require.NoError(t, err)
	assert.Equal(t, "42\n", out)

	out, err = run(t, "--api-url", url, "counter", "dec")
	require.NoError(t, err)
	assert.Equal(t, "41\n", out)

	out, err = run(t, "--api-url", url, "counter", "reset")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, "--api-url", url, "counter", "set", "lots")
	assert.Error(t, err)
}

func TestMessageCommands(t *testing.T) {
	chdir(t, t.TempDir())
	url := newTestAPI(t)

	out, err := run(t, "--api-url", url, "messages", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No messages found.")

	_, err = run(t, "--api-url", url, "messages", "add", "hello", "world")
	require.NoError(t, err)

	out, err = run(t, "--api-url", url, "messages", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "hello world")

	_, err = run(t, "--api-url", url, "messages", "delete", "99")
	assert.EqualError(t, err, "API Error: 404 Not Found")

	out, err = run(t, "--api-url", url, "messages", "clear")
	require.NoError(t, err)
	assert.Equal(t, "all messages deleted\n", out)
}

func TestHealthCommand(t *testing.T) {
	chdir(t, t.TempDir())
	url := newTestAPI(t)

	out, err := run(t, "--api-url", url, "health")
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "healthy"`)
}

func TestConfigInitAndVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countboard.yaml")

	out, err := run(t, "config", "init", path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "wrote "))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.WebModeLocal, cfg.Web.Mode)

	out, err = run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "Countboard v"+version+"\n", out)
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(wd); err != nil {
			t.Fatal(err)
		}
	})
}
