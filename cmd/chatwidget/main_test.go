package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSendPrintsReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(map[string]string{"reply": "echo: " + req.Message})
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CHATWIDGET_CONFIG", cfgPath)
	out, err := run(t, "--config", cfgPath, "--endpoint", srv.URL, "send", "which", "format?")
	require.NoError(t, err)
	require.Equal(t, "echo: which format?\n", out)
}

func TestSendReportsMalformedReply(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "config.toml")
	t.Setenv("CHATWIDGET_CONFIG", cfgPath)
	_, err := run(t, "--config", cfgPath, "--endpoint", srv.URL, "send", "hi")
	require.ErrorContains(t, err, "malformed reply")
}

func TestConfigInitWritesOnce(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "cfg", "config.toml")
	t.Setenv("CHATWIDGET_CONFIG", cfgPath)

	out, err := run(t, "config", "init")
	require.NoError(t, err)
	require.Contains(t, out, cfgPath)
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "base_url")

	_, err = run(t, "config", "init")
	require.ErrorContains(t, err, "already exists")

	_, err = run(t, "config", "init", "--force")
	require.NoError(t, err)
}
