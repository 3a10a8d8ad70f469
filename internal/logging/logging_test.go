package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestOpenWritesJSONLines(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "chatwidget.log")
	log, closer, err := Open(path, "debug")
	require.NoError(t, err)
	log.Debug().Str("seq", "1").Msg("chat request")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), `"message":"chat request"`)
	require.Contains(t, string(data), `"app":"chatwidget"`)
}

func TestOpenDisabled(t *testing.T) {
	t.Parallel()

	log, closer, err := Open("-", "info")
	require.NoError(t, err)
	require.Equal(t, zerolog.Disabled, log.GetLevel())
	require.NoError(t, closer.Close())
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	lvl, err := ParseLevel("")
	require.NoError(t, err)
	require.Equal(t, zerolog.InfoLevel, lvl)
	lvl, err = ParseLevel("WARN")
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, lvl)
	_, err = ParseLevel("loud")
	require.Error(t, err)
}
