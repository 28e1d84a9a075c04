package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestConfigureWritesFile(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "app.log")
	closer := Configure(zerolog.InfoLevel, path)

	log.Debug().Msg("hidden")
	log.Error().Stack().Err(errors.New("boom")).Msg("visible")
	require.NoError(closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(err)
	require.Contains(string(data), "visible")
	require.Contains(string(data), "boom")
	require.Contains(string(data), `"stack"`)
	require.NotContains(string(data), "hidden")
}

func TestConfigureConsoleOnly(t *testing.T) {
	closer := Configure(zerolog.WarnLevel, "")
	require.NoError(t, closer.Close())
	require.Equal(t, zerolog.WarnLevel, log.Logger.GetLevel())
}
