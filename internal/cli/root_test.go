package cli

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	t.Run("registers serve and migrate", func(t *testing.T) {
		names := []string{}
		for _, c := range rootCmd.Commands() {
			names = append(names, c.Name())
		}
		assert.Contains(t, names, "serve")
		assert.Contains(t, names, "migrate")
	})

	t.Run("help runs without error", func(t *testing.T) {
		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs([]string{"--help"})
		t.Cleanup(func() { rootCmd.SetArgs(nil) })

		require.NoError(t, Execute())
		assert.Contains(t, out.String(), "serve")
	})

	t.Run("serve fails fast on invalid configuration", func(t *testing.T) {
		t.Setenv("HF_TOKEN", "")
		t.Setenv("STORAGE", "sqlite")

		var out bytes.Buffer
		rootCmd.SetOut(&out)
		rootCmd.SetErr(&out)
		rootCmd.SetArgs([]string{"serve"})
		t.Cleanup(func() { rootCmd.SetArgs(nil) })

		err := Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HF_TOKEN is required")
		assert.Contains(t, err.Error(), "STORAGE must be")
	})
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, "warn", "json")

	logger.Info("hidden")
	logger.Warn("shown", "id", "e1")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "shown", line["msg"])
	assert.Equal(t, "e1", line["id"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
