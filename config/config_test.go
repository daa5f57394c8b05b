package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/minaorangina/rundown/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var keys = []string{
	"RUNDOWN_ADDR",
	"RUNDOWN_ROUND_SECONDS",
	"RUNDOWN_START_DELAY",
	"RUNDOWN_TURN_DELAY",
	"RUNDOWN_END_DELAY",
	"RUNDOWN_LOG_LEVEL",
	"RUNDOWN_DEV",
}

// clearEnv unsets every RUNDOWN_ variable for the length of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.Equal(t, ":8000", cfg.Addr)
		assert.Equal(t, 180, cfg.RoundSeconds)
		assert.Equal(t, 500*time.Millisecond, cfg.TurnDelay)
	})

	t.Run("from the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RUNDOWN_ADDR", ":9000")
		t.Setenv("RUNDOWN_ROUND_SECONDS", "60")
		t.Setenv("RUNDOWN_TURN_DELAY", "2s")
		t.Setenv("RUNDOWN_DEV", "true")

		cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Addr)
		assert.Equal(t, 60, cfg.RoundSeconds)
		assert.Equal(t, 2*time.Second, cfg.TurnDelay)
		assert.Equal(t, time.Second, cfg.StartDelay)
		assert.True(t, cfg.Dev)
	})

	t.Run("from a .env file, without overriding the environment", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RUNDOWN_ADDR", ":7000")

		path := filepath.Join(t.TempDir(), "test.env")
		contents := "RUNDOWN_ADDR=:1234\nRUNDOWN_LOG_LEVEL=debug\n"
		require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
		t.Cleanup(func() { os.Unsetenv("RUNDOWN_LOG_LEVEL") })

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, ":7000", cfg.Addr)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("rejects nonsense", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("RUNDOWN_ROUND_SECONDS", "0")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "shouty"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	cfg = Default()
	cfg.EndDelay = 0
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)

	assert.NoError(t, Default().Validate())
}

func TestGameOpts(t *testing.T) {
	cfg := Default()
	cfg.RoundSeconds = 30
	cfg.EndDelay = 5 * time.Second

	opts := cfg.GameOpts()
	assert.Equal(t, 30, opts.RoundSeconds)
	assert.Equal(t, 5*time.Second, opts.EndDelay)

	m := game.New(opts)
	assert.Equal(t, 30, m.Snapshot().Context.TimeRemaining)
}

func TestLogger(t *testing.T) {
	cfg := Default()
	cfg.Dev = true
	cfg.LogLevel = "warn"

	log, err := cfg.Logger()
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(-1))
	assert.True(t, log.Core().Enabled(1))
}
