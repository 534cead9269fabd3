package cli

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/MapBot_Go/internal/config"
)

// execute runs the command tree against a throwaway SQLite store
func execute(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()

	prevLoad, prevLog := loadConfig, slog.Default()
	loadConfig = func() (*config.Config, error) { return cfg, nil }
	t.Cleanup(func() {
		loadConfig = prevLoad
		slog.SetDefault(prevLog)
	})

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DBDriver:   config.DriverSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "mapbot.db"),
		LogLevel:   "error",
		LogFormat:  "text",
		Economy:    config.DefaultEconomy(),
	}
}

func TestVersion(t *testing.T) {
	out, err := execute(t, sqliteConfig(t), "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "mapbot "), out)
	assert.Contains(t, out, "commit")
}

func TestMigrate(t *testing.T) {
	cfg := sqliteConfig(t)

	out, err := execute(t, cfg, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
	assert.NotContains(t, out, "applied")

	out, err = execute(t, cfg, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, MsgMigrationsDone)

	out, err = execute(t, cfg, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "00001_create_profile.sql")
	assert.Contains(t, out, "00002_create_map_collection.sql")
	assert.NotContains(t, out, "pending")

	out, err = execute(t, cfg, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, MsgMigrationUndone)

	out, err = execute(t, cfg, "migrate", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "applied")
}

func TestMigrate_BadDriverConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.SQLitePath = filepath.Join(t.TempDir(), "missing", "dir", "mapbot.db")

	_, err := execute(t, cfg, "migrate", "up")
	assert.Error(t, err)
}

func TestRun_RequiresSchemaVersion(t *testing.T) {
	t.Setenv(config.EnvSchemaVersion, "")

	_, err := execute(t, sqliteConfig(t), "run")
	assert.Error(t, err)
}

func TestWaitForDB(t *testing.T) {
	t.Run("ready store", func(t *testing.T) {
		out, err := execute(t, sqliteConfig(t), "wait-for-db", "--retries", "1")
		require.NoError(t, err)
		assert.Contains(t, out, MsgDatabaseReady)
	})

	t.Run("gives up", func(t *testing.T) {
		cfg := sqliteConfig(t)
		cfg.SQLitePath = filepath.Join(t.TempDir(), "missing", "mapbot.db")

		out, err := execute(t, cfg, "wait-for-db", "--retries", "2", "--interval", "1ms")
		require.Error(t, err)
		assert.Contains(t, out, "(2/2)")
	})
}
