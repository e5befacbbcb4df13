package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	require.Nil(t, cfg.Click.Duration)
	require.Nil(t, cfg.Storage.Path)
}

func TestLoadConfigSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[click]
duration = 10

[typing]
duration = 30
words = 40
wordlist = "/tmp/en.txt"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Click.Duration)
	require.Equal(t, 10, *cfg.Click.Duration)
	require.Nil(t, cfg.Spacebar.Duration)
	require.Equal(t, 30, *cfg.Typing.Duration)
	require.Equal(t, 40, *cfg.Typing.Words)
	require.Equal(t, "/tmp/en.txt", *cfg.Typing.WordList)
	require.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[click]\nspeed = 3\n"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorContains(t, err, "click.speed")
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	require.Equal(t, filepath.Join(dir, "cfg", "reflex", "config.toml"), DefaultConfigPath())
	require.Equal(t, filepath.Join(dir, "data", "reflex", "reflex.db"), DefaultDBPath())
	require.Equal(t, filepath.Join(dir, "state", "reflex", "reflex.log"), DefaultLogPath())
}
