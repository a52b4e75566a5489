package config

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ahnaineh/GITGAME/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_Env(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	home, err := Home()
	require.NoError(t, err)
	assert.Equal(t, dir, home)
}

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default().StoreDriver, cfg.StoreDriver)
	assert.Equal(t, dir, cfg.Path())
	assert.Equal(t, filepath.Join(dir, "gitgame.db"), cfg.DatabasePath())
}

func TestInitializeSaveLoad(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "home")

	cfg, err := Initialize(dir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, ConfigFile))

	_, err = Initialize(dir)
	assert.Error(t, err)

	cfg.StoreDriver = store.DriverSQLite
	cfg.LogLevel = "debug"
	cfg.Color = false
	require.NoError(t, cfg.Save())

	loaded, err := LoadFrom(dir)
	require.NoError(t, err)
	assert.Equal(t, store.DriverSQLite, loaded.StoreDriver)
	assert.Equal(t, "debug", loaded.LogLevel)
	assert.False(t, loaded.Color)
	assert.Equal(t, filepath.Join(dir, "gitgame.sqlite"), loaded.DatabasePath())
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad toml", "store_driver = "},
		{"bad driver", `store_driver = "postgres"`},
		{"bad format", "store_driver = \"bolt\"\nlog_format = \"xml\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFile), []byte(tt.content), 0644))
			_, err := LoadFrom(dir)
			assert.Error(t, err)
		})
	}
}

func TestPack(t *testing.T) {
	dir := t.TempDir()
	cfg := Default()
	cfg.SetPath(dir)

	pack, err := cfg.Pack()
	require.NoError(t, err)
	assert.NotEmpty(t, pack.Levels)

	custom := `
levels:
  - id: 1
    title: Only
    chapter: One
    steps:
      - id: init
        text: Run git init.
        check: {action: init}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pack.yaml"), []byte(custom), 0644))
	cfg.LevelPack = "pack.yaml"

	pack, err = cfg.Pack()
	require.NoError(t, err)
	require.Len(t, pack.Levels, 1)
	assert.Equal(t, "Only", pack.Levels[0].Title)

	cfg.LevelPack = "missing.yaml"
	_, err = cfg.Pack()
	assert.Error(t, err)
}

func TestOpenStore(t *testing.T) {
	cfg := Default()
	cfg.SetPath(t.TempDir())

	st, err := cfg.OpenStore()
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogger(&buf, "warn", "json")
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"msg":"shown"`)

	buf.Reset()
	NewLogger(&buf, "debug", "text").Debug("detail")
	assert.Contains(t, buf.String(), "msg=detail")
}
