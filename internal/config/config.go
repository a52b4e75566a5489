// Package config manages gitgame configuration and its home directory.
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ahnaineh/GITGAME/internal/level"
	"github.com/ahnaineh/GITGAME/internal/store"
	"github.com/pelletier/go-toml/v2"
)

const (
	HomeDir    = ".gitgame"
	ConfigFile = "config"
	HomeEnv    = "GITGAME_HOME"
)

// Config represents the gitgame configuration
type Config struct {
	StoreDriver string `toml:"store_driver"`         // bolt or sqlite
	LevelPack   string `toml:"level_pack,omitempty"` // YAML file replacing the embedded missions
	Color       bool   `toml:"color"`
	LogLevel    string `toml:"log_level"`
	LogFormat   string `toml:"log_format"`
	Listen      string `toml:"listen"`
	path        string // home directory
}

// Default returns the configuration used when no file exists
func Default() *Config {
	return &Config{
		StoreDriver: store.DriverBolt,
		Color:       true,
		LogLevel:    "warn",
		LogFormat:   "text",
		Listen:      "127.0.0.1:8730",
	}
}

// Home returns the gitgame home directory, honoring GITGAME_HOME
func Home() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, HomeDir), nil
}

// Load reads the configuration from the home directory. A missing file
// yields the defaults.
func Load() (*Config, error) {
	dir, err := Home()
	if err != nil {
		return nil, err
	}
	return LoadFrom(dir)
}

// LoadFrom reads the configuration stored in dir
func LoadFrom(dir string) (*Config, error) {
	cfg := Default()
	cfg.path = dir

	data, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the rest of the program cannot use
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case store.DriverBolt, store.DriverSQLite:
	default:
		return fmt.Errorf("unsupported store_driver %q", c.StoreDriver)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported log_format %q", c.LogFormat)
	}
	return nil
}

// Save writes the configuration to disk
func (c *Config) Save() error {
	if err := os.MkdirAll(c.path, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", c.path, err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	return os.WriteFile(filepath.Join(c.path, ConfigFile), data, 0644)
}

// Initialize writes a default configuration into dir
func Initialize(dir string) (*Config, error) {
	if _, err := os.Stat(filepath.Join(dir, ConfigFile)); err == nil {
		return nil, fmt.Errorf("gitgame is already configured in %s", dir)
	}

	cfg := Default()
	cfg.path = dir
	if err := cfg.Save(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the home directory this configuration belongs to
func (c *Config) Path() string {
	return c.path
}

// SetPath points the configuration at another home directory
func (c *Config) SetPath(dir string) {
	c.path = dir
}

// DatabasePath returns the session database file for the configured driver
func (c *Config) DatabasePath() string {
	if c.StoreDriver == store.DriverSQLite {
		return filepath.Join(c.path, "gitgame.sqlite")
	}
	return filepath.Join(c.path, "gitgame.db")
}

// OpenStore opens the configured session store
func (c *Config) OpenStore() (store.Store, error) {
	return store.Open(c.StoreDriver, c.DatabasePath())
}

// Pack returns the configured level pack, or the embedded one
func (c *Config) Pack() (*level.Pack, error) {
	if c.LevelPack == "" {
		return level.DefaultPack(), nil
	}

	path := c.LevelPack
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.path, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level pack: %w", err)
	}
	return level.LoadPack(bytes.NewReader(data))
}
