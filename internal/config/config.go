// ABOUTME: Geoedit configuration management with backend selection
// ABOUTME: Handles settings, .env loading, style overrides, and storage backend factory

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/geoedit/internal/editing"
	"github.com/harper/geoedit/internal/storage"
	"github.com/joho/godotenv"
	"github.com/natefinch/atomic"
)

// Environment variables that override the config file.
const (
	EnvBackend     = "GEOEDIT_BACKEND"
	EnvDataDir     = "GEOEDIT_DATA_DIR"
	EnvPostgresDSN = "GEOEDIT_POSTGRES_DSN"
	EnvLogLevel    = "GEOEDIT_LOG_LEVEL"
)

// Backends accepted by OpenStorage.
const (
	BackendSQLite   = "sqlite"
	BackendBadger   = "badger"
	BackendPostgres = "postgres"
)

// Config stores geoedit configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default), "badger" or "postgres".
	Backend string `json:"backend,omitempty"`

	// DataDir is the root directory for file-backed storage.
	// SQLite puts geoedit.db here; Badger uses a badger/ subdirectory.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/geoedit.
	DataDir string `json:"data_dir,omitempty"`

	// PostgresDSN is the connection string for the postgres backend.
	PostgresDSN string `json:"postgres_dsn,omitempty"`

	// LogLevel is one of debug, info, warn, error. Defaults to info.
	LogLevel string `json:"log_level,omitempty"`

	// Style overrides edit symbols by name: line, fill, vertex,
	// selected_vertex, midpoint, selected_midpoint.
	Style map[string]editing.Symbol `json:"style,omitempty"`
}

// dbFilename is the SQLite database filename inside the data directory.
const dbFilename = "geoedit.db"

// badgerDirname is the Badger directory inside the data directory.
const badgerDirname = "badger"

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return c.Backend
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return ExpandPath(c.DataDir)
}

// GetLogLevel returns the configured log level, defaulting to "info".
func (c *Config) GetLogLevel() string {
	if c.LogLevel == "" {
		return "info"
	}
	return c.LogLevel
}

// defaultDataDir returns the default XDG data directory for geoedit.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			home = "."
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "geoedit")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// EditStyle returns the default edit style with configured overrides
// applied. Empty override fields keep the default value.
func (c *Config) EditStyle() (editing.Style, error) {
	style := editing.DefaultStyle()
	slots := map[string]*editing.Symbol{
		"line":              &style.Line,
		"fill":              &style.Fill,
		"vertex":            &style.Vertex,
		"selected_vertex":   &style.SelectedVertex,
		"midpoint":          &style.Midpoint,
		"selected_midpoint": &style.SelectedMidpoint,
	}
	for name, override := range c.Style {
		slot, ok := slots[name]
		if !ok {
			return style, fmt.Errorf("unknown style symbol %q", name)
		}
		if override.Color != "" {
			slot.Color = override.Color
		}
		if override.Outline != "" {
			slot.Outline = override.Outline
		}
		if override.Size > 0 {
			slot.Size = override.Size
		}
	}
	return style, nil
}

// OpenStorage creates a Repository implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Repository, error) {
	backend := c.GetBackend()
	dataDir := c.GetDataDir()

	switch backend {
	case BackendSQLite:
		return storage.NewSQLiteDB(filepath.Join(dataDir, dbFilename))
	case BackendBadger:
		return storage.NewBadgerStore(filepath.Join(dataDir, badgerDirname))
	case BackendPostgres:
		return storage.NewPostgresDB(c.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown backend: %q", backend)
	}
}

// ApplyEnv overrides fields from GEOEDIT_* environment variables.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvBackend); v != "" {
		c.Backend = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv(EnvPostgresDSN); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
}

// configDir returns the geoedit config directory.
func configDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		homeDir, _ := os.UserHomeDir()
		dir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(dir, "geoedit")
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	return filepath.Join(configDir(), "config.json")
}

// LoadDotEnv loads .env files from the config directory and the working
// directory. Variables already set in the environment win; missing files
// are ignored.
func LoadDotEnv() error {
	for _, path := range []string{filepath.Join(configDir(), ".env"), ".env"} {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
	}
	return nil
}

// Load reads config from disk and applies environment overrides.
// A default config is written on first run.
func Load() (*Config, error) {
	path := GetConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg := &Config{Backend: BackendSQLite}
			if saveErr := cfg.Save(); saveErr != nil {
				fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
			}
			cfg.ApplyEnv()
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return &cfg, nil
}

// Save writes config to disk atomically.
func (c *Config) Save() error {
	path := GetConfigPath()
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil { //nolint:gosec // 0750 is appropriate for user config directory
		return fmt.Errorf("create directory: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
