// ABOUTME: Configuration management with storage backend selection
// ABOUTME: Handles server address, client server URL, and the storage backend factory

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/harper/thoughts/internal/storage"
)

// Backend names.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// Config stores thoughts configuration.
type Config struct {
	// Backend selects the storage backend: "sqlite" (default) or "postgres".
	Backend string `json:"backend,omitempty"`

	// DataDir is where SQLite puts thoughts.db.
	// Supports ~ expansion. Defaults to ~/.local/share/thoughts.
	DataDir string `json:"data_dir,omitempty"`

	// PostgresDSN is the connection string used by the postgres backend.
	PostgresDSN string `json:"postgres_dsn,omitempty"`

	// ListenAddr is the address `thoughts serve` binds to.
	ListenAddr string `json:"listen_addr,omitempty"`

	// ServerURL is the API base URL clients talk to.
	ServerURL string `json:"server_url,omitempty"`
}

// GetBackend returns the configured backend, defaulting to sqlite.
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

// GetListenAddr returns the server bind address.
func (c *Config) GetListenAddr() string {
	if c.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.ListenAddr
}

// GetServerURL returns the API base URL for clients.
func (c *Config) GetServerURL() string {
	if c.ServerURL == "" {
		return DefaultServerURL
	}
	return strings.TrimRight(c.ServerURL, "/")
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

// Validate checks that the backend is known and has what it needs.
func (c *Config) Validate() error {
	switch c.GetBackend() {
	case BackendSQLite:
		return nil
	case BackendPostgres:
		if c.PostgresDSN == "" {
			return errors.New("postgres backend requires postgres_dsn")
		}
		return nil
	default:
		return fmt.Errorf("unknown backend: %q", c.Backend)
	}
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), DBFilename)
}

// OpenStorage creates a Store implementation based on the configured backend.
func (c *Config) OpenStorage() (storage.Store, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	switch c.GetBackend() {
	case BackendPostgres:
		return storage.NewPostgresStore(c.PostgresDSN)
	default:
		return storage.NewSQLiteStore(c.DBPath())
	}
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "thoughts", "config.json")
}

// Load reads config from the default path, writing defaults on first run.
func Load() (*Config, error) {
	path := GetConfigPath()
	cfg, err := LoadFrom(path)
	if errors.Is(err, os.ErrNotExist) {
		cfg = &Config{Backend: BackendSQLite}
		if saveErr := cfg.SaveTo(path); saveErr != nil {
			fmt.Fprintf(os.Stderr, "warning: could not save default config: %v\n", saveErr)
		}
		return cfg, nil
	}
	return cfg, err
}

// LoadFrom reads config from path.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Save writes config to the default path.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes config to path atomically.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

// atomicWrite writes to a temp file in the same directory and renames it
// into place so readers never see a partial config.
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, DefaultDirPerms); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".config-*.json")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// defaultDataDir returns the standard XDG data directory for thoughts.
func defaultDataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "thoughts")
}
