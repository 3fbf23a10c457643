package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Defaults applied to missing config fields.
const (
	DefaultDBFile       = "fta.db"
	DefaultStoreTimeout = 5 * time.Second
	DefaultHTTPAddr     = "127.0.0.1:8087"
	DefaultLogMode      = "quiet"
	DefaultActor        = "investigator"
	CurrentVersion      = "1"
)

// Environment overrides, checked after the file is read.
const (
	EnvDBPath  = "FTA_DB_PATH"
	EnvCatalog = "FTA_CATALOG"
	EnvLogMode = "FTA_LOG_MODE"
	EnvActor   = "FTA_ACTOR"
)

// Config represents the fta configuration stored in .fta/config.json.
type Config struct {
	Version      string `json:"version"`
	DBPath       string `json:"db_path,omitempty"`
	CatalogPath  string `json:"catalog_path,omitempty"`
	StoreTimeout string `json:"store_timeout,omitempty"` // duration string, e.g. "5s"
	LogMode      string `json:"log_mode,omitempty"`      // dev, prod or quiet
	HTTPAddr     string `json:"http_addr,omitempty"`
	Actor        string `json:"actor,omitempty"`
}

// Default returns the configuration written by `fta init`.
func Default() *Config {
	return &Config{
		Version:      CurrentVersion,
		DBPath:       filepath.Join(".fta", DefaultDBFile),
		StoreTimeout: DefaultStoreTimeout.String(),
		LogMode:      DefaultLogMode,
		HTTPAddr:     DefaultHTTPAddr,
		Actor:        DefaultActor,
	}
}

// LoadConfig reads .fta/config.json from the specified directory.
// Returns error if no config found - caller should handle accordingly.
func LoadConfig(dir string) (*Config, error) {
	path := filepath.Join(dir, ".fta", "config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if _, err := cfg.Timeout(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Resolve loads the config from dir, falling back to defaults when no
// config file exists, then applies environment overrides.
func Resolve(dir string) (*Config, error) {
	cfg, err := LoadConfig(dir)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		cfg = Default()
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

// ApplyEnv overrides fields from FTA_* environment variables.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDBPath)); v != "" {
		c.DBPath = v
	}
	if v := strings.TrimSpace(getenv(EnvCatalog)); v != "" {
		c.CatalogPath = v
	}
	if v := strings.TrimSpace(getenv(EnvLogMode)); v != "" {
		c.LogMode = v
	}
	if v := strings.TrimSpace(getenv(EnvActor)); v != "" {
		c.Actor = v
	}
}

// Timeout parses StoreTimeout, defaulting to DefaultStoreTimeout.
func (c *Config) Timeout() (time.Duration, error) {
	if strings.TrimSpace(c.StoreTimeout) == "" {
		return DefaultStoreTimeout, nil
	}
	d, err := time.ParseDuration(c.StoreTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid store_timeout %q: %w", c.StoreTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("store_timeout must be positive (got %s)", c.StoreTimeout)
	}
	return d, nil
}

// Address returns the HTTP listen address.
func (c *Config) Address() string {
	if c.HTTPAddr == "" {
		return DefaultHTTPAddr
	}
	return c.HTTPAddr
}

// ActorID returns the actor recorded in the audit log.
func (c *Config) ActorID() string {
	if c.Actor == "" {
		return DefaultActor
	}
	return c.Actor
}

// SaveConfig writes config.json to directory
func SaveConfig(dir string, cfg *Config) error {
	ftaDir := filepath.Join(dir, ".fta")
	if err := os.MkdirAll(ftaDir, 0755); err != nil {
		return fmt.Errorf("failed to create .fta dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(ftaDir, "config.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}
