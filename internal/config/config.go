// Package config loads and finalizes the tessera service configuration from
// TOML files, environment overlays, and TESSERA_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/mosaic-works/tessera/pkg/database"
	"github.com/mosaic-works/tessera/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvTesseraEnv             = "TESSERA_ENV"
	EnvTesseraShutdownTimeout = "TESSERA_SHUTDOWN_TIMEOUT"
	EnvTesseraVersion         = "TESSERA_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "TESSERA_DB_HOST",
	Port:            "TESSERA_DB_PORT",
	Name:            "TESSERA_DB_NAME",
	User:            "TESSERA_DB_USER",
	Password:        "TESSERA_DB_PASSWORD",
	SSLMode:         "TESSERA_DB_SSL_MODE",
	MaxOpenConns:    "TESSERA_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "TESSERA_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "TESSERA_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "TESSERA_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	ContainerName:    "TESSERA_STORAGE_CONTAINER_NAME",
	ConnectionString: "TESSERA_STORAGE_CONNECTION_STRING",
}

// Config is the root configuration for the tessera service.
type Config struct {
	Server          ServerConfig         `toml:"server"`
	Database        database.Config      `toml:"database"`
	Storage         storage.Config       `toml:"storage"`
	API             APIConfig            `toml:"api"`
	Agent           gaconfig.AgentConfig `toml:"agent"`
	Interpreter     InterpreterConfig    `toml:"interpreter"`
	ShutdownTimeout string               `toml:"shutdown_timeout"`
	Version         string               `toml:"version"`
}

// Env returns the TESSERA_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvTesseraEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	return duration(c.ShutdownTimeout)
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Agent.Merge(&overlay.Agent)
	c.Interpreter.Merge(&overlay.Interpreter)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Database.Finalize(databaseEnv); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Storage.Finalize(storageEnv); err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	if err := c.API.Finalize(); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	if err := FinalizeAgent(&c.Agent); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if err := c.Interpreter.Finalize(); err != nil {
		return fmt.Errorf("interpreter: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	envString(EnvTesseraShutdownTimeout, &c.ShutdownTimeout)
	envString(EnvTesseraVersion, &c.Version)
}

func (c *Config) validate() error {
	return validDuration("shutdown_timeout", c.ShutdownTimeout)
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvTesseraEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
