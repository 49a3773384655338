package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	EnvInterpreterExtractionTimeout = "TESSERA_INTERPRETER_EXTRACTION_TIMEOUT"
	EnvInterpreterSchemaFile        = "TESSERA_INTERPRETER_SCHEMA_FILE"
	EnvInterpreterDenylist          = "TESSERA_INTERPRETER_DENYLIST"
)

// InterpreterConfig holds interpretation pipeline parameters: the extraction
// call timeout, the schema definition file, and the placeholder denylist used
// to quarantine boilerplate values the extraction step sometimes hallucinates.
type InterpreterConfig struct {
	ExtractionTimeout string   `toml:"extraction_timeout"`
	SchemaFile        string   `toml:"schema_file"`
	Denylist          []string `toml:"denylist"`
}

// ExtractionTimeoutDuration returns ExtractionTimeout as a time.Duration.
func (c *InterpreterConfig) ExtractionTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ExtractionTimeout)
	return d
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *InterpreterConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *InterpreterConfig) Merge(overlay *InterpreterConfig) {
	if overlay.ExtractionTimeout != "" {
		c.ExtractionTimeout = overlay.ExtractionTimeout
	}
	if overlay.SchemaFile != "" {
		c.SchemaFile = overlay.SchemaFile
	}
	if overlay.Denylist != nil {
		c.Denylist = overlay.Denylist
	}
}

func (c *InterpreterConfig) loadDefaults() {
	if c.ExtractionTimeout == "" {
		c.ExtractionTimeout = "2m"
	}
	if c.Denylist == nil {
		c.Denylist = []string{
			"n/a",
			"none",
			"unknown",
			"example.com",
			"john doe",
			"jane doe",
			"lorem ipsum",
			"123-456-7890",
			"your name here",
		}
	}
}

func (c *InterpreterConfig) loadEnv() {
	if v := os.Getenv(EnvInterpreterExtractionTimeout); v != "" {
		c.ExtractionTimeout = v
	}
	if v := os.Getenv(EnvInterpreterSchemaFile); v != "" {
		c.SchemaFile = v
	}
	if v := os.Getenv(EnvInterpreterDenylist); v != "" {
		entries := strings.Split(v, ",")
		c.Denylist = make([]string, 0, len(entries))
		for _, entry := range entries {
			if trimmed := strings.TrimSpace(entry); trimmed != "" {
				c.Denylist = append(c.Denylist, trimmed)
			}
		}
	}
}

func (c *InterpreterConfig) validate() error {
	if _, err := time.ParseDuration(c.ExtractionTimeout); err != nil {
		return fmt.Errorf("invalid extraction_timeout: %w", err)
	}
	return nil
}
