package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Defaults for the tunables a deployment rarely touches.
const (
	DefaultListenAddr = ":8080"
	DefaultWorkers    = 1
	DefaultQueueDepth = 16
	DefaultMaxAge     = 130
)

// Config holds all runtime configuration for a visitload run.
type Config struct {
	DSN        string
	FilePath   string
	LogFormat  string // "text" or "json"
	ConfigPath string
	ListenAddr string
	OutPath    string
	Since      string
	Workers    int
	QueueDepth int
	MaxAge     int
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	Workers    int    `yaml:"workers"`
	QueueDepth int    `yaml:"queue_depth"`
	MaxAge     int    `yaml:"max_age"`
}

// LoadFromFile reads a YAML config file and merges its values into
// Config. Values already set stay unless the file overrides them.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.ListenAddr != "" {
		c.ListenAddr = yc.ListenAddr
	}
	if yc.Workers != 0 {
		c.Workers = yc.Workers
	}
	if yc.QueueDepth != 0 {
		c.QueueDepth = yc.QueueDepth
	}
	if yc.MaxAge != 0 {
		c.MaxAge = yc.MaxAge
	}
	return c.validateTunables()
}

// validateTunables rejects nonsense pool sizes and bounds. Unset
// values mean "use the default" and are filled in here.
func (c *Config) validateTunables() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.QueueDepth < 0 {
		return fmt.Errorf("queue_depth must be positive, got %d", c.QueueDepth)
	}
	if c.MaxAge < 0 {
		return fmt.Errorf("max_age must be positive, got %d", c.MaxAge)
	}
	if c.Workers == 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueDepth == 0 {
		c.QueueDepth = DefaultQueueDepth
	}
	if c.MaxAge == 0 {
		c.MaxAge = DefaultMaxAge
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	return nil
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	return nil
}

// ValidateIngest checks everything an ingest run needs: an input file,
// a DSN, and sane tunables.
func (c *Config) ValidateIngest() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.RequireDSN(); err != nil {
		return err
	}
	return c.validateTunables()
}

// RequireDSN checks the database connection string alone, for commands
// that take no input file.
func (c *Config) RequireDSN() error {
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

// ValidateServe prepares the config for the HTTP server: a DSN plus
// sane pool tunables.
func (c *Config) ValidateServe() error {
	if err := c.RequireDSN(); err != nil {
		return err
	}
	return c.validateTunables()
}
