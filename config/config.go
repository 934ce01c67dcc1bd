// Package config handles loading the application's configuration.
//
// Precedence, lowest first: defaults from New, a TOML file (Load), a .env
// file and process environment (ApplyEnv), then command-line flags applied
// by the commands themselves.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host                string   `toml:"host"`
	Port                int      `toml:"port"`
	ReadTimeoutSeconds  int      `toml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `toml:"write_timeout_seconds"`
	IdleTimeoutSeconds  int      `toml:"idle_timeout_seconds"`
	AllowedOrigins      []string `toml:"allowed_origins"`
}

// DatabaseConfig locates the SQLite database.
type DatabaseConfig struct {
	Path string `toml:"path"` // ":memory:" for an in-memory database
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// Environment variables read by ApplyEnv.
const (
	EnvDBPath    = "ROOMS_DB_PATH"
	EnvHost      = "ROOMS_HOST"
	EnvPort      = "ROOMS_PORT"
	EnvLogLevel  = "ROOMS_LOG_LEVEL"
	EnvLogFormat = "ROOMS_LOG_FORMAT"
)

// New returns a Config with default values.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "127.0.0.1",
			Port:                8080,
			ReadTimeoutSeconds:  15,
			WriteTimeoutSeconds: 15,
			IdleTimeoutSeconds:  60,
			AllowedOrigins:      []string{"http://localhost:5173", "http://localhost:8080"},
		},
		Database: DatabaseConfig{Path: "hotel_db.sqlite"},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads a TOML file into c. Keys absent from the file keep their
// current values.
func (c *Config) Load(path string) error {
	if _, err := toml.DecodeFile(path, c); err != nil {
		return fmt.Errorf("load config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv loads envFile (if it exists) into the process environment and
// then applies the ROOMS_* variables. Variables already set in the
// environment win over the file. Pass "" to skip the file.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
	}

	if v, ok := lookup(EnvDBPath); ok {
		c.Database.Path = v
	}
	if v, ok := lookup(EnvHost); ok {
		c.Server.Host = v
	}
	if v, ok := lookup(EnvPort); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid int for %s: %q", EnvPort, v)
		}
		c.Server.Port = port
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvLogFormat); ok {
		c.Log.Format = v
	}
	return nil
}

// Addr returns the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	return v, ok && v != ""
}
