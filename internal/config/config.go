// Package config handles the configuration directory and client settings.
package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const (
	// AppName is the application directory name.
	AppName = "taskhub"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// EnvFile is the optional dotenv filename read from the config directory.
	EnvFile = ".env"

	// BaseURLEnv is the environment variable naming the backend API root.
	BaseURLEnv = "TASKHUB_API"

	// DefaultBaseURL is used when nothing else names the backend.
	DefaultBaseURL = "http://localhost:8080/api"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// BaseURL is the backend API root all requests go through.
	BaseURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// Logger receives diagnostic output. Never nil; discards unless debug
	// logging was requested.
	Logger *slog.Logger
}

// New creates a Config with the default or specified config directory.
// An empty baseURL is resolved from the TASKHUB_API environment variable,
// then a .env file in the config directory, then the default.
func New(configDir, baseURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{
		Dir:     dir,
		BaseURL: baseURL,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = resolveBaseURL(dir)
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// resolveBaseURL picks the backend API root. The process environment wins
// over the .env file.
func resolveBaseURL(dir string) string {
	if v := os.Getenv(BaseURLEnv); v != "" {
		return v
	}
	if env, err := godotenv.Read(filepath.Join(dir, EnvFile)); err == nil {
		if v := env[BaseURLEnv]; v != "" {
			return v
		}
	}
	return DefaultBaseURL
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if the session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
