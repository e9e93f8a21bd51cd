package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Sheets   SheetsConfig
	Admin    AdminConfig
	Session  SessionConfig
	LogLevel string
}

type ServerConfig struct {
	Port               string
	Host               string
	ReadTimeout        int
	WriteTimeout       int
	ShutdownTimeout    int
	PublicURL          string
	CORSAllowedOrigins []string
}

// SheetsConfig points at the deployed spreadsheet script
type SheetsConfig struct {
	ScriptURL string
	Timeout   time.Duration
}

// AdminConfig enables the admin routes. Set either Password or PasswordHash;
// with neither the admin routes are not mounted.
type AdminConfig struct {
	Password     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// Enabled reports whether an admin password is configured
func (a AdminConfig) Enabled() bool {
	return a.Password != "" || a.PasswordHash != ""
}

// SessionConfig controls how long idle ordering sessions are kept
type SessionConfig struct {
	TTL           time.Duration
	PurgeInterval time.Duration
}

// Load reads configuration from environment variables. A .env file in the
// working directory is loaded first when present; real env vars win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:               getEnv("PORT", "8080"),
			Host:               getEnv("HOST", "0.0.0.0"),
			ReadTimeout:        getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:       getEnvAsInt("WRITE_TIMEOUT", 30),
			ShutdownTimeout:    getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
			PublicURL:          getEnv("PUBLIC_URL", ""),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		Sheets: SheetsConfig{
			ScriptURL: getEnv("SHEETS_SCRIPT_URL", ""),
			Timeout:   getEnvAsDuration("SHEETS_TIMEOUT", 20*time.Second),
		},
		Admin: AdminConfig{
			Password:     getEnv("ADMIN_PASSWORD", ""),
			PasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
			JWTSecret:    getEnv("JWT_SECRET", ""),
			TokenTTL:     getEnvAsDuration("ADMIN_TOKEN_TTL", 8*time.Hour),
		},
		Session: SessionConfig{
			TTL:           getEnvAsDuration("SESSION_TTL", 2*time.Hour),
			PurgeInterval: getEnvAsDuration("SESSION_PURGE_INTERVAL", 10*time.Minute),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Sheets.ScriptURL == "" {
		return fmt.Errorf("SHEETS_SCRIPT_URL is required")
	}
	if u, err := url.Parse(c.Sheets.ScriptURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("SHEETS_SCRIPT_URL must be an absolute URL: %q", c.Sheets.ScriptURL)
	}
	if c.Sheets.Timeout <= 0 {
		return fmt.Errorf("SHEETS_TIMEOUT must be positive")
	}

	if c.Admin.Enabled() {
		if c.Admin.Password != "" && c.Admin.PasswordHash != "" {
			return fmt.Errorf("set only one of ADMIN_PASSWORD and ADMIN_PASSWORD_HASH")
		}
		if len(c.Admin.JWTSecret) < 16 {
			return fmt.Errorf("JWT_SECRET must be at least 16 characters when admin access is enabled")
		}
		if c.Admin.TokenTTL <= 0 {
			return fmt.Errorf("ADMIN_TOKEN_TTL must be positive")
		}
	}

	if c.Session.TTL < 0 {
		return fmt.Errorf("SESSION_TTL must not be negative")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration accepts Go durations ("90s") or plain seconds ("90")
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
