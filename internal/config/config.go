// Package config provides configuration management for the revisor service.
package config

import (
	"time"
)

// Config holds the full service configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Editor   EditorConfig
	Log      LogConfig
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Host            string
	Port            int
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds the record store connection settings.
type DatabaseConfig struct {
	URL string
}

// EditorConfig tunes the mutation engine's batch machinery.
type EditorConfig struct {
	PageSize     int
	ChunkSize    int
	Workers      int
	ChunkRetries int
	SessionTTL   time.Duration
}

// LogConfig selects log verbosity and output encoding.
type LogConfig struct {
	Level  string
	Format string
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			RequestTimeout:  30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			URL: "sqlite://revisor.db",
		},
		Editor: EditorConfig{
			PageSize:     10,
			ChunkSize:    20,
			Workers:      4,
			ChunkRetries: 3,
			SessionTTL:   30 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}
