// internal/config/viper.go
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/metadatalab/revisor/internal/types"
)

// LoadConfig loads configuration from file using viper.
// CLI flags > environment > config file > defaults precedence.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults matching DefaultConfig
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("database.url", "sqlite://revisor.db")
	v.SetDefault("editor.page_size", 10)
	v.SetDefault("editor.chunk_size", 20)
	v.SetDefault("editor.workers", 4)
	v.SetDefault("editor.chunk_retries", 3)
	v.SetDefault("editor.session_ttl", "30m")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Bind environment variables with REVISOR_ prefix
	v.SetEnvPrefix("REVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Load config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            v.GetString("server.host"),
			Port:            v.GetInt("server.port"),
			RequestTimeout:  v.GetDuration("server.request_timeout"),
			ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("database.url"),
		},
		Editor: EditorConfig{
			PageSize:     v.GetInt("editor.page_size"),
			ChunkSize:    v.GetInt("editor.chunk_size"),
			Workers:      v.GetInt("editor.workers"),
			ChunkRetries: v.GetInt("editor.chunk_retries"),
			SessionTTL:   v.GetDuration("editor.session_ttl"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateConfig checks port range and positive values for timeouts and
// batch tuning, and that log settings name known levels and encodings.
func validateConfig(cfg *Config) error {
	if cfg.Server.Port <= 0 || cfg.Server.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Server.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database url must not be empty")
	}
	if cfg.Editor.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", cfg.Editor.PageSize)
	}
	if cfg.Editor.PageSize > types.MaxPageSize {
		return fmt.Errorf("page_size must be at most %d, got %d", types.MaxPageSize, cfg.Editor.PageSize)
	}
	if cfg.Editor.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", cfg.Editor.ChunkSize)
	}
	if cfg.Editor.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", cfg.Editor.Workers)
	}
	if cfg.Editor.ChunkRetries < 0 {
		return fmt.Errorf("chunk_retries must not be negative, got %d", cfg.Editor.ChunkRetries)
	}
	if cfg.Editor.SessionTTL <= 0 {
		return fmt.Errorf("session_ttl must be positive, got %v", cfg.Editor.SessionTTL)
	}
	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log level must be one of debug, info, warn, error, got %q", cfg.Log.Level)
	}
	switch cfg.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console, got %q", cfg.Log.Format)
	}
	return nil
}
