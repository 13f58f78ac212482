package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration document.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Log    LogConfig    `yaml:"log"`
	Site   SiteConfig   `yaml:"site"`
	Cache  CacheConfig  `yaml:"cache"`
	Client ClientConfig `yaml:"client"`
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Address                string `yaml:"address" validate:"required,listen_addr"`
	ReadTimeoutSeconds     int    `yaml:"read_timeout_seconds" validate:"gte=1,lte=300"`
	WriteTimeoutSeconds    int    `yaml:"write_timeout_seconds" validate:"gte=1,lte=300"`
	ShutdownTimeoutSeconds int    `yaml:"shutdown_timeout_seconds" validate:"gte=1,lte=120"`
}

// ReadTimeout returns the read timeout as a duration.
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the write timeout as a duration.
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget as a duration.
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// LogConfig selects the log level and encoding.
type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" validate:"oneof=json console"`
}

// SiteConfig describes the rendered site.
type SiteConfig struct {
	Name    string `yaml:"name" validate:"required,max=120"`
	BaseURL string `yaml:"base_url" validate:"omitempty,http_url"`
}

// CacheConfig controls shared-cache headers and the revalidation endpoint.
// An empty RevalidateSecret disables revalidation.
type CacheConfig struct {
	SMaxAgeSeconds              int    `yaml:"s_maxage_seconds" validate:"gte=0"`
	StaleWhileRevalidateSeconds int    `yaml:"stale_while_revalidate_seconds" validate:"gte=0"`
	RevalidateSecret            string `yaml:"revalidate_secret" validate:"omitempty,min=16"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	StoragePath string `yaml:"storage_path"`
}

// Default returns a configuration that passes validation without a file.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:                ":8080",
			ReadTimeoutSeconds:     10,
			WriteTimeoutSeconds:    10,
			ShutdownTimeoutSeconds: 15,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Site: SiteConfig{
			Name: "Conservancy",
		},
		Cache: CacheConfig{
			SMaxAgeSeconds:              60,
			StaleWhileRevalidateSeconds: 86400,
		},
		Client: ClientConfig{
			StoragePath: DefaultStoragePath(),
		},
	}
}

// DefaultStoragePath is where the terminal client persists its local storage.
func DefaultStoragePath() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ".conservancy-storage.json"
	}
	return filepath.Join(dir, "conservancy", "storage.json")
}
