package client

import (
	"strings"
	"time"
)

// Config holds the backend connection settings
type Config struct {
	// BaseURL is the backend root, e.g. http://localhost:8000
	BaseURL string `json:"base_url"`

	// ProcessPath is the upload endpoint below BaseURL
	ProcessPath string `json:"process_path"`

	// HealthPath is the liveness endpoint below BaseURL
	HealthPath string `json:"health_path"`

	// Timeout for a whole request, upload and analysis included
	Timeout time.Duration `json:"timeout"`

	// MaxUploadMB caps the transcript size
	MaxUploadMB int `json:"max_upload_mb"`

	// APIKey is sent as a bearer token when set
	APIKey string `json:"-"`
}

// DefaultConfig returns the settings for a locally running backend
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "http://localhost:8000",
		ProcessPath: "/process",
		HealthPath:  "/healthz",
		Timeout:     5 * time.Minute,
		MaxUploadMB: 10,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return NewConfigurationError("base_url", "base URL is required")
	}

	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return NewConfigurationError("base_url", "base URL must start with http:// or https://")
	}

	if c.ProcessPath == "" {
		return NewConfigurationError("process_path", "process path is required")
	}

	if c.Timeout <= 0 {
		return NewConfigurationError("timeout", "timeout must be positive")
	}

	if c.MaxUploadMB <= 0 {
		return NewConfigurationError("max_upload_mb", "max upload size must be positive")
	}

	return nil
}

// MaxUploadBytes is MaxUploadMB in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) * 1024 * 1024
}
