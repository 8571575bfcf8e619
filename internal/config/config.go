package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/MeetSum/internal/client"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// Config holds the complete application configuration
type Config struct {
	Version   string          `yaml:"version" json:"version"`
	Backend   BackendConfig   `yaml:"backend" json:"backend"`
	Presenter PresenterConfig `yaml:"presenter" json:"presenter"`
	Output    OutputConfig    `yaml:"output" json:"output"`
	Server    ServerConfig    `yaml:"server" json:"server"`
}

// BackendConfig configures the analysis backend connection
type BackendConfig struct {
	BaseURL     string        `yaml:"base_url" json:"base_url"`           // backend root URL
	ProcessPath string        `yaml:"process_path" json:"process_path"`   // upload endpoint
	HealthPath  string        `yaml:"health_path" json:"health_path"`     // liveness endpoint
	Timeout     time.Duration `yaml:"timeout" json:"timeout"`             // whole-request timeout
	MaxUploadMB int           `yaml:"max_upload_mb" json:"max_upload_mb"` // transcript size limit
	APIKey      string        `yaml:"api_key" json:"-"`                   // bearer token, keyring used when empty
}

// PresenterConfig configures tab selection and ordering
type PresenterConfig struct {
	DefaultTab string   `yaml:"default_tab" json:"default_tab"`
	Tabs       []string `yaml:"tabs" json:"tabs"`
	FieldOrder []string `yaml:"field_order" json:"field_order"` // record keys shown first
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown|html
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	DownloadDir   string `yaml:"download_dir" json:"download_dir"`     // where 'd' saves exports
	Theme         string `yaml:"theme" json:"theme"`                   // TUI theme name
	ShowProgress  bool   `yaml:"show_progress" json:"show_progress"`   // upload progress bar
}

// ServerConfig configures the web front end
type ServerConfig struct {
	ListenAddr string        `yaml:"listen_addr" json:"listen_addr"`
	SessionTTL time.Duration `yaml:"session_ttl" json:"session_ttl"`
	LogJSON    bool          `yaml:"log_json" json:"log_json"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	backend := client.DefaultConfig()
	return &Config{
		Version: "1.0",
		Backend: BackendConfig{
			BaseURL:     backend.BaseURL,
			ProcessPath: backend.ProcessPath,
			HealthPath:  backend.HealthPath,
			Timeout:     backend.Timeout,
			MaxUploadMB: backend.MaxUploadMB,
		},
		Presenter: PresenterConfig{
			DefaultTab: presenter.DefaultTab,
			Tabs:       append([]string(nil), presenter.DefaultTabOrder...),
			FieldOrder: append([]string(nil), presenter.DefaultFieldOrder...),
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			DownloadDir:   ".",
			Theme:         "default",
			ShowProgress:  true,
		},
		Server: ServerConfig{
			ListenAddr: "127.0.0.1:8080",
			SessionTTL: 30 * time.Minute,
			LogJSON:    false,
		},
	}
}

// ClientConfig converts the backend section for the upload client.
func (c *Config) ClientConfig() *client.Config {
	return &client.Config{
		BaseURL:     c.Backend.BaseURL,
		ProcessPath: c.Backend.ProcessPath,
		HealthPath:  c.Backend.HealthPath,
		Timeout:     c.Backend.Timeout,
		MaxUploadMB: c.Backend.MaxUploadMB,
		APIKey:      c.Backend.APIKey,
	}
}

// PresenterOptions converts the presenter section.
func (c *Config) PresenterOptions() []presenter.Option {
	opts := []presenter.Option{
		presenter.WithDefaultTab(c.Presenter.DefaultTab),
		presenter.WithTabOrder(c.Presenter.Tabs...),
	}
	if len(c.Presenter.FieldOrder) > 0 {
		opts = append(opts, presenter.WithFieldOrder(c.Presenter.FieldOrder...))
	}
	return opts
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validateBackendConfig(); err != nil {
		return err
	}
	if err := c.validatePresenterConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	return nil
}

// validateBackendConfig validates backend-related configuration
func (c *Config) validateBackendConfig() error {
	u, err := url.Parse(c.Backend.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid backend base_url: %q (must be an http or https URL)", c.Backend.BaseURL)
	}
	if c.Backend.ProcessPath == "" {
		return fmt.Errorf("backend process_path must not be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}
	if c.Backend.MaxUploadMB < 1 {
		return fmt.Errorf("max_upload_mb must be greater than 0")
	}
	return nil
}

// validatePresenterConfig validates tab configuration
func (c *Config) validatePresenterConfig() error {
	if c.Presenter.DefaultTab == "" {
		return fmt.Errorf("presenter default_tab must not be empty")
	}
	seen := make(map[string]bool, len(c.Presenter.Tabs))
	for _, tab := range c.Presenter.Tabs {
		if tab == "" {
			return fmt.Errorf("presenter tabs must not contain empty names")
		}
		if seen[tab] {
			return fmt.Errorf("duplicate presenter tab: %s", tab)
		}
		seen[tab] = true
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"html":     true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: text, json, markdown, html)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	return nil
}

// validateServerConfig validates web server configuration
func (c *Config) validateServerConfig() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen_addr must not be empty")
	}
	if c.Server.SessionTTL <= 0 {
		return fmt.Errorf("server session_ttl must be positive")
	}
	return nil
}
