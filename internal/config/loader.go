package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.meetsum.yaml",               // Project-specific config (highest priority)
	"~/.config/meetsum/config.yaml", // User config
	"/etc/meetsum/config.yaml",      // System config (lowest priority)
}

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MEETSUM_"

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	warn        func(format string, args ...interface{})
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		warn: func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.meetsum.yaml
// 4. ~/.config/meetsum/config.yaml
// 5. /etc/meetsum/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				l.warn("Failed to load config from %s: %v", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig fileConfig
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// fileConfig mirrors Config with pointer booleans so an explicit false in a
// file can be told apart from an omitted key.
type fileConfig struct {
	Version   string          `yaml:"version"`
	Backend   BackendConfig   `yaml:"backend"`
	Presenter PresenterConfig `yaml:"presenter"`
	Output    struct {
		DefaultFormat string `yaml:"default_format"`
		ColorMode     string `yaml:"color_mode"`
		DownloadDir   string `yaml:"download_dir"`
		Theme         string `yaml:"theme"`
		ShowProgress  *bool  `yaml:"show_progress"`
	} `yaml:"output"`
	Server struct {
		ListenAddr string        `yaml:"listen_addr"`
		SessionTTL time.Duration `yaml:"session_ttl"`
		LogJSON    *bool         `yaml:"log_json"`
	} `yaml:"server"`
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Backend Config
		"MEETSUM_BACKEND_BASE_URL":      func(v string) error { config.Backend.BaseURL = v; return nil },
		"MEETSUM_BACKEND_PROCESS_PATH":  func(v string) error { config.Backend.ProcessPath = v; return nil },
		"MEETSUM_BACKEND_HEALTH_PATH":   func(v string) error { config.Backend.HealthPath = v; return nil },
		"MEETSUM_BACKEND_TIMEOUT":       func(v string) error { return parseDuration(v, &config.Backend.Timeout) },
		"MEETSUM_BACKEND_MAX_UPLOAD_MB": func(v string) error { return parseInt(v, &config.Backend.MaxUploadMB) },
		"MEETSUM_BACKEND_API_KEY":       func(v string) error { config.Backend.APIKey = v; return nil },

		// Presenter Config
		"MEETSUM_PRESENTER_DEFAULT_TAB": func(v string) error { config.Presenter.DefaultTab = v; return nil },
		"MEETSUM_PRESENTER_TABS":        func(v string) error { config.Presenter.Tabs = splitList(v); return nil },
		"MEETSUM_PRESENTER_FIELD_ORDER": func(v string) error { config.Presenter.FieldOrder = splitList(v); return nil },

		// Output Config
		"MEETSUM_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"MEETSUM_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"MEETSUM_OUTPUT_DOWNLOAD_DIR":   func(v string) error { config.Output.DownloadDir = v; return nil },
		"MEETSUM_OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"MEETSUM_OUTPUT_SHOW_PROGRESS":  func(v string) error { return parseBool(v, &config.Output.ShowProgress) },

		// Server Config
		"MEETSUM_SERVER_LISTEN_ADDR": func(v string) error { config.Server.ListenAddr = v; return nil },
		"MEETSUM_SERVER_SESSION_TTL": func(v string) error { return parseDuration(v, &config.Server.SessionTTL) },
		"MEETSUM_SERVER_LOG_JSON":    func(v string) error { return parseBool(v, &config.Server.LogJSON) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// UserConfigPath is where 'config init' writes by default.
func UserConfigPath() string {
	return expandPath(ConfigPaths[1])
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// ValidateConfigPath exposes the path checks for commands that write config.
func ValidateConfigPath(path string) error {
	return validateConfigPath(path)
}

// ExpandPath expands a leading ~/ to the home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// mergeConfigs merges source config into destination config
// Only non-zero values from source overwrite destination
func mergeConfigs(dst *Config, src *fileConfig) {
	if src.Version != "" {
		dst.Version = src.Version
	}

	mergeBackendConfig(&dst.Backend, &src.Backend)
	mergePresenterConfig(&dst.Presenter, &src.Presenter)

	if src.Output.DefaultFormat != "" {
		dst.Output.DefaultFormat = src.Output.DefaultFormat
	}
	if src.Output.ColorMode != "" {
		dst.Output.ColorMode = src.Output.ColorMode
	}
	if src.Output.DownloadDir != "" {
		dst.Output.DownloadDir = src.Output.DownloadDir
	}
	if src.Output.Theme != "" {
		dst.Output.Theme = src.Output.Theme
	}
	mergeIfSet(&dst.Output.ShowProgress, src.Output.ShowProgress)

	if src.Server.ListenAddr != "" {
		dst.Server.ListenAddr = src.Server.ListenAddr
	}
	if src.Server.SessionTTL != 0 {
		dst.Server.SessionTTL = src.Server.SessionTTL
	}
	mergeIfSet(&dst.Server.LogJSON, src.Server.LogJSON)
}

// mergeBackendConfig merges backend configuration
func mergeBackendConfig(dst, src *BackendConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.ProcessPath != "" {
		dst.ProcessPath = src.ProcessPath
	}
	if src.HealthPath != "" {
		dst.HealthPath = src.HealthPath
	}
	if src.Timeout != 0 {
		dst.Timeout = src.Timeout
	}
	if src.MaxUploadMB != 0 {
		dst.MaxUploadMB = src.MaxUploadMB
	}
	if src.APIKey != "" {
		dst.APIKey = src.APIKey
	}
}

// mergePresenterConfig merges presenter configuration
func mergePresenterConfig(dst, src *PresenterConfig) {
	if src.DefaultTab != "" {
		dst.DefaultTab = src.DefaultTab
	}
	if len(src.Tabs) > 0 {
		dst.Tabs = src.Tabs
	}
	if len(src.FieldOrder) > 0 {
		dst.FieldOrder = src.FieldOrder
	}
}

// mergeIfSet merges a boolean only when the file set it
func mergeIfSet(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

// Type conversion helpers

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseInt(s string, dst *int) error {
	val, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
