package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/MeetSum/internal/presenter"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "1.0", cfg.Version)
	assert.Equal(t, "http://localhost:8000", cfg.Backend.BaseURL)
	assert.Equal(t, "/process", cfg.Backend.ProcessPath)
	assert.Equal(t, 10, cfg.Backend.MaxUploadMB)
	assert.Equal(t, presenter.DefaultTab, cfg.Presenter.DefaultTab)
	assert.Equal(t, presenter.DefaultTabOrder, cfg.Presenter.Tabs)
	assert.Equal(t, "text", cfg.Output.DefaultFormat)
	assert.Equal(t, 30*time.Minute, cfg.Server.SessionTTL)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:   "base url without scheme",
			mutate: func(c *Config) { c.Backend.BaseURL = "localhost:8000" },
			errMsg: `invalid backend base_url: "localhost:8000" (must be an http or https URL)`,
		},
		{
			name:   "empty process path",
			mutate: func(c *Config) { c.Backend.ProcessPath = "" },
			errMsg: "backend process_path must not be empty",
		},
		{
			name:   "zero timeout",
			mutate: func(c *Config) { c.Backend.Timeout = 0 },
			errMsg: "backend timeout must be positive",
		},
		{
			name:   "zero upload size",
			mutate: func(c *Config) { c.Backend.MaxUploadMB = 0 },
			errMsg: "max_upload_mb must be greater than 0",
		},
		{
			name:   "empty default tab",
			mutate: func(c *Config) { c.Presenter.DefaultTab = "" },
			errMsg: "presenter default_tab must not be empty",
		},
		{
			name:   "duplicate tab",
			mutate: func(c *Config) { c.Presenter.Tabs = []string{"risks", "risks"} },
			errMsg: "duplicate presenter tab: risks",
		},
		{
			name:   "invalid output format",
			mutate: func(c *Config) { c.Output.DefaultFormat = "csv" },
			errMsg: "invalid output format: csv (must be one of: text, json, markdown, html)",
		},
		{
			name:   "invalid color mode",
			mutate: func(c *Config) { c.Output.ColorMode = "sometimes" },
			errMsg: "invalid color mode: sometimes (must be one of: auto, always, never)",
		},
		{
			name:   "zero session ttl",
			mutate: func(c *Config) { c.Server.SessionTTL = 0 },
			errMsg: "server session_ttl must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.errMsg)
		})
	}
}

func TestClientConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Backend.BaseURL = "https://minutes.example.com"
	cfg.Backend.APIKey = "tok"

	cc := cfg.ClientConfig()
	require.NoError(t, cc.Validate())
	assert.Equal(t, "https://minutes.example.com", cc.BaseURL)
	assert.Equal(t, "tok", cc.APIKey)
	assert.Equal(t, int64(10*1024*1024), cc.MaxUploadBytes())
}

func TestPresenterOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presenter.DefaultTab = "decisions"
	cfg.Presenter.Tabs = []string{"decisions", "risks"}

	p := presenter.New(cfg.PresenterOptions()...)
	assert.Equal(t, "decisions", p.Selected())
	assert.Equal(t, []string{"decisions", "risks"}, p.TabOrder())
}

func TestPresenterOptions_FieldOrder(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Presenter.FieldOrder = []string{"task", "owner"}

	p := presenter.New(append(cfg.PresenterOptions(), presenter.WithRenderer(presenter.TextRenderer{}))...)
	p.Ingest(map[string]any{"action_items": []any{map[string]any{"owner": "Ana", "task": "Ship"}}})
	p.SelectTab("action_items")
	assert.Equal(t, "1. Item\n   Task: Ship\n   Owner: Ana", p.Render())
}
