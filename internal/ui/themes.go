package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor

	// Semantic colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI colors
	Border    lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Selected  lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
}

// palette lists light/dark pairs in Theme field order.
type palette [10][2]string

func buildTheme(name string, p palette) Theme {
	c := func(i int) lipgloss.AdaptiveColor {
		return lipgloss.AdaptiveColor{Light: p[i][0], Dark: p[i][1]}
	}
	return Theme{
		Name:      name,
		Primary:   c(0),
		Secondary: c(1),
		Success:   c(2),
		Warning:   c(3),
		Error:     c(4),
		Info:      c(5),
		Border:    c(6),
		Muted:     c(7),
		Selected:  c(8),
		Highlight: c(9),
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default", palette{
		{"#1E40AF", "#3B82F6"}, {"#6B7280", "#9CA3AF"},
		{"#059669", "#10B981"}, {"#D97706", "#F59E0B"}, {"#DC2626", "#EF4444"}, {"#0891B2", "#06B6D4"},
		{"#D1D5DB", "#374151"}, {"#6B7280", "#9CA3AF"}, {"#DBEAFE", "#1E3A8A"}, {"#FEF3C7", "#1F2937"},
	})

	HighContrastTheme = buildTheme("high-contrast", palette{
		{"#000000", "#FFFFFF"}, {"#666666", "#BBBBBB"},
		{"#006600", "#00FF00"}, {"#CC6600", "#FFAA00"}, {"#CC0000", "#FF4444"}, {"#0066CC", "#4499FF"},
		{"#000000", "#FFFFFF"}, {"#666666", "#BBBBBB"}, {"#CCCCCC", "#333333"}, {"#FFFF00", "#444444"},
	})

	MinimalTheme = buildTheme("minimal", palette{
		{"#2D3748", "#E2E8F0"}, {"#718096", "#A0AEC0"},
		{"#2F855A", "#68D391"}, {"#C05621", "#F6AD55"}, {"#C53030", "#FC8181"}, {"#2B6CB0", "#63B3ED"},
		{"#E2E8F0", "#2D3748"}, {"#A0AEC0", "#718096"}, {"#EDF2F7", "#2D3748"}, {"#F7FAFC", "#2D3748"},
	})
)

var themes = map[string]Theme{
	DefaultTheme.Name:      DefaultTheme,
	HighContrastTheme.Name: HighContrastTheme,
	MinimalTheme.Name:      MinimalTheme,
}

// ThemeByName looks up a theme, falling back to the default.
func ThemeByName(name string) (Theme, bool) {
	t, ok := themes[name]
	if !ok {
		return DefaultTheme, false
	}
	return t, true
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "minimal"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Styles contains the styled components used by the model
type Styles struct {
	Title       lipgloss.Style
	Muted       lipgloss.Style
	Tab         lipgloss.Style
	ActiveTab   lipgloss.Style
	TabBar      lipgloss.Style
	Box         lipgloss.Style
	Spinner     lipgloss.Style
	StepDone    lipgloss.Style
	StepActive  lipgloss.Style
	StepPending lipgloss.Style
	Info        lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
}

func newStyles(theme Theme) Styles {
	if IsColorDisabled() {
		plain := lipgloss.NewStyle()
		return Styles{
			Title:       plain.Bold(true),
			Muted:       plain,
			Tab:         plain.Padding(0, 1),
			ActiveTab:   plain.Padding(0, 1).Bold(true).Underline(true),
			TabBar:      plain.Border(lipgloss.NormalBorder(), false, false, true, false),
			Box:         plain.Border(lipgloss.NormalBorder()).Padding(1, 2),
			Spinner:     plain,
			StepDone:    plain,
			StepActive:  plain.Bold(true),
			StepPending: plain,
			Info:        plain,
			Success:     plain,
			Error:       plain.Bold(true),
		}
	}

	return Styles{
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Tab: lipgloss.NewStyle().
			Foreground(theme.Secondary).
			Padding(0, 1),
		ActiveTab: lipgloss.NewStyle().
			Background(theme.Selected).
			Foreground(theme.Primary).
			Padding(0, 1).
			Bold(true),
		TabBar: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, true, false).
			BorderForeground(theme.Border),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(1, 2),
		Spinner: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		StepDone: lipgloss.NewStyle().
			Foreground(theme.Success),
		StepActive: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),
		StepPending: lipgloss.NewStyle().
			Foreground(theme.Muted),
		Info: lipgloss.NewStyle().
			Foreground(theme.Info),
		Success: lipgloss.NewStyle().
			Foreground(theme.Success).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),
	}
}
