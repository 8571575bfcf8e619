// Package presenter holds the analysis result of a meeting transcript and
// renders one tab of it at a time.
package presenter

import (
	"errors"
)

// Default tab configuration
const DefaultTab = "executive_summary"

// DefaultTabOrder is the tab bar order used when none is configured.
var DefaultTabOrder = []string{
	"executive_summary",
	"action_items",
	"decisions",
	"risks",
	"speaker_spotlight",
	"metadata",
}

// ErrNothingToExport is returned by ExportJSON while no result is held.
var ErrNothingToExport = errors.New("nothing to export")

// Tab is one entry of the tab bar.
type Tab struct {
	Name   string
	Label  string
	Active bool
}

// Option configures a Presenter.
type Option func(*Presenter)

// WithDefaultTab sets the tab selected after Ingest and Reset.
func WithDefaultTab(name string) Option {
	return func(p *Presenter) {
		if name != "" {
			p.defaultTab = name
		}
	}
}

// WithTabOrder sets the configured tab bar order.
func WithTabOrder(names ...string) Option {
	return func(p *Presenter) {
		if len(names) > 0 {
			p.tabOrder = append([]string(nil), names...)
		}
	}
}

// WithFieldOrder sets the record keys shown first.
func WithFieldOrder(keys ...string) Option {
	return func(p *Presenter) {
		p.fieldOrder = append([]string(nil), keys...)
	}
}

// WithRenderer sets the output renderer. HTMLRenderer is the default.
func WithRenderer(r Renderer) Option {
	return func(p *Presenter) {
		if r != nil {
			p.renderer = r
		}
	}
}

// Presenter owns the current analysis result and the selected tab.
// It is not safe for concurrent use.
type Presenter struct {
	result     AnalysisResult
	selected   string
	defaultTab string
	tabOrder   []string
	fieldOrder []string
	renderer   Renderer
}

// New creates an empty presenter.
func New(opts ...Option) *Presenter {
	p := &Presenter{
		result:     AnalysisResult{},
		defaultTab: DefaultTab,
		tabOrder:   append([]string(nil), DefaultTabOrder...),
		fieldOrder: DefaultFieldOrder,
		renderer:   HTMLRenderer{},
	}
	for _, opt := range opts {
		opt(p)
	}
	p.selected = p.defaultTab
	return p
}

// Ingest replaces the held result with value and selects the default tab.
// The returned string is the render of that tab.
func (p *Presenter) Ingest(value any) string {
	p.result = Unwrap(value)
	p.selected = p.defaultTab
	return p.Render()
}

// IngestJSON decodes data and ingests it. State is untouched on error.
func (p *Presenter) IngestJSON(data []byte) (string, error) {
	v, err := Decode(data)
	if err != nil {
		return "", err
	}
	return p.Ingest(v), nil
}

// SelectTab makes name the selected tab and renders it. Names that are not
// in the result render the empty state.
func (p *Presenter) SelectTab(name string) string {
	p.selected = name
	return p.Render()
}

// Render renders the selected tab.
func (p *Presenter) Render() string {
	return p.renderer.RenderSection(p.Section())
}

// Section returns the display form of the selected tab.
func (p *Presenter) Section() Section {
	return Interpret(p.selected, p.result[p.selected], p.fieldOrder)
}

// ExportJSON serializes the held result as indented JSON.
func (p *Presenter) ExportJSON() (string, error) {
	if !p.HasResult() {
		return "", ErrNothingToExport
	}
	return MarshalResult(p.result)
}

// Reset clears the result and returns the empty-state render.
func (p *Presenter) Reset() string {
	p.result = AnalysisResult{}
	p.selected = p.defaultTab
	return p.Render()
}

// HasResult reports whether a non-empty result is held.
func (p *Presenter) HasResult() bool {
	return len(p.result) > 0
}

// Result returns a deep copy of the held result.
func (p *Presenter) Result() AnalysisResult {
	return p.result.Clone()
}

// Selected returns the selected tab name.
func (p *Presenter) Selected() string {
	return p.selected
}

// TabOrder returns the configured tab order.
func (p *Presenter) TabOrder() []string {
	return append([]string(nil), p.tabOrder...)
}

// Tabs lists the configured tabs, then any extra result sections in sorted
// order. The selected tab is appended when it is in neither list, so
// exactly one tab is always active.
func (p *Presenter) Tabs() []Tab {
	names := SectionNames(p.result, p.tabOrder)

	found := false
	for _, n := range names {
		if n == p.selected {
			found = true
			break
		}
	}
	if !found {
		names = append(names, p.selected)
	}

	tabs := make([]Tab, len(names))
	for i, n := range names {
		tabs[i] = Tab{Name: n, Label: FormatKey(n), Active: n == p.selected}
	}
	return tabs
}

// SectionNames returns order followed by the result keys not in order.
func SectionNames(result AnalysisResult, order []string) []string {
	names := make([]string, 0, len(order)+len(result))
	known := make(map[string]bool, len(order))
	for _, n := range order {
		if known[n] {
			continue
		}
		known[n] = true
		names = append(names, n)
	}
	for _, k := range result.Keys() {
		if !known[k] {
			names = append(names, k)
		}
	}
	return names
}
