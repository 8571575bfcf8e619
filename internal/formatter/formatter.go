package formatter

import (
	"fmt"

	"github.com/yildizm/MeetSum/internal/presenter"
)

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(result presenter.AnalysisResult) ([]byte, error)
}

// Options shared by the formatters.
type Options struct {
	// TabOrder lists the sections shown first; other sections follow sorted
	TabOrder []string

	// FieldOrder lists the record keys shown first; other keys follow sorted
	FieldOrder []string

	// Color enables ANSI colors in text output
	Color bool

	// Emoji enables section icons in text output
	Emoji bool
}

// DefaultOptions returns the stock section order with color and emoji on.
func DefaultOptions() Options {
	return Options{
		TabOrder:   presenter.DefaultTabOrder,
		FieldOrder: presenter.DefaultFieldOrder,
		Color:      true,
		Emoji:      true,
	}
}

// New returns the formatter for format: text, json, markdown or html.
func New(format string, opts Options) (Formatter, error) {
	switch format {
	case "json":
		return NewJSON(), nil
	case "text", "":
		return NewText(opts), nil
	case "markdown", "md":
		return NewMarkdown(opts), nil
	case "html":
		return NewHTML(opts), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: text, json, markdown, html)", format)
	}
}

// sections lists the section names to print, in tab order.
func sections(result presenter.AnalysisResult, order []string) []string {
	if len(order) == 0 {
		order = presenter.DefaultTabOrder
	}
	return presenter.SectionNames(result, order)
}

func fieldOrder(o Options) []string {
	if len(o.FieldOrder) == 0 {
		return presenter.DefaultFieldOrder
	}
	return o.FieldOrder
}
