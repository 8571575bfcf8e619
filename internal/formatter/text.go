package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yildizm/go-termfmt"

	"github.com/yildizm/MeetSum/internal/emoji"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// textFormatter formats output as plain text trees using go-termfmt
type textFormatter struct {
	order   []string
	fields  []string
	opts    *termfmt.TerminalOptions
	heading lipgloss.Style
}

// NewText creates a text formatter for terminal display
func NewText(o Options) Formatter {
	opts := termfmt.DefaultOptions()
	opts.Color = o.Color
	opts.Emoji = o.Emoji

	heading := lipgloss.NewStyle()
	if o.Color {
		heading = heading.Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "#1D4ED8", Dark: "#60A5FA"})
	}
	return &textFormatter{order: o.TabOrder, fields: fieldOrder(o), opts: opts, heading: heading}
}

func (f *textFormatter) Format(result presenter.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	f.writeHeader(&b)

	names := sections(result, f.order)
	for i, name := range names {
		f.writeSection(&b, presenter.Interpret(name, result[name], f.fields))
		if i < len(names)-1 {
			b.WriteString("\n")
		}
	}

	return []byte(b.String()), nil
}

// writeHeader writes the report title in a box
func (f *textFormatter) writeHeader(b *strings.Builder) {
	header := "Meeting Analysis"
	headerLen := len(header)

	b.WriteString("╔" + strings.Repeat("═", headerLen+2) + "╗\n")
	b.WriteString("║ " + header + " ║\n")
	b.WriteString("╚" + strings.Repeat("═", headerLen+2) + "╝\n\n")
}

func (f *textFormatter) writeSection(b *strings.Builder, s presenter.Section) {
	title := presenter.StripControl(presenter.FormatKey(s.Tab))
	if f.opts.Emoji {
		title = emoji.ForSection(s.Tab) + " " + title
	}
	b.WriteString(f.heading.Render(title) + "\n")

	switch s.Kind {
	case presenter.KindScalar:
		b.WriteString(wrap(presenter.StripControl(s.Text), 78, "  ") + "\n")
	case presenter.KindStringList:
		items := make([]termfmt.TreeItem, len(s.Items))
		for i, item := range s.Items {
			items[i] = termfmt.TreeItem{Label: presenter.StripControl(item), Last: i == len(s.Items)-1}
		}
		b.WriteString(termfmt.TreeViewWithOptions(items, f.opts) + "\n")
	case presenter.KindObjectList, presenter.KindSingleObject:
		b.WriteString(termfmt.TreeViewWithOptions(recordItems(s.Records), f.opts) + "\n")
	default:
		b.WriteString("  " + presenter.StripControl(presenter.EmptyMessage(s.Tab)) + "\n")
	}
}

func recordItems(records []presenter.Record) []termfmt.TreeItem {
	// A single object is shown flat, without an "Item" node
	if len(records) == 1 && records[0].Number == 0 {
		return fieldItems(records[0].Fields)
	}

	items := make([]termfmt.TreeItem, len(records))
	for i, rec := range records {
		items[i] = termfmt.TreeItem{
			Label:    fmt.Sprintf("Item %d", rec.Number),
			Children: fieldItems(rec.Fields),
			Last:     i == len(records)-1,
		}
	}
	return items
}

func fieldItems(fields []presenter.Field) []termfmt.TreeItem {
	items := make([]termfmt.TreeItem, len(fields))
	for i, field := range fields {
		items[i] = termfmt.TreeItem{
			Label: presenter.StripControl(field.Label),
			Value: presenter.StripControl(field.Value),
			Last:  i == len(fields)-1,
		}
	}
	return items
}

// wrap breaks text on spaces so no line exceeds width, indenting each line
func wrap(text string, width int, indent string) string {
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			lines = append(lines, indent)
			continue
		}
		line := indent + words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				lines = append(lines, line)
				line = indent + w
				continue
			}
			line += " " + w
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
