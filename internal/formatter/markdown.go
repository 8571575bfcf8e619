package formatter

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"

	"github.com/yildizm/MeetSum/internal/presenter"
)

// documentMarkup renders every part of the document as plain semantic HTML,
// which the converter turns into Markdown with all backend text escaped.
const documentMarkup = `
{{- define "toc" -}}<h2>Table of Contents</h2><ul>{{range .}}<li><a href="#{{.Anchor}}">{{.Label}}</a></li>{{end}}</ul>{{- end -}}
{{- define "heading" -}}<h2>{{.}}</h2>{{- end -}}
{{- define "empty" -}}<p><em>{{.}}</em></p>{{- end -}}
{{- define "scalar" -}}<p>{{.}}</p>{{- end -}}
{{- define "list" -}}<ul>{{range .}}<li>{{.}}</li>{{end}}</ul>{{- end -}}
{{- define "records" -}}
{{range .}}{{if .Number}}<h3>Item {{.Number}}</h3>{{end}}<ul>{{range .Fields}}<li><strong>{{.Label}}:</strong> {{.Value}}</li>{{end}}</ul>{{end}}
{{- end -}}
`

var documentTemplates = template.Must(template.New("document").Parse(documentMarkup))

type tocEntry struct {
	Label  string
	Anchor string
}

// markdownFormatter formats output as Markdown
type markdownFormatter struct {
	order  []string
	fields []string
	conv   *converter.Converter
}

// NewMarkdown creates a new Markdown formatter
func NewMarkdown(o Options) Formatter {
	return &markdownFormatter{
		order:  o.TabOrder,
		fields: fieldOrder(o),
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(commonmark.WithEmDelimiter("_")),
				table.NewTablePlugin(),
			),
		),
	}
}

func (f *markdownFormatter) Format(result presenter.AnalysisResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString("# Meeting Analysis\n\n")

	names := sections(result, f.order)
	toc := make([]tocEntry, len(names))
	for i, name := range names {
		label := presenter.FormatKey(name)
		toc[i] = tocEntry{Label: label, Anchor: anchor(label)}
	}
	if err := f.writeBlock(&b, "toc", toc); err != nil {
		return nil, fmt.Errorf("failed to format table of contents: %w", err)
	}

	for i, name := range names {
		if err := f.writeBlock(&b, "heading", toc[i].Label); err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", name, err)
		}
		if err := f.section(&b, presenter.Interpret(name, result[name], f.fields)); err != nil {
			return nil, fmt.Errorf("failed to format %s: %w", name, err)
		}
	}

	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

func (f *markdownFormatter) section(b *strings.Builder, s presenter.Section) error {
	switch s.Kind {
	case presenter.KindScalar:
		return f.writeBlock(b, "scalar", s.Text)
	case presenter.KindStringList:
		return f.writeBlock(b, "list", s.Items)
	case presenter.KindObjectList, presenter.KindSingleObject:
		return f.writeBlock(b, "records", s.Records)
	default:
		return f.writeBlock(b, "empty", presenter.EmptyMessage(s.Tab))
	}
}

// writeBlock executes one template and appends its Markdown conversion.
func (f *markdownFormatter) writeBlock(b *strings.Builder, name string, data any) error {
	var html strings.Builder
	if err := documentTemplates.ExecuteTemplate(&html, name, data); err != nil {
		return err
	}
	md, err := f.conv.ConvertString(html.String())
	if err != nil {
		return err
	}
	b.WriteString(strings.TrimSpace(md) + "\n\n")
	return nil
}

// anchor builds a GitHub-style heading anchor
func anchor(label string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(label) {
		switch {
		case r == ' ':
			b.WriteRune('-')
		case r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
