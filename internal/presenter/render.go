package presenter

import (
	"html/template"
	"strconv"
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Renderer turns a Section into output for one surface.
type Renderer interface {
	RenderSection(s Section) string
}

// Render is the pure render of tab within result using r.
func Render(r Renderer, result AnalysisResult, tab string) string {
	return r.RenderSection(Interpret(tab, result[tab], DefaultFieldOrder))
}

// HTMLRenderer produces markup for the web surface. Every backend value
// goes through html/template escaping.
type HTMLRenderer struct{}

const sectionMarkup = `
{{- define "empty" -}}
<div class="empty-state"><svg width="64" height="64" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="1.5" aria-hidden="true"><circle cx="12" cy="12" r="10"></circle><line x1="8" y1="12" x2="16" y2="12"></line></svg><p>{{.}}</p></div>
{{- end -}}
{{- define "scalar" -}}
<div class="summary-text"><p>{{.}}</p></div>
{{- end -}}
{{- define "list" -}}
<div class="summary-text"><ul>{{range .}}<li>{{.}}</li>{{end}}</ul></div>
{{- end -}}
{{- define "records" -}}
{{range .}}<div class="content-item">
{{- if .Number}}<div class="content-item-header"><div class="content-item-number">{{.Number}}</div><div class="content-item-title">Item</div></div>{{end -}}
<div class="content-item-body">{{range .Fields}}<p><strong>{{.Label}}:</strong> {{.Value}}</p>{{end}}</div></div>{{end}}
{{- end -}}
`

var sectionTemplates = template.Must(template.New("section").Parse(sectionMarkup))

func (HTMLRenderer) RenderSection(s Section) string {
	var (
		name string
		data any
	)
	switch s.Kind {
	case KindScalar:
		name, data = "scalar", s.Text
	case KindStringList:
		name, data = "list", s.Items
	case KindObjectList, KindSingleObject:
		name, data = "records", s.Records
	default:
		name, data = "empty", EmptyMessage(s.Tab)
	}

	var b strings.Builder
	if err := sectionTemplates.ExecuteTemplate(&b, name, data); err != nil {
		return "<p>" + template.HTMLEscapeString(EmptyMessage(s.Tab)) + "</p>"
	}
	return b.String()
}

// TextRenderer produces plain text for terminal targets. Markup is never
// interpreted and terminal control sequences are removed.
type TextRenderer struct{}

// StripControl removes escape sequences and control characters other than
// newline and tab, so backend text cannot drive the terminal.
func StripControl(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, ansi.Strip(s))
}

func (TextRenderer) RenderSection(s Section) string {
	var b strings.Builder
	switch s.Kind {
	case KindScalar:
		b.WriteString(s.Text)
	case KindStringList:
		for i, item := range s.Items {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("• ")
			b.WriteString(item)
		}
	case KindObjectList, KindSingleObject:
		for i, rec := range s.Records {
			if i > 0 {
				b.WriteString("\n\n")
			}
			indent := ""
			if rec.Number > 0 {
				b.WriteString(strconv.Itoa(rec.Number))
				b.WriteString(". Item")
				indent = "   "
			}
			for j, f := range rec.Fields {
				if rec.Number > 0 || j > 0 {
					b.WriteString("\n")
				}
				b.WriteString(indent)
				b.WriteString(f.Label)
				b.WriteString(": ")
				b.WriteString(f.Value)
			}
		}
	default:
		b.WriteString(EmptyMessage(s.Tab))
	}
	return StripControl(b.String())
}
