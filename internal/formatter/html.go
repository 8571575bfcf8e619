package formatter

import (
	"bytes"
	"html/template"

	"github.com/yildizm/MeetSum/internal/presenter"
)

const pageMarkup = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Meeting Analysis</title>
<style>
body{font-family:system-ui,sans-serif;max-width:860px;margin:2rem auto;padding:0 1rem;color:#1f2937}
h2{border-bottom:1px solid #e5e7eb;padding-bottom:.3rem;margin-top:2rem}
.content-item{border:1px solid #e5e7eb;border-radius:8px;padding:.75rem 1rem;margin:.75rem 0}
.content-item-header{display:flex;gap:.5rem;align-items:center;font-weight:600}
.content-item-number{background:#2563eb;color:#fff;border-radius:999px;width:1.6rem;height:1.6rem;display:flex;align-items:center;justify-content:center}
.empty-state{color:#6b7280;text-align:center;padding:1rem}
.empty-state svg{display:none}
</style>
</head>
<body>
<h1>Meeting Analysis</h1>
{{range .}}<section id="{{.Name}}">
<h2>{{.Label}}</h2>
{{.Body}}
</section>
{{end}}</body>
</html>
`

var pageTemplate = template.Must(template.New("page").Parse(pageMarkup))

type pageSection struct {
	Name  string
	Label string
	Body  template.HTML
}

// htmlFormatter writes a standalone page with every section
type htmlFormatter struct {
	order  []string
	fields []string
}

// NewHTML creates a new HTML page formatter
func NewHTML(o Options) Formatter {
	return &htmlFormatter{order: o.TabOrder, fields: fieldOrder(o)}
}

func (f *htmlFormatter) Format(result presenter.AnalysisResult) ([]byte, error) {
	names := sections(result, f.order)
	data := make([]pageSection, 0, len(names))
	for _, name := range names {
		data = append(data, pageSection{
			Name:  name,
			Label: presenter.FormatKey(name),
			// HTMLRenderer escapes every backend value
			Body: template.HTML(presenter.HTMLRenderer{}.RenderSection( // #nosec G203
				presenter.Interpret(name, result[name], f.fields))),
		})
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
