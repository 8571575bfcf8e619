package web

import (
	"html/template"

	"github.com/yildizm/MeetSum/internal/notice"
	"github.com/yildizm/MeetSum/internal/presenter"
)

// resultsView is the data behind the results region.
type resultsView struct {
	HasResult bool
	Tabs      []presenter.Tab
	Content   template.HTML
}

type pageView struct {
	Results   resultsView
	Steps     []string
	MaxMB     int
	AcceptExt string
}

func newResultsView(p *presenter.Presenter) resultsView {
	return resultsView{
		HasResult: p.HasResult(),
		Tabs:      p.Tabs(),
		// HTMLRenderer escapes every backend value
		Content: template.HTML(p.Render()), // #nosec G203
	}
}

func noticeView(n notice.Notice) map[string]any {
	return map[string]any{"Level": string(n.Level), "Message": n.HTML()}
}

const markup = `
{{- define "notice" -}}
<div id="notice" class="notice notice-{{.Level}}" role="alert">{{.Message}}</div>
{{- end -}}

{{- define "results" -}}
<section id="results"{{if not .HasResult}} hidden{{end}}>
<nav class="tabs" role="tablist">
{{- range .Tabs}}<button type="button" class="tab-button{{if .Active}} active{{end}}" data-tab="{{.Name}}" role="tab" aria-selected="{{.Active}}">{{.Label}}</button>{{end -}}
</nav>
<div id="tab-content" class="tab-content">{{.Content}}</div>
<div class="actions">
<button type="button" id="copy-btn">Copy JSON</button>
<a id="download-btn" href="/export" download>Download JSON</a>
<button type="button" id="reset-btn">New Analysis</button>
</div>
</section>
{{- end -}}

{{- define "page" -}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>MeetSum</title>
<style>
body{font-family:system-ui,sans-serif;max-width:960px;margin:2rem auto;padding:0 1rem;color:#111827}
.notice{padding:.75rem 1rem;border-radius:6px;margin:1rem 0}
.notice-info{background:#DBEAFE}.notice-success{background:#D1FAE5}.notice-error{background:#FEE2E2}
.notice:empty{display:none}
.tabs{display:flex;flex-wrap:wrap;gap:.25rem;border-bottom:1px solid #D1D5DB}
.tab-button{border:0;background:none;padding:.5rem .75rem;cursor:pointer}
.tab-button.active{border-bottom:2px solid #1E40AF;font-weight:600}
.content-item{border:1px solid #E5E7EB;border-radius:6px;margin:.75rem 0;padding:.75rem}
.content-item-header{display:flex;gap:.5rem;align-items:center;font-weight:600}
.content-item-number{background:#1E40AF;color:#fff;border-radius:50%;width:1.5rem;height:1.5rem;text-align:center}
.empty-state{text-align:center;color:#6B7280;padding:2rem}
.actions{margin-top:1rem;display:flex;gap:.5rem}
#loading ol{list-style:none;padding:0}#loading li.done::before{content:"✓ "}#loading li.active{font-weight:600}
</style>
</head>
<body>
<h1>Meeting Analysis</h1>
<div id="notice" class="notice" role="alert"></div>
<form id="upload-form" enctype="multipart/form-data">
<input type="file" id="file-input" name="file" accept="{{.AcceptExt}}">
<button type="submit" id="analyze-btn">Analyze</button>
<button type="button" id="help-btn">Help</button>
<small>Plain-text transcripts up to {{.MaxMB}} MB</small>
</form>
<div id="loading" hidden><ol>{{range .Steps}}<li>{{.}}</li>{{end}}</ol></div>
{{template "results" .Results}}
<script>
(function(){
  const $ = (id) => document.getElementById(id);
  let timer = null;

  function swap(id, html) {
    const el = $(id);
    const tpl = document.createElement('template');
    tpl.innerHTML = html.trim();
    el.replaceWith(tpl.content.firstChild);
  }
  function notice(level, text) {
    const el = $('notice');
    el.className = 'notice notice-' + level;
    el.textContent = text;
    setTimeout(() => { if (el.textContent === text) { el.textContent = ''; } }, 4000);
  }
  function loading(on) {
    $('loading').hidden = !on;
    $('analyze-btn').disabled = on;
    const steps = $('loading').querySelectorAll('li');
    clearInterval(timer);
    steps.forEach((li) => li.className = '');
    if (!on) { return; }
    let i = 0;
    steps[0].className = 'active';
    timer = setInterval(() => {
      if (i < steps.length - 1) { steps[i].className = 'done'; i++; steps[i].className = 'active'; }
    }, 2000);
  }
  async function send(url, opts) {
    const res = await fetch(url, Object.assign({credentials: 'same-origin'}, opts));
    const html = await res.text();
    if (html.startsWith('<div id="notice"')) { swap('notice', html); return false; }
    swap('results', html);
    return true;
  }
  function bind() {
    document.querySelectorAll('.tab-button').forEach((b) => {
      b.addEventListener('click', () => send('/tabs?name=' + encodeURIComponent(b.dataset.tab)).then(bind));
    });
    const copy = $('copy-btn');
    if (copy) {
      copy.addEventListener('click', async () => {
        const res = await fetch('/export', {credentials: 'same-origin'});
        if (!res.ok) { swap('notice', await res.text()); return; }
        try {
          await navigator.clipboard.writeText(await res.text());
          notice('success', 'Results copied to clipboard');
        } catch (e) {
          notice('error', 'Failed to copy to clipboard');
        }
      });
    }
    const reset = $('reset-btn');
    if (reset) {
      reset.addEventListener('click', () => {
        $('upload-form').reset();
        send('/reset', {method: 'POST'}).then(bind);
      });
    }
  }
  $('upload-form').addEventListener('submit', async (ev) => {
    ev.preventDefault();
    loading(true);
    try {
      await send('/analyze', {method: 'POST', body: new FormData(ev.target)});
    } catch (e) {
      notice('error', 'Error: ' + e.message);
    } finally {
      loading(false);
      bind();
    }
  });
  $('help-btn').addEventListener('click', () => fetch('/help').then((r) => r.text()).then((h) => swap('notice', h)));
  bind();
})();
</script>
</body>
</html>
{{- end -}}
`

var templates = template.Must(template.New("web").Parse(markup))
