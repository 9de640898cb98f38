package dashboard

import (
	"bytes"
	"html/template"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// kbPageTemplate is the Go html/template shared by the knowledge-base
// index and document pages.
const kbPageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>{{.Title}} — Malaysian Loan Bot</title>
  <style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", sans-serif; max-width: 760px; margin: 2rem auto; padding: 0 1rem; color: #1f2328; }
    a { color: #0969da; text-decoration: none; }
    a:hover { text-decoration: underline; }
    h1 { border-bottom: 1px solid #d1d9e0; padding-bottom: .4rem; }
    ul.kb-list { list-style: none; padding: 0; }
    ul.kb-list li { padding: .5rem 0; border-bottom: 1px solid #eef1f4; }
    .kb-nav { margin-bottom: 1.5rem; font-size: .9rem; }
    article { line-height: 1.6; }
    pre { background: #f6f8fa; padding: .8rem; border-radius: 6px; overflow-x: auto; }
  </style>
</head>
<body>
  <div class="kb-nav"><a href="/">Dashboard</a> · <a href="/kb">Knowledge Base</a></div>
  <h1>{{.Title}}</h1>
  <article>{{.Content}}</article>
</body>
</html>`

var kbTemplate = template.Must(template.New("kb").Parse(kbPageTemplate))

// kbPage holds the data passed to the knowledge-base template.
type kbPage struct {
	Title   string
	Content template.HTML
}

func (d *Dashboard) handleKBIndex(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	buf.WriteString(`<ul class="kb-list">`)
	if d.knowledge != nil {
		for i, doc := range d.knowledge.Documents() {
			buf.WriteString(`<li><a href="/kb/` + strconv.Itoa(i) + `">`)
			template.HTMLEscape(&buf, []byte(doc.Title))
			buf.WriteString(`</a></li>`)
		}
	}
	buf.WriteString(`</ul>`)

	d.renderKB(w, kbPage{Title: "Knowledge Base", Content: template.HTML(buf.String())})
}

func (d *Dashboard) handleKBDocument(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "idx"))
	if err != nil || d.knowledge == nil || idx < 0 || idx >= d.knowledge.Count() {
		http.NotFound(w, r)
		return
	}

	doc := d.knowledge.Documents()[idx]

	var rendered bytes.Buffer
	if err := d.markdown.Convert([]byte(doc.Body), &rendered); err != nil {
		http.Error(w, "rendering document", http.StatusInternalServerError)
		return
	}

	d.renderKB(w, kbPage{Title: doc.Title, Content: template.HTML(rendered.String())})
}

func (d *Dashboard) renderKB(w http.ResponseWriter, page kbPage) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := kbTemplate.Execute(w, page); err != nil {
		http.Error(w, "rendering page", http.StatusInternalServerError)
	}
}
