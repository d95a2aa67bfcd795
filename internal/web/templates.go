package web

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/scmmishra/inorder/internal/logging"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Every page is the layout plus one content template.
var pages = []string{
	"templates/home.html",
	"templates/authors.html",
	"templates/author.html",
	"templates/series_list.html",
	"templates/series.html",
	"templates/search.html",
	"templates/not_found.html",
}

type TemplateRegistry struct {
	cache map[string]*template.Template
}

func NewTemplateRegistry() (*TemplateRegistry, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncMap()).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	tr := &TemplateRegistry{cache: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		t, err := template.Must(layout.Clone()).ParseFS(templateFS, page)
		if err != nil {
			return nil, err
		}
		tr.cache[page] = t
	}
	return tr, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind a 200.
func (tr *TemplateRegistry) Render(w http.ResponseWriter, status int, name string, data any) {
	t, ok := tr.cache[name]
	if !ok {
		http.Error(w, "template not found: "+name, http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		logging.Component("web").Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}
