package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer holds one template set per page, each cloned from the layout
type Renderer struct {
	templates map[string]*template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		// only our own csv data: links are trusted
		"dataURL": func(s string) template.URL {
			if !strings.HasPrefix(s, "data:file/csv;base64,") {
				return ""
			}
			return template.URL(s)
		},
	}
}

// NewRenderer parses the embedded layout and pages
func NewRenderer() (*Renderer, error) { return newRenderer(templateFS) }

func newRenderer(fsys fs.FS) (*Renderer, error) {
	base, err := template.New("base").Funcs(funcs()).ParseFS(fsys, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	pages, err := fs.Glob(fsys, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	out := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		name := strings.TrimSuffix(path.Base(p), ".html")
		if name == "layout" {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layout for %s: %w", name, err)
		}
		if t, err = t.ParseFS(fsys, p); err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		out[name] = t
	}
	return &Renderer{templates: out}, nil
}

// Render executes page inside the layout
func (r *Renderer) Render(w io.Writer, page string, data any) error {
	t, ok := r.templates[page]
	if !ok {
		return fmt.Errorf("template %q not found", page)
	}
	if err := t.ExecuteTemplate(w, "base", data); err != nil {
		return fmt.Errorf("render %s: %w", page, err)
	}
	return nil
}
