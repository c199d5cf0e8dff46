// Package view renders the server-side HTML pages.
package view

import (
	"fmt"
	"html/template"
	"net/http"
	"path/filepath"
)

type Renderer struct {
	templates *template.Template
}

// New parses every template under dir once at startup.
func New(dir string) (*Renderer, error) {
	tmpl, err := template.ParseGlob(filepath.Join(dir, "*.html"))
	if err != nil {
		return nil, fmt.Errorf("view.New: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, code int, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if err := r.templates.ExecuteTemplate(w, name, data); err != nil {
		// Headers are already written; nothing left to do but log upstream.
		fmt.Fprintf(w, "template error: %v", err)
	}
}
