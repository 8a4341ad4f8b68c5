package web

import (
	"html/template"
	"io"
	"net/http"
	"strings"

	"treeedit-cli/internal/logger"
	"treeedit-cli/internal/render"
)

type rowVM struct {
	Ref   string
	Glyph string
	Label string
	Depth int
}

type editorVM struct {
	Path      string
	RootLabel string
	Rows      []rowVM
	Dirty     bool
	ReadOnly  bool
}

type outVM struct {
	Output string
}

type pageVM struct {
	editorVM
	Output string
	Help   template.HTML
}

func (s *Server) editorVMLocked() editorVM {
	lines := render.Lines(s.tree, render.Options{Glyphs: s.cfg.Glyphs})
	rows := make([]rowVM, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, rowVM{
			Ref:   string(l.Ref),
			Glyph: l.Padding + l.Prefix,
			Label: l.Label,
			Depth: l.Depth,
		})
	}
	return editorVM{
		Path:      s.cfg.File.Path,
		RootLabel: s.tree.RootLabel,
		Rows:      rows,
		Dirty:     s.dirty,
		ReadOnly:  s.cfg.ReadOnly,
	}
}

// renderFragments renders the two live regions of the page from the current
// tree.
func (s *Server) renderFragments() (editorHTML string, outHTML string, dirty bool, err error) {
	s.mu.Lock()
	vm := s.editorVMLocked()
	out := outVM{Output: render.RenderWith(s.tree, render.Options{Glyphs: s.cfg.Glyphs})}
	s.mu.Unlock()

	if editorHTML, err = s.renderTemplate("tree-editor", vm); err != nil {
		return "", "", false, err
	}
	if outHTML, err = s.renderTemplate("out", out); err != nil {
		return "", "", false, err
	}
	return editorHTML, outHTML, vm.Dirty, nil
}

func (s *Server) renderTemplate(name string, data any) (string, error) {
	var b strings.Builder
	if err := s.tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (s *Server) writeHTMLTemplate(w http.ResponseWriter, name string, data any) {
	html, err := s.renderTemplate(name, data)
	if err != nil {
		logger.Error("render template", "name", name, "err", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, html)
}
