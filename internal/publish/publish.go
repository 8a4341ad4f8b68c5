package publish

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"treeedit-cli/internal/model"
)

type WriteOptions struct {
	// Name is the output base name; defaults to the root label.
	Name      string
	HTML      bool
	Outline   bool
	Overwrite bool
}

type WriteResult struct {
	Written []string `json:"written"`
}

// WriteTree writes <name>.md (and <name>.html when asked) into toDir.
func WriteTree(t *model.Tree, toDir string, opt WriteOptions) (WriteResult, error) {
	if t == nil {
		return WriteResult{}, errors.New("missing tree")
	}
	toDir = strings.TrimSpace(toDir)
	if toDir == "" {
		return WriteResult{}, errors.New("missing --to")
	}
	toDir = filepath.Clean(toDir)
	if err := os.MkdirAll(toDir, 0o755); err != nil {
		return WriteResult{}, err
	}

	name := fileName(opt.Name, t.RootLabel)
	md := RenderTreeMarkdown(t, RenderOptions{Outline: opt.Outline})

	mdPath := filepath.Join(toDir, name+".md")
	if err := writeFile(mdPath, []byte(md), opt.Overwrite); err != nil {
		return WriteResult{}, err
	}
	written := []string{mdPath}

	if opt.HTML {
		title := strings.TrimSpace(t.RootLabel)
		if title == "" {
			title = name
		}
		page, err := RenderHTMLPage(title, md)
		if err != nil {
			return WriteResult{}, err
		}
		htmlPath := filepath.Join(toDir, name+".html")
		if err := writeFile(htmlPath, []byte(page), opt.Overwrite); err != nil {
			return WriteResult{}, err
		}
		written = append(written, htmlPath)
	}
	return WriteResult{Written: written}, nil
}

// fileName turns a label into a safe single path segment.
func fileName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = strings.TrimSpace(fallback)
	}
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, name)
	name = strings.Trim(name, ". ")
	if name == "" {
		return "tree"
	}
	return name
}

func writeFile(path string, b []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return errors.New("file exists (use --overwrite): " + path)
		}
	}
	return os.WriteFile(path, b, 0o644)
}
