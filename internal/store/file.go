package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/parse"
	"treeedit-cli/internal/render"
)

// File is a tree stored as its rendered text. There is no other on-disk
// format.
type File struct {
	Path string
}

func (f File) clean() (string, error) {
	p := strings.TrimSpace(f.Path)
	if p == "" {
		return "", errors.New("missing tree file path")
	}
	return filepath.Clean(p), nil
}

// DefaultRootLabel is the root label used for a file that does not exist yet:
// its base name without extension.
func (f File) DefaultRootLabel() string {
	base := filepath.Base(strings.TrimSpace(f.Path))
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (f File) Exists() bool {
	p, err := f.clean()
	if err != nil {
		return false
	}
	_, err = os.Stat(p)
	return err == nil
}

// Load parses the file. A missing file yields a fresh empty tree.
func (f File) Load() (*model.Tree, error) {
	p, err := f.clean()
	if err != nil {
		return nil, err
	}
	fh, err := os.Open(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewTree(f.DefaultRootLabel()), nil
		}
		return nil, err
	}
	defer fh.Close()

	t, err := parse.Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p, err)
	}
	t.Reindex()
	return t, nil
}

// ErrLineBreakInLabel is returned by Save for a tree whose text could not be
// loaded back: the rendered form has one line per node.
var ErrLineBreakInLabel = errors.New("label contains a line break")

// LabelError names the offending node by its positional path. An empty Path
// is the root label.
type LabelError struct {
	Path  string
	Label string
}

func (e *LabelError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("root label %q contains a line break", e.Label)
	}
	return fmt.Sprintf("label %q at %s contains a line break", e.Label, e.Path)
}

func (e *LabelError) Unwrap() error { return ErrLineBreakInLabel }

func hasLineBreak(s string) bool {
	return strings.ContainsAny(s, "\r\n")
}

// checkLabels finds the first label the file format cannot hold.
func checkLabels(t *model.Tree) error {
	if hasLineBreak(t.RootLabel) {
		return &LabelError{Label: t.RootLabel}
	}
	var walk func(nodes []*model.Node, prefix []int) error
	walk = func(nodes []*model.Node, prefix []int) error {
		for i, n := range nodes {
			p := append(append([]int(nil), prefix...), i+1)
			if hasLineBreak(n.Label) {
				return &LabelError{Path: model.FormatPath(p), Label: n.Label}
			}
			if err := walk(n.Children, p); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(t.Nodes, nil)
}

// Save writes the rendered tree atomically. Trees with line breaks in a label
// are refused and the file is left untouched.
func (f File) Save(t *model.Tree) error {
	p, err := f.clean()
	if err != nil {
		return err
	}
	if err := checkLabels(t); err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return atomicWriteFile(dir, filepath.Base(p)+".*.tmp", p, []byte(render.Render(t)), 0o644)
}

// Create writes a new tree file and fails if one exists already.
func (f File) Create(rootLabel string) (*model.Tree, error) {
	if f.Exists() {
		return nil, fmt.Errorf("tree file already exists: %s", f.Path)
	}
	t := model.NewTree(rootLabel)
	if err := f.Save(t); err != nil {
		return nil, err
	}
	return t, nil
}
