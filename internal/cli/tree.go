package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

// openTree loads an existing tree file.
func openTree(path string) (store.File, *model.Tree, error) {
	f := store.File{Path: path}
	if !f.Exists() {
		return f, nil, errTreeFileNotFound(path)
	}
	t, err := f.Load()
	if err != nil {
		return f, nil, err
	}
	return f, t, nil
}

// resolvePath turns a positional path ("2.1") into a ref. The empty path is
// the tree container.
func resolvePath(t *model.Tree, p string) (model.NodeRef, error) {
	path, err := model.ParsePath(p)
	if err != nil {
		return "", err
	}
	ref, err := t.RefAt(path)
	if err != nil {
		return "", badPathError{path: p, err: err}
	}
	return ref, nil
}

func pathString(t *model.Tree, ref model.NodeRef) string {
	if ref == "" {
		return ""
	}
	p, err := t.PathOf(ref)
	if err != nil {
		return ""
	}
	return model.FormatPath(p)
}

func newInitCmd(app *App) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "init <file>",
		Short: "Create an empty tree file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := store.File{Path: args[0]}
			label := root
			if !cmd.Flags().Changed("root") {
				label = f.DefaultRootLabel()
			}
			t, err := f.Create(label)
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"path":      f.Path,
					"rootLabel": t.RootLabel,
				},
				"_hints": []string{
					"treeedit " + f.Path,
					"treeedit add-child " + f.Path,
				},
			})
		},
	}

	cmd.Flags().StringVar(&root, "root", "", "Root label (default: file name without extension)")
	return cmd
}

func newRenderCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "render <file>",
		Short: "Print the rendered tree",
		Long: strings.TrimSpace(`
Print the rendered tree as plain text. With --glyphs unicode the box-drawing
set is used; the file itself is unchanged.
`),
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			glyphs, err := app.glyphs()
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), render.RenderWith(t, render.Options{Glyphs: glyphs}))
			return err
		},
	}
}

type exportNode struct {
	Path     string        `json:"path"`
	Label    string        `json:"label"`
	Children []*exportNode `json:"children,omitempty"`
}

type exportTree struct {
	RootLabel string        `json:"rootLabel"`
	Nodes     []*exportNode `json:"nodes"`
	Count     int           `json:"count"`
}

// exportOf mirrors the tree with positional paths in place of ids, since ids
// are not stable across loads.
func exportOf(t *model.Tree) exportTree {
	var conv func(nodes []*model.Node, prefix []int) []*exportNode
	conv = func(nodes []*model.Node, prefix []int) []*exportNode {
		out := make([]*exportNode, 0, len(nodes))
		for i, n := range nodes {
			p := append(append([]int(nil), prefix...), i+1)
			out = append(out, &exportNode{
				Path:     model.FormatPath(p),
				Label:    n.Label,
				Children: conv(n.Children, p),
			})
		}
		return out
	}
	return exportTree{RootLabel: t.RootLabel, Nodes: conv(t.Nodes, nil), Count: t.Len()}
}

func newExportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Print the tree as structured data (--format json|yaml)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": exportOf(t)})
		},
	}
}

// isUsageError reports errors worth a pointer at the path syntax.
func isUsageError(err error) bool {
	var bp badPathError
	return errors.As(err, &bp) || errors.Is(err, model.ErrInvalidReference)
}
