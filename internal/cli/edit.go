package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/logger"
	"treeedit-cli/internal/model"
	"treeedit-cli/internal/mutate"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

type actionSpec struct {
	action mutate.EditAction
	use    string
	short  string
	// pathOptional allows the empty path (the tree container).
	pathOptional bool
}

var actionSpecs = map[mutate.EditAction]actionSpec{
	mutate.AddSibling: {use: "add-sibling <file> <path>", short: "Insert an empty node right after <path>"},
	mutate.AddChild:   {use: "add-child <file> [path]", short: "Append an empty child to <path> (no path: a new top-level node)", pathOptional: true},
	mutate.Delete:     {use: "delete <file> <path>", short: "Delete <path> and everything below it"},
}

// newActionCmds builds one command per edit action.
func newActionCmds(app *App) []*cobra.Command {
	var out []*cobra.Command
	for _, a := range mutate.Actions() {
		spec, ok := actionSpecs[a]
		if !ok {
			continue
		}
		spec.action = a
		out = append(out, newActionCmd(app, spec))
	}
	return out
}

type editResult struct {
	Action  string `json:"action"`
	Path    string `json:"path"`
	Created string `json:"created,omitempty"`
	Label   string `json:"label,omitempty"`
	Render  string `json:"render"`
}

func newActionCmd(app *App, spec actionSpec) *cobra.Command {
	var label string

	args := cobra.ExactArgs(2)
	if spec.pathOptional {
		args = cobra.RangeArgs(1, 2)
	}
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := ""
			if len(args) > 1 {
				p = args[1]
			}
			f, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			ref, err := resolvePath(t, p)
			if err != nil {
				return writeErr(cmd, withPathHint(err, f.Path))
			}

			res, err := mutate.Apply(t, spec.action, ref)
			if err != nil {
				return writeErr(cmd, withPathHint(err, f.Path))
			}
			out := editResult{Action: spec.action.String(), Path: p}
			if res.Created != "" {
				if cmd.Flags().Changed("label") {
					if err := t.SetLabel(res.Created, label); err != nil {
						return writeErr(cmd, err)
					}
					out.Label = label
				}
				out.Created = pathString(t, res.Created)
			}
			return saveAndReport(cmd, app, f, t, out)
		},
	}
	if spec.action != mutate.Delete {
		cmd.Flags().StringVar(&label, "label", "", "Label for the new node")
	}
	return cmd
}

func newSetLabelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-label <file> <path> <text>",
		Short: "Replace the label of the node at <path>",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			if strings.TrimSpace(args[1]) == "" {
				return writeErr(cmd, errors.New("missing path (use set-root for the root label)"))
			}
			ref, err := resolvePath(t, args[1])
			if err != nil {
				return writeErr(cmd, withPathHint(err, f.Path))
			}
			if err := t.SetLabel(ref, args[2]); err != nil {
				return writeErr(cmd, err)
			}
			return saveAndReport(cmd, app, f, t, editResult{Action: "set-label", Path: args[1], Label: args[2]})
		},
	}
}

func newSetRootCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set-root <file> <text>",
		Short: "Replace the root label",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			t.SetRootLabel(args[1])
			return saveAndReport(cmd, app, f, t, editResult{Action: "set-root", Label: args[1]})
		},
	}
}

func saveAndReport(cmd *cobra.Command, app *App, f store.File, t *model.Tree, res editResult) error {
	if err := f.Save(t); err != nil {
		return writeErr(cmd, fmt.Errorf("save %s: %w", f.Path, err))
	}
	logger.Info("tree edited", "action", res.Action, "path", res.Path, "file", f.Path)
	res.Render = render.Render(t)
	return writeOut(cmd, app, map[string]any{"data": res})
}

func withPathHint(err error, file string) error {
	if !isUsageError(err) {
		return err
	}
	return fmt.Errorf("%w (run `treeedit export %s` to list node paths)", err, file)
}
