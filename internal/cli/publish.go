package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/publish"
)

func newPublishCmd(app *App) *cobra.Command {
	var toDir string
	var name string
	var html bool
	var outline bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "publish <file>",
		Short: "Write the tree as Markdown (and optionally HTML)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, t, err := openTree(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			toDir = strings.TrimSpace(toDir)
			if toDir == "" {
				return writeErr(cmd, errors.New("missing --to"))
			}
			res, err := publish.WriteTree(t, toDir, publish.WriteOptions{
				Name:      name,
				HTML:      html,
				Outline:   outline,
				Overwrite: overwrite,
			})
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": res})
		},
	}

	cmd.Flags().StringVar(&toDir, "to", "", "Output directory")
	cmd.Flags().StringVar(&name, "name", "", "Base file name (default: root label)")
	cmd.Flags().BoolVar(&html, "html", false, "Also write an HTML page")
	cmd.Flags().BoolVar(&outline, "outline", false, "Add a nested list after the diagram")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing files")
	return cmd
}
