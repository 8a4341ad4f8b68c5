package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/format"
	"treeedit-cli/internal/logger"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
	"treeedit-cli/internal/tui"
)

type App struct {
	PrettyJSON bool
	Format     string
	Debug      bool
	Glyphs     string

	cfg      *store.Config
	closeLog func() error
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

// Execute runs the CLI and closes the log file afterwards, also when the
// command fails.
func Execute() error {
	app := &App{}
	return execute(app, newRootCmd(app))
}

func execute(app *App, cmd *cobra.Command) error {
	defer func() { _ = app.close() }()
	return cmd.Execute()
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "treeedit [file]",
		Short:        "Edit trees and render them as ASCII diagrams",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Edit a tree interactively (the file is created on first save)
  treeedit notes/proj.txt

  # Scriptable edits address nodes by position: 1.2 is the second child of
  # the first top-level node
  treeedit add-child notes/proj.txt 1
  treeedit set-label notes/proj.txt 1.3 lib.go

  # Print the rendered tree
  treeedit render notes/proj.txt
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runTUI(cmd, app, args[0])
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := app.init(); err != nil {
			return writeErr(cmd, err)
		}
		logger.Debug("command", "path", cmd.CommandPath(), "args", args)
		return nil
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return app.close()
	}

	cmd.PersistentFlags().BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	cmd.PersistentFlags().StringVar(&app.Format, "format", envOr("TREEEDIT_FORMAT", "json"), "Output format (json|yaml)")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Write a debug log under the config dir")
	cmd.PersistentFlags().StringVar(&app.Glyphs, "glyphs", "", "Display glyphs (ascii|unicode); files are always saved as ascii")

	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newRenderCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newActionCmds(app)...)
	cmd.AddCommand(newSetLabelCmd(app))
	cmd.AddCommand(newSetRootCmd(app))
	cmd.AddCommand(newPublishCmd(app))
	cmd.AddCommand(newDocsCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newWebCmd(app))
	cmd.AddCommand(newWebTUICmd(app))

	return cmd
}

func newEditCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "edit <file>",
		Short: "Edit a tree file in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, args[0])
		},
	}
}

func runTUI(cmd *cobra.Command, app *App, path string) error {
	glyphs, err := app.glyphs()
	if err != nil {
		return writeErr(cmd, err)
	}
	if err := tui.Run(store.File{Path: path}, tui.Options{Glyphs: glyphs, Profile: app.cfg.Profile}); err != nil {
		return writeErr(cmd, err)
	}
	return nil
}

// init loads the config and starts logging. --debug wins over the config.
func (app *App) init() error {
	cfg, err := store.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	app.cfg = cfg

	opts := logger.Options{
		Enabled: cfg.Log.Enabled || app.Debug,
		Dir:     strings.TrimSpace(cfg.Log.Dir),
		Level:   logger.ParseLevel(cfg.Log.Level),
	}
	if app.Debug {
		opts.Level = logger.ParseLevel("debug")
	}
	if opts.Enabled && opts.Dir == "" {
		dir, err := store.ConfigDir()
		if err != nil {
			return err
		}
		opts.Dir = filepath.Join(dir, "logs")
	}
	closeLog, err := logger.Init(opts)
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	app.closeLog = closeLog
	return nil
}

func (app *App) close() error {
	if app.closeLog == nil {
		return nil
	}
	err := app.closeLog()
	app.closeLog = nil
	return err
}

// glyphs resolves the display glyph set: flag, then config.
func (app *App) glyphs() (render.Glyphs, error) {
	v := strings.TrimSpace(app.Glyphs)
	if v == "" && app.cfg != nil {
		v = app.cfg.Glyphs
	}
	g, ok := render.ParseGlyphs(v)
	if !ok {
		return render.GlyphsASCII, fmt.Errorf("unknown glyph set: %q (expected ascii|unicode)", v)
	}
	return g, nil
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
