package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

var configKeys = []string{"glyphs", "profile", "log.enabled", "log.level", "log.dir", "web.addr", "webtui.addr"}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change user preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := store.ConfigPath()
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"path": path, "config": app.cfg},
			})
		},
	}

	setCmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference (" + strings.Join(configKeys, "|") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := store.ReadConfig()
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := setConfigValue(cfg, args[0], args[1]); err != nil {
				return writeErr(cmd, err)
			}
			if err := store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"key": args[0], "value": args[1]},
			})
		},
	}

	cmd.AddCommand(setCmd)
	return cmd
}

func setConfigValue(cfg *store.Config, key, value string) error {
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "glyphs":
		if _, ok := render.ParseGlyphs(value); !ok {
			return fmt.Errorf("unknown glyph set: %q (expected ascii|unicode)", value)
		}
		cfg.Glyphs = value
	case "profile":
		cfg.Profile = value
	case "log.enabled":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("log.enabled: %w", err)
		}
		cfg.Log.Enabled = b
	case "log.level":
		cfg.Log.Level = value
	case "log.dir":
		cfg.Log.Dir = value
	case "web.addr":
		cfg.Web.Addr = value
	case "webtui.addr":
		cfg.WebTUI.Addr = value
	default:
		return fmt.Errorf("unknown config key: %q (expected %s)", key, strings.Join(configKeys, "|"))
	}
	return nil
}
