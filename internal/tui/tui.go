// Package tui is the terminal host for the tree editor.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

type Options struct {
	// Glyphs is the display glyph set. Saved files always use ASCII.
	Glyphs render.Glyphs
	// Profile forces a colour profile (ascii, ansi, ansi256, truecolor).
	Profile string
}

// Run loads file (a missing file starts an empty tree named after it) and runs
// the editor until the user quits.
func Run(file store.File, opts Options) error {
	applyThemePreference()
	applyColorProfile(opts.Profile)

	t, err := file.Load()
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(newEditor(file, t, opts), tea.WithAltScreen()).Run()
	return err
}
