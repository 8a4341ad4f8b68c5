package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	AddSibling key.Binding
	AddChild   key.Binding
	Delete     key.Binding
	Edit       key.Binding
	EditRoot   key.Binding
	Copy       key.Binding
	Save       key.Binding
	Help       key.Binding
	Quit       key.Binding
	ForceQuit  key.Binding

	// Used while a label input or modal has focus.
	Accept key.Binding
	Cancel key.Binding
	Toggle key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Top: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys("G", "end"),
			key.WithHelp("G", "bottom"),
		),
		AddSibling: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "add sibling"),
		),
		AddChild: key.NewBinding(
			key.WithKeys("c", "tab"),
			key.WithHelp("c", "add child"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "delete"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter", "e"),
			key.WithHelp("e", "edit label"),
		),
		EditRoot: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "edit root"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
		Save: key.NewBinding(
			key.WithKeys("w", "ctrl+s"),
			key.WithHelp("w", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		ForceQuit: key.NewBinding(
			key.WithKeys("ctrl+c"),
		),
		Accept: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "accept"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		Toggle: key.NewBinding(
			key.WithKeys("tab", "shift+tab", "left", "right", "h", "l"),
		),
	}
}

// shortHelp is the footer line in normal mode.
func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.AddSibling, k.AddChild, k.Delete, k.Edit, k.EditRoot, k.Copy, k.Save, k.Help, k.Quit}
}
