package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"

	"treeedit-cli/internal/docs"
	"treeedit-cli/internal/logger"
	"treeedit-cli/internal/model"
	"treeedit-cli/internal/mutate"
	"treeedit-cli/internal/render"
	"treeedit-cli/internal/store"
)

type mode int

const (
	modeNormal mode = iota
	modeEditLabel
	modeEditRoot
	modeConfirmDelete
	modeConfirmQuit
	modeHelp
)

// editor is the Bubble Tea model. It owns the tree; every change goes through
// the model package and is followed by refresh, which rebuilds the rows and
// the preview from the tree.
type editor struct {
	file store.File
	tree *model.Tree
	opts render.Options
	keys keyMap

	rows []render.Line
	// cursor 0 is the root line; cursor i > 0 is rows[i-1].
	cursor int
	offset int

	mode       mode
	input      textinput.Model
	editRef    model.NodeRef
	editBefore string
	focus      confirmModalFocus

	preview viewport.Model
	help    viewport.Model

	width     int
	height    int
	dirty     bool
	status    string
	statusErr bool
	quitting  bool
}

func newEditor(file store.File, t *model.Tree, opts Options) editor {
	in := textinput.New()
	in.Prompt = ""
	in.Placeholder = "label"

	e := editor{
		file:    file,
		tree:    t,
		opts:    render.Options{Glyphs: opts.Glyphs},
		keys:    defaultKeyMap(),
		input:   in,
		preview: viewport.New(0, 0),
		help:    viewport.New(0, 0),
		width:   80,
		height:  24,
	}
	e.layout()
	e.refresh()
	return e
}

func (e editor) Init() tea.Cmd {
	return nil
}

func (e editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		e.width, e.height = msg.Width, msg.Height
		e.layout()
		e.refresh()
		return e, nil

	case tea.KeyMsg:
		if key.Matches(msg, e.keys.ForceQuit) {
			e.quitting = true
			return e, tea.Quit
		}
		switch e.mode {
		case modeEditLabel, modeEditRoot:
			cmd := e.updateInput(msg)
			return e, cmd
		case modeConfirmDelete, modeConfirmQuit:
			cmd := e.updateConfirm(msg)
			return e, cmd
		case modeHelp:
			cmd := e.updateHelp(msg)
			return e, cmd
		}
		cmd := e.updateNormal(msg)
		return e, cmd
	}

	if e.mode == modeEditLabel || e.mode == modeEditRoot {
		var cmd tea.Cmd
		e.input, cmd = e.input.Update(msg)
		return e, cmd
	}
	return e, nil
}

func (e *editor) updateNormal(msg tea.KeyMsg) tea.Cmd {
	e.status = ""
	e.statusErr = false

	switch {
	case key.Matches(msg, e.keys.Quit):
		if e.dirty {
			e.mode = modeConfirmQuit
			e.focus = confirmFocusCancel
			return nil
		}
		e.quitting = true
		return tea.Quit
	case key.Matches(msg, e.keys.Up):
		e.moveCursor(-1)
	case key.Matches(msg, e.keys.Down):
		e.moveCursor(1)
	case key.Matches(msg, e.keys.Top):
		e.moveCursor(-len(e.rows) - 1)
	case key.Matches(msg, e.keys.Bottom):
		e.moveCursor(len(e.rows) + 1)
	case key.Matches(msg, e.keys.AddSibling):
		if e.cursor == 0 {
			e.setError(errors.New("the root line has no siblings (c adds a top-level node)"))
			return nil
		}
		return e.apply(mutate.AddSibling)
	case key.Matches(msg, e.keys.AddChild):
		return e.apply(mutate.AddChild)
	case key.Matches(msg, e.keys.Delete):
		if e.cursor == 0 {
			e.setError(errors.New("the root line cannot be deleted"))
			return nil
		}
		e.mode = modeConfirmDelete
		e.focus = confirmFocusConfirm
	case key.Matches(msg, e.keys.Edit):
		if e.cursor == 0 {
			return e.beginEditRoot()
		}
		return e.beginEditLabel(e.selectedRef())
	case key.Matches(msg, e.keys.EditRoot):
		return e.beginEditRoot()
	case key.Matches(msg, e.keys.Copy):
		if err := copyToClipboard(render.Render(e.tree)); err != nil {
			e.setError(fmt.Errorf("copy: %w", err))
			return nil
		}
		e.setStatus("copied rendered tree to clipboard")
	case key.Matches(msg, e.keys.Save):
		e.save()
	case key.Matches(msg, e.keys.Help):
		e.openHelp()
	default:
		var cmd tea.Cmd
		e.preview, cmd = e.preview.Update(msg)
		return cmd
	}
	return nil
}

func (e *editor) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, e.keys.Accept):
		e.finishEdit()
		return nil
	case key.Matches(msg, e.keys.Cancel):
		e.input.SetValue(e.editBefore)
		e.setEditText(e.editBefore)
		e.finishEdit()
		e.setStatus("edit cancelled")
		return nil
	}
	var cmd tea.Cmd
	e.input, cmd = e.input.Update(msg)
	e.setEditText(e.input.Value())
	return cmd
}

func (e *editor) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	confirmed := false
	switch {
	case key.Matches(msg, e.keys.Toggle):
		e.focus = e.focus.toggle()
		return nil
	case key.Matches(msg, e.keys.Cancel), msg.String() == "n":
	case key.Matches(msg, e.keys.Accept):
		confirmed = e.focus == confirmFocusConfirm
	case msg.String() == "y":
		confirmed = true
	default:
		return nil
	}

	m := e.mode
	e.mode = modeNormal
	if !confirmed {
		return nil
	}
	if m == modeConfirmDelete {
		return e.apply(mutate.Delete)
	}
	e.quitting = true
	return tea.Quit
}

func (e *editor) updateHelp(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, e.keys.Cancel, e.keys.Help, e.keys.Quit) {
		e.mode = modeNormal
		return nil
	}
	var cmd tea.Cmd
	e.help, cmd = e.help.Update(msg)
	return cmd
}

// apply runs an edit action on the selected row. Adds move the cursor to the
// new node and open its label for editing. Deleting a last child moves the
// cursor up to its parent.
func (e *editor) apply(action mutate.EditAction) tea.Cmd {
	ref := e.selectedRef()
	var parent model.NodeRef
	if action == mutate.Delete && e.cursor > 0 && e.rows[e.cursor-1].Last {
		parent, _ = e.tree.Parent(ref)
	}
	res, err := mutate.Apply(e.tree, action, ref)
	if err != nil {
		e.setError(err)
		return nil
	}
	logger.Debug("tui edit", "action", action.String(), "ref", string(ref), "created", string(res.Created))

	e.dirty = true
	e.refresh()
	if res.Created == "" {
		if parent != "" {
			e.selectRef(parent)
		}
		e.setStatus(action.String())
		return nil
	}
	e.selectRef(res.Created)
	return e.beginEditLabel(res.Created)
}

func (e *editor) beginEditLabel(ref model.NodeRef) tea.Cmd {
	n, ok := e.tree.Find(ref)
	if !ok {
		e.setError(model.InvalidRef(ref))
		return nil
	}
	e.mode = modeEditLabel
	e.editRef = ref
	return e.startInput(n.Label)
}

func (e *editor) beginEditRoot() tea.Cmd {
	e.cursor = 0
	e.scrollToCursor()
	e.mode = modeEditRoot
	e.editRef = ""
	return e.startInput(e.tree.RootLabel)
}

func (e *editor) startInput(text string) tea.Cmd {
	e.editBefore = text
	e.input.Width = e.inputWidth()
	e.input.SetValue(text)
	e.input.CursorEnd()
	return e.input.Focus()
}

// setEditText writes the input text through to the tree and re-renders.
func (e *editor) setEditText(text string) {
	if e.mode == modeEditRoot {
		e.tree.SetRootLabel(text)
	} else if err := e.tree.SetLabel(e.editRef, text); err != nil {
		e.setError(err)
		return
	}
	e.refresh()
}

func (e *editor) finishEdit() {
	if e.input.Value() != e.editBefore {
		e.dirty = true
	}
	e.input.Blur()
	e.mode = modeNormal
	e.editRef = ""
}

func (e *editor) save() {
	if err := e.file.Save(e.tree); err != nil {
		e.setError(fmt.Errorf("save: %w", err))
		return
	}
	e.dirty = false
	e.setStatus("saved " + e.file.Path)
	logger.Info("tree saved", "path", e.file.Path, "nodes", e.tree.Len())
}

func (e *editor) openHelp() {
	md, _ := docs.Get("keys")
	e.help.SetContent(RenderMarkdown(md, e.help.Width))
	e.help.GotoTop()
	e.mode = modeHelp
}

func (e *editor) refresh() {
	e.rows = render.Lines(e.tree, e.opts)
	if e.cursor > len(e.rows) {
		e.cursor = len(e.rows)
	}
	e.preview.SetContent(render.RenderWith(e.tree, e.opts))
	e.scrollToCursor()
}

func (e *editor) layout() {
	_, previewW := e.paneWidths()
	e.preview.Width = previewW - 4
	e.preview.Height = e.bodyHeight()
	e.help.Width = modalBodyWidth(e.width)
	e.help.Height = max(3, e.height-10)
	e.input.Width = e.inputWidth()
}

func (e *editor) paneWidths() (int, int) {
	w := max(e.width, 20)
	listW := w / 2
	return listW, w - listW
}

// bodyHeight is the number of text lines inside a pane.
func (e *editor) bodyHeight() int {
	return max(1, e.height-4)
}

func (e *editor) inputWidth() int {
	listW, _ := e.paneWidths()
	prefix := 0
	if e.cursor > 0 && e.cursor <= len(e.rows) {
		r := e.rows[e.cursor-1]
		prefix = xansi.StringWidth(r.Padding + r.Prefix)
	}
	return max(10, listW-4-prefix-1)
}

func (e *editor) moveCursor(delta int) {
	e.cursor += delta
	if e.cursor < 0 {
		e.cursor = 0
	}
	if e.cursor > len(e.rows) {
		e.cursor = len(e.rows)
	}
	e.scrollToCursor()
}

func (e *editor) scrollToCursor() {
	h := e.bodyHeight()
	if e.cursor < e.offset {
		e.offset = e.cursor
	}
	if e.cursor >= e.offset+h {
		e.offset = e.cursor - h + 1
	}
	if e.offset < 0 {
		e.offset = 0
	}
}

// selectedRef is the empty ref (the tree container) on the root line.
func (e *editor) selectedRef() model.NodeRef {
	if e.cursor <= 0 || e.cursor > len(e.rows) {
		return ""
	}
	return e.rows[e.cursor-1].Ref
}

func (e *editor) selectRef(ref model.NodeRef) {
	for i, r := range e.rows {
		if r.Ref == ref {
			e.cursor = i + 1
			e.scrollToCursor()
			return
		}
	}
}

func (e *editor) setStatus(s string) {
	e.status = s
	e.statusErr = false
}

func (e *editor) setError(err error) {
	e.status = err.Error()
	e.statusErr = true
	logger.Warn("tui error", "err", err)
}
