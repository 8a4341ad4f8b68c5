package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"treeedit-cli/internal/model"
)

// staticView adapts a rendered string to tea.Model so it can be composited by
// the overlay package. Views are rebuilt on every render.
type staticView string

func (s staticView) Init() tea.Cmd                       { return nil }
func (s staticView) Update(tea.Msg) (tea.Model, tea.Cmd) { return s, nil }
func (s staticView) View() string                        { return string(s) }

func (e editor) View() string {
	if e.quitting {
		return ""
	}
	base := e.renderMain()

	var fg string
	switch e.mode {
	case modeConfirmDelete:
		fg = renderConfirmModal(e.width, "Delete node", e.deleteBody(), "Delete", "Cancel", e.focus)
	case modeConfirmQuit:
		fg = renderConfirmModal(e.width, "Quit", "There are unsaved changes. Quit without saving?", "Quit", "Keep editing", e.focus)
	case modeHelp:
		fg = renderModalBox(e.width, "Help", e.help.View()+"\n\n"+styleMuted().Render("esc: close"))
	default:
		return base
	}
	return overlay.New(staticView(fg), staticView(base), overlay.Center, overlay.Center, 0, 0).View()
}

func (e editor) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		e.renderHeader(),
		lipgloss.JoinHorizontal(lipgloss.Top, e.renderList(), e.renderPreview()),
		e.renderStatus(),
	)
}

func (e editor) renderHeader() string {
	title := styleTitle().Render("treeedit")
	path := styleMuted().Render(e.file.Path)
	if e.dirty {
		path += styleMuted().Render(" [+]")
	}
	return truncateANSI(title+"  "+path, e.width)
}

func (e editor) renderList() string {
	listW, _ := e.paneWidths()
	innerW := listW - 4
	h := e.bodyHeight()

	lines := make([]string, 0, h)
	for i := e.offset; i <= len(e.rows) && len(lines) < h; i++ {
		lines = append(lines, truncateANSI(e.renderRow(i, innerW), innerW))
	}
	return stylePane().Width(listW - 2).Height(h).Render(strings.Join(lines, "\n"))
}

func (e editor) renderRow(i int, width int) string {
	var glyph, label string
	if i == 0 {
		label = e.tree.RootLabel
	} else {
		r := e.rows[i-1]
		glyph = r.Padding + r.Prefix
		label = r.Label
	}

	selected := i == e.cursor
	editing := selected && (e.mode == modeEditLabel || e.mode == modeEditRoot)
	if editing {
		return glyph + e.input.View()
	}
	if label == "" {
		label = "(empty)"
		if !selected {
			return styleGlyph().Render(glyph) + styleMuted().Render(label)
		}
	}
	if selected {
		return styleSelectedRow().Width(width).Render(glyph + label)
	}
	return styleGlyph().Render(glyph) + label
}

func (e editor) renderPreview() string {
	_, previewW := e.paneWidths()
	return stylePane().Width(previewW - 2).Height(e.bodyHeight()).Render(e.preview.View())
}

func (e editor) renderStatus() string {
	if e.status != "" {
		if e.statusErr {
			return truncateANSI(styleError().Render(e.status), e.width)
		}
		return truncateANSI(e.status, e.width)
	}
	if e.mode == modeEditLabel || e.mode == modeEditRoot {
		return styleMuted().Render("enter: accept   esc: cancel")
	}
	parts := make([]string, 0, len(e.keys.shortHelp()))
	for _, b := range e.keys.shortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return truncateANSI(styleMuted().Render(strings.Join(parts, "  ")), e.width)
}

func (e editor) deleteBody() string {
	n, ok := e.tree.Find(e.selectedRef())
	if !ok {
		return "Delete this node?"
	}
	label := n.Label
	if label == "" {
		label = "(empty)"
	}
	below := countNodes(n.Children)
	switch below {
	case 0:
		return fmt.Sprintf("Delete %q?", label)
	case 1:
		return fmt.Sprintf("Delete %q and 1 node below it?", label)
	default:
		return fmt.Sprintf("Delete %q and %d nodes below it?", label, below)
	}
}

func countNodes(nodes []*model.Node) int {
	n := 0
	for _, c := range nodes {
		n += 1 + countNodes(c.Children)
	}
	return n
}
