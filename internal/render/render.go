// Package render turns a tree into its text form:
//
//	proj
//	|-- src
//	|   |-- main.go
//	|   `-- util.go
//	`-- README.md
//
// The ASCII glyphs and 4-column padding are the file format and must not
// change. The Unicode set is for display only.
package render

import (
	"bufio"
	"io"
	"strings"

	"treeedit-cli/internal/model"
)

type Glyphs int

const (
	GlyphsASCII Glyphs = iota
	GlyphsUnicode
)

type glyphSet struct {
	branch string
	last   string
	pipe   string
	blank  string
}

var glyphSets = map[Glyphs]glyphSet{
	GlyphsASCII:   {branch: "|-- ", last: "`-- ", pipe: "|   ", blank: "    "},
	GlyphsUnicode: {branch: "├── ", last: "└── ", pipe: "│   ", blank: "    "},
}

func (g Glyphs) set() glyphSet {
	if gs, ok := glyphSets[g]; ok {
		return gs
	}
	return glyphSets[GlyphsASCII]
}

func (g Glyphs) String() string {
	if g == GlyphsUnicode {
		return "unicode"
	}
	return "ascii"
}

// ParseGlyphs accepts "ascii" and "unicode" (also "utf8"). Empty means ASCII.
func ParseGlyphs(s string) (Glyphs, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascii":
		return GlyphsASCII, true
	case "unicode", "utf8":
		return GlyphsUnicode, true
	default:
		return GlyphsASCII, false
	}
}

type Options struct {
	Glyphs Glyphs
}

// Line is one rendered node row. Padding+Prefix+Label is exactly the text
// Render emits for that node (minus the newline).
type Line struct {
	Ref     model.NodeRef
	Depth   int
	Last    bool
	Padding string
	Prefix  string
	Label   string
}

func (l Line) String() string {
	return l.Padding + l.Prefix + l.Label
}

// Lines returns one entry per node in render order. The root label line is
// not included.
func Lines(t *model.Tree, opts Options) []Line {
	gs := opts.Glyphs.set()
	var out []Line
	t.Walk(func(v model.Visit) bool {
		var pad strings.Builder
		for _, last := range v.Corridor {
			if last {
				pad.WriteString(gs.blank)
			} else {
				pad.WriteString(gs.pipe)
			}
		}
		prefix := gs.branch
		if v.Last {
			prefix = gs.last
		}
		out = append(out, Line{
			Ref:     v.Node.ID,
			Depth:   v.Depth,
			Last:    v.Last,
			Padding: pad.String(),
			Prefix:  prefix,
			Label:   v.Node.Label,
		})
		return true
	})
	return out
}

// Render serializes the whole tree with the ASCII glyphs.
func Render(t *model.Tree) string {
	return RenderWith(t, Options{})
}

func RenderWith(t *model.Tree, opts Options) string {
	var b strings.Builder
	_ = write(&b, t, opts)
	return b.String()
}

// Fprint writes the same bytes Render returns.
func Fprint(w io.Writer, t *model.Tree) error {
	bw := bufio.NewWriter(w)
	if err := write(bw, t, Options{}); err != nil {
		return err
	}
	return bw.Flush()
}

func write(w io.StringWriter, t *model.Tree, opts Options) error {
	root := ""
	if t != nil {
		root = t.RootLabel
	}
	if _, err := w.WriteString(root + "\n"); err != nil {
		return err
	}
	gs := opts.Glyphs.set()
	return writeNodes(w, nodesOf(t), "", gs)
}

func nodesOf(t *model.Tree) []*model.Node {
	if t == nil {
		return nil
	}
	return t.Nodes
}

func writeNodes(w io.StringWriter, nodes []*model.Node, padding string, gs glyphSet) error {
	last := len(nodes) - 1
	for i, n := range nodes {
		prefix, corridor := gs.branch, gs.pipe
		if i == last {
			prefix, corridor = gs.last, gs.blank
		}
		if _, err := w.WriteString(padding + prefix + n.Label + "\n"); err != nil {
			return err
		}
		if len(n.Children) > 0 {
			if err := writeNodes(w, n.Children, padding+corridor, gs); err != nil {
				return err
			}
		}
	}
	return nil
}
