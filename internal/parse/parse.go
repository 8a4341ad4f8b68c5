// Package parse reads rendered tree text back into a model.Tree.
//
// Both glyph sets are accepted, as well as the `+-- ` marker some tools emit
// and the trailing "N directories, M files" summary tree(1) prints.
package parse

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"treeedit-cli/internal/model"
)

type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

var markers = []string{"|-- ", "`-- ", "├── ", "└── ", "+-- "}

// Editors tend to strip trailing whitespace, which turns the line of an
// empty-labeled node into a bare marker.
var bareMarkers = []string{"|--", "`--", "├──", "└──", "+--"}

func ParseString(s string) (*model.Tree, error) {
	return Parse(strings.NewReader(s))
}

// Parse reads the first line as the root label (verbatim, may be empty) and
// every following non-blank line as a node. Labels are taken verbatim after
// the branch marker. Labels that contained newlines when rendered cannot be
// recovered.
func Parse(r io.Reader) (*model.Tree, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 1024*1024)

	var tr *model.Tree
	var stack []model.NodeRef
	lineNum := 0

	for sc.Scan() {
		lineNum++
		raw := strings.TrimSuffix(sc.Text(), "\r")
		if tr == nil {
			tr = model.NewTree(raw)
			continue
		}
		if strings.TrimSpace(raw) == "" {
			continue
		}

		depth, label, ok, err := parseLine(raw)
		if err != nil {
			return nil, &SyntaxError{Line: lineNum, Msg: err.Error()}
		}
		if !ok {
			if isTreeSummary(raw) {
				continue
			}
			return nil, &SyntaxError{Line: lineNum, Msg: fmt.Sprintf("not a tree line: %q", raw)}
		}
		if depth > len(stack) {
			return nil, &SyntaxError{Line: lineNum, Msg: fmt.Sprintf("depth %d skips a level (at most %d expected)", depth, len(stack))}
		}
		stack = stack[:depth]

		var ref model.NodeRef
		if depth == 0 {
			ref = tr.AppendNode()
		} else {
			ref, err = tr.AddChild(stack[depth-1])
			if err != nil {
				return nil, err
			}
		}
		if err := tr.SetLabel(ref, label); err != nil {
			return nil, err
		}
		stack = append(stack, ref)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tr == nil {
		tr = model.NewTree("")
	}
	return tr, nil
}

// parseLine splits a node line into depth and label. ok is false when the
// line carries no branch marker at all.
func parseLine(line string) (depth int, label string, ok bool, err error) {
	idx, used := findMarker(line, markers)
	if idx == -1 {
		idx, used = findMarker(line, bareMarkers)
		if idx == -1 || idx+len(used) != len(line) {
			return 0, "", false, nil
		}
	}

	prefix := line[:idx]
	if strings.Trim(prefix, " |│") != "" {
		return 0, "", false, fmt.Errorf("unexpected characters before branch marker: %q", prefix)
	}
	width := utf8.RuneCountInString(prefix)
	if width%4 != 0 {
		return 0, "", false, fmt.Errorf("indent of %d columns is not a multiple of 4", width)
	}
	return width / 4, line[idx+len(used):], true, nil
}

func findMarker(line string, set []string) (int, string) {
	idx, used := -1, ""
	for _, m := range set {
		if i := strings.Index(line, m); i != -1 && (idx == -1 || i < idx) {
			idx, used = i, m
		}
	}
	return idx, used
}

func isTreeSummary(line string) bool {
	s := strings.ToLower(strings.TrimSpace(line))
	return strings.Contains(s, "director") && strings.Contains(s, "file")
}
