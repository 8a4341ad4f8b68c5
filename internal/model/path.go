package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Paths address nodes by 1-based position, e.g. "2.1" is the first child of
// the second top-level node. They are what the CLI accepts, since node ids do
// not survive a save/load round trip.

func ParsePath(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid path %q: segments must be positive integers", s)
		}
		out = append(out, n)
	}
	return out, nil
}

func FormatPath(path []int) string {
	parts := make([]string, len(path))
	for i, n := range path {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// RefAt resolves a positional path. The empty path is the tree container and
// resolves to the empty ref.
func (t *Tree) RefAt(path []int) (NodeRef, error) {
	if len(path) == 0 {
		return "", nil
	}
	nodes := t.Nodes
	var cur *Node
	for _, pos := range path {
		if pos < 1 || pos > len(nodes) {
			return "", &InvalidReferenceError{Ref: NodeRef("@" + FormatPath(path))}
		}
		cur = nodes[pos-1]
		nodes = cur.Children
	}
	return cur.ID, nil
}

// PathOf is the inverse of RefAt.
func (t *Tree) PathOf(ref NodeRef) ([]int, error) {
	var search func(nodes []*Node, prefix []int) []int
	search = func(nodes []*Node, prefix []int) []int {
		for i, n := range nodes {
			p := append(append([]int(nil), prefix...), i+1)
			if n.ID == ref {
				return p
			}
			if found := search(n.Children, p); found != nil {
				return found
			}
		}
		return nil
	}
	if ref == "" {
		return nil, InvalidRef(ref)
	}
	out := search(t.Nodes, nil)
	if out == nil {
		return nil, InvalidRef(ref)
	}
	return out, nil
}
