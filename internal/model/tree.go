package model

// location is where a node sits: the slice that holds it and its index there.
// siblings points at either Tree.Nodes or some parent's Children so inserts and
// removals can write the slice header back.
type location struct {
	siblings *[]*Node
	index    int
}

func (l location) node() *Node {
	return (*l.siblings)[l.index]
}

func (t *Tree) locate(ref NodeRef) (location, bool) {
	if t == nil || ref == "" {
		return location{}, false
	}
	var find func(siblings *[]*Node) (location, bool)
	find = func(siblings *[]*Node) (location, bool) {
		for i, n := range *siblings {
			if n == nil {
				continue
			}
			if n.ID == ref {
				return location{siblings: siblings, index: i}, true
			}
			if loc, ok := find(&n.Children); ok {
				return loc, true
			}
		}
		return location{}, false
	}
	return find(&t.Nodes)
}

// Find returns the node with the given ref.
func (t *Tree) Find(ref NodeRef) (*Node, bool) {
	loc, ok := t.locate(ref)
	if !ok {
		return nil, false
	}
	return loc.node(), true
}

// AddSibling inserts a new empty node immediately after ref, under the same
// parent (or at top level when ref is top-level).
func (t *Tree) AddSibling(ref NodeRef) (NodeRef, error) {
	loc, ok := t.locate(ref)
	if !ok {
		return "", InvalidRef(ref)
	}
	n := t.newNode()
	s := *loc.siblings
	s = append(s, nil)
	copy(s[loc.index+2:], s[loc.index+1:])
	s[loc.index+1] = n
	*loc.siblings = s
	return n.ID, nil
}

// AddChild appends a new empty node as the last child of ref.
func (t *Tree) AddChild(ref NodeRef) (NodeRef, error) {
	loc, ok := t.locate(ref)
	if !ok {
		return "", InvalidRef(ref)
	}
	parent := loc.node()
	n := t.newNode()
	parent.Children = append(parent.Children, n)
	return n.ID, nil
}

// AppendNode appends a new empty node to the top-level sequence. This is the
// add control of the tree container; it is the only way to grow an empty tree.
func (t *Tree) AppendNode() NodeRef {
	n := t.newNode()
	t.Nodes = append(t.Nodes, n)
	return n.ID
}

// Delete removes ref and its whole subtree.
func (t *Tree) Delete(ref NodeRef) error {
	loc, ok := t.locate(ref)
	if !ok {
		return InvalidRef(ref)
	}
	s := *loc.siblings
	copy(s[loc.index:], s[loc.index+1:])
	s[len(s)-1] = nil
	*loc.siblings = s[:len(s)-1]
	return nil
}

// SetLabel replaces a node's label in place. Any text is accepted.
func (t *Tree) SetLabel(ref NodeRef, text string) error {
	loc, ok := t.locate(ref)
	if !ok {
		return InvalidRef(ref)
	}
	loc.node().Label = text
	return nil
}

func (t *Tree) SetRootLabel(text string) {
	t.RootLabel = text
}

// Parent returns the parent of ref, or "" when ref is top-level.
func (t *Tree) Parent(ref NodeRef) (NodeRef, error) {
	var parent NodeRef
	found := false
	t.Walk(func(v Visit) bool {
		if found {
			return false
		}
		if v.Node.ID == ref {
			parent = v.Parent
			found = true
			return false
		}
		return true
	})
	if !found {
		return "", InvalidRef(ref)
	}
	return parent, nil
}

// Visit is what Walk reports for each node.
type Visit struct {
	Node   *Node
	Parent NodeRef
	Depth  int
	Index  int
	Last   bool
	// Corridor[i] reports whether the ancestor at depth i was the last of its
	// siblings. len(Corridor) == Depth.
	Corridor []bool
}

// Walk visits nodes depth-first in sibling order: a node before its
// descendants, a full subtree before the next sibling. Returning false from fn
// skips the node's descendants.
func (t *Tree) Walk(fn func(Visit) bool) {
	if t == nil {
		return
	}
	var walk func(nodes []*Node, parent NodeRef, corridor []bool)
	walk = func(nodes []*Node, parent NodeRef, corridor []bool) {
		last := len(nodes) - 1
		for i, n := range nodes {
			if n == nil {
				continue
			}
			v := Visit{
				Node:     n,
				Parent:   parent,
				Depth:    len(corridor),
				Index:    i,
				Last:     i == last,
				Corridor: corridor,
			}
			if !fn(v) {
				continue
			}
			if len(n.Children) == 0 {
				continue
			}
			next := make([]bool, len(corridor), len(corridor)+1)
			copy(next, corridor)
			walk(n.Children, n.ID, append(next, i == last))
		}
	}
	walk(t.Nodes, "", nil)
}

// Len counts every node in the tree.
func (t *Tree) Len() int {
	n := 0
	t.Walk(func(Visit) bool {
		n++
		return true
	})
	return n
}

// Clone deep-copies the tree, keeping ids.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	var cp func(nodes []*Node) []*Node
	cp = func(nodes []*Node) []*Node {
		out := make([]*Node, 0, len(nodes))
		for _, n := range nodes {
			if n == nil {
				continue
			}
			out = append(out, &Node{ID: n.ID, Label: n.Label, Children: cp(n.Children)})
		}
		return out
	}
	return &Tree{RootLabel: t.RootLabel, Nodes: cp(t.Nodes), nextID: t.nextID}
}

// Reindex assigns ids to nodes that have none and moves the id counter past
// every id already present. Call it after decoding a tree from outside.
func (t *Tree) Reindex() {
	if t == nil {
		return
	}
	seen := map[NodeID]bool{}
	var missing []*Node
	t.Walk(func(v Visit) bool {
		id := v.Node.ID
		if id == "" || seen[id] {
			missing = append(missing, v.Node)
			return true
		}
		seen[id] = true
		t.adopt(id)
		return true
	})
	for _, n := range missing {
		n.ID = t.newNode().ID
	}
}
