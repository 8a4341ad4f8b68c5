package model

import (
	"strconv"
	"strings"
)

// NodeID identifies a node within one Tree. IDs are handed out by the tree and
// never reused, so a ref stays valid across edits until its node is deleted.
type NodeID string

// NodeRef is the handle edit operations take. An empty ref addresses the tree
// container itself (the top-level sequence).
type NodeRef = NodeID

type Node struct {
	ID       NodeID  `json:"id"`
	Label    string  `json:"label"`
	Children []*Node `json:"children,omitempty"`
}

// NewNode builds an empty-labeled, childless node.
func NewNode(id NodeID) *Node {
	return &Node{ID: id}
}

func (n *Node) HasChildren() bool {
	return n != nil && len(n.Children) > 0
}

type Tree struct {
	RootLabel string  `json:"rootLabel"`
	Nodes     []*Node `json:"nodes"`

	nextID int
}

func NewTree(rootLabel string) *Tree {
	return &Tree{RootLabel: rootLabel, Nodes: []*Node{}}
}

func (t *Tree) newNode() *Node {
	t.nextID++
	return NewNode(NodeID("node-" + strconv.Itoa(t.nextID)))
}

// adopt makes sure the id counter stays ahead of ids that were assigned
// outside newNode (decoded trees, hand-built fixtures).
func (t *Tree) adopt(id NodeID) {
	s := strings.TrimPrefix(string(id), "node-")
	if s == string(id) {
		return
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return
	}
	if n > t.nextID {
		t.nextID = n
	}
}
