package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func labelsInOrder(t *Tree) []string {
	var out []string
	t.Walk(func(v Visit) bool {
		out = append(out, v.Node.Label)
		return true
	})
	return out
}

func refsInOrder(t *Tree) []NodeRef {
	var out []NodeRef
	t.Walk(func(v Visit) bool {
		out = append(out, v.Node.ID)
		return true
	})
	return out
}

func contains(t *Tree, ref NodeRef) bool {
	_, ok := t.Find(ref)
	return ok
}

// projTree is proj/{src/{main.go,util.go},README.md}.
func projTree(t *testing.T) (*Tree, map[string]NodeRef) {
	t.Helper()
	tr := NewTree("proj")
	refs := map[string]NodeRef{}

	src := tr.AppendNode()
	require.NoError(t, tr.SetLabel(src, "src"))
	refs["src"] = src

	main, err := tr.AddChild(src)
	require.NoError(t, err)
	require.NoError(t, tr.SetLabel(main, "main.go"))
	refs["main.go"] = main

	util, err := tr.AddSibling(main)
	require.NoError(t, err)
	require.NoError(t, tr.SetLabel(util, "util.go"))
	refs["util.go"] = util

	readme, err := tr.AddSibling(src)
	require.NoError(t, err)
	require.NoError(t, tr.SetLabel(readme, "README.md"))
	refs["README.md"] = readme

	return tr, refs
}

func TestAddSibling_InsertsImmediatelyAfterRef(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	n, err := tr.AddSibling(refs["main.go"])
	require.NoError(t, err)

	parent, err := tr.Parent(n)
	require.NoError(t, err)
	assert.Equal(t, refs["src"], parent)

	node, ok := tr.Find(n)
	require.True(t, ok)
	assert.Equal(t, "", node.Label)
	assert.Empty(t, node.Children)

	assert.Equal(t, []string{"src", "main.go", "", "util.go", "README.md"}, labelsInOrder(tr))
}

func TestAddSibling_TopLevel(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	n, err := tr.AddSibling(refs["src"])
	require.NoError(t, err)

	require.Len(t, tr.Nodes, 3)
	assert.Equal(t, n, tr.Nodes[1].ID)
	parent, err := tr.Parent(n)
	require.NoError(t, err)
	assert.Equal(t, NodeRef(""), parent)
}

func TestAddChild_AppendsLast(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	n, err := tr.AddChild(refs["src"])
	require.NoError(t, err)

	src, _ := tr.Find(refs["src"])
	require.Len(t, src.Children, 3)
	assert.Equal(t, n, src.Children[2].ID)

	leaf, err := tr.AddChild(refs["README.md"])
	require.NoError(t, err)
	readme, _ := tr.Find(refs["README.md"])
	require.Len(t, readme.Children, 1)
	assert.Equal(t, leaf, readme.Children[0].ID)
}

func TestDelete_RemovesSubtree(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	require.NoError(t, tr.Delete(refs["src"]))

	assert.Equal(t, []string{"README.md"}, labelsInOrder(tr))
	assert.False(t, contains(tr, refs["main.go"]))
	assert.False(t, contains(tr, refs["util.go"]))
	assert.Equal(t, 1, tr.Len())
}

func TestAddSiblingThenDelete_RestoresStructure(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	before := labelsInOrder(tr)

	n, err := tr.AddSibling(refs["main.go"])
	require.NoError(t, err)
	require.NoError(t, tr.Delete(n))

	assert.Equal(t, before, labelsInOrder(tr))
}

func TestInvalidReference(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	require.NoError(t, tr.Delete(refs["util.go"]))
	gone := refs["util.go"]

	_, err := tr.AddSibling(gone)
	assert.True(t, errors.Is(err, ErrInvalidReference))

	_, err = tr.AddChild("node-999")
	assert.ErrorIs(t, err, ErrInvalidReference)

	err = tr.Delete(gone)
	assert.ErrorIs(t, err, ErrInvalidReference)

	err = tr.SetLabel(gone, "x")
	assert.ErrorIs(t, err, ErrInvalidReference)

	var ire *InvalidReferenceError
	require.ErrorAs(t, err, &ire)
	assert.Equal(t, gone, ire.Ref)

	_, err = tr.AddChild("")
	assert.ErrorIs(t, err, ErrInvalidReference)
}

func TestSetLabel_AcceptsAnyText(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	for _, s := range []string{"", "  spaced  ", "with/slash", "ünïcode", "`-- tricky"} {
		require.NoError(t, tr.SetLabel(refs["src"], s))
		n, _ := tr.Find(refs["src"])
		assert.Equal(t, s, n.Label)
	}

	tr.SetRootLabel("")
	assert.Equal(t, "", tr.RootLabel)
}

func TestIDsAreNotReused(t *testing.T) {
	t.Parallel()

	tr := NewTree("r")
	a := tr.AppendNode()
	require.NoError(t, tr.Delete(a))
	b := tr.AppendNode()
	assert.NotEqual(t, a, b)
}

func TestWalk_Corridor(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	visits := map[NodeRef]Visit{}
	tr.Walk(func(v Visit) bool {
		visits[v.Node.ID] = v
		return true
	})

	src := visits[refs["src"]]
	assert.Equal(t, 0, src.Depth)
	assert.False(t, src.Last)

	util := visits[refs["util.go"]]
	assert.Equal(t, 1, util.Depth)
	assert.True(t, util.Last)
	assert.Equal(t, []bool{false}, util.Corridor)

	assert.True(t, visits[refs["README.md"]].Last)
}

func TestPaths(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)

	ref, err := tr.RefAt([]int{1, 2})
	require.NoError(t, err)
	assert.Equal(t, refs["util.go"], ref)

	path, err := tr.PathOf(refs["README.md"])
	require.NoError(t, err)
	assert.Equal(t, "2", FormatPath(path))

	_, err = tr.RefAt([]int{3})
	assert.ErrorIs(t, err, ErrInvalidReference)

	root, err := tr.RefAt(nil)
	require.NoError(t, err)
	assert.Equal(t, NodeRef(""), root)

	p, err := ParsePath(" 1.2 ")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, p)

	_, err = ParsePath("1.0")
	assert.Error(t, err)
	_, err = ParsePath("a")
	assert.Error(t, err)
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	tr, refs := projTree(t)
	cp := tr.Clone()
	require.NoError(t, cp.SetLabel(refs["src"], "lib"))
	require.NoError(t, cp.Delete(refs["README.md"]))

	n, _ := tr.Find(refs["src"])
	assert.Equal(t, "src", n.Label)
	assert.True(t, contains(tr, refs["README.md"]))

	// The clone keeps handing out fresh ids.
	fresh := cp.AppendNode()
	assert.False(t, contains(tr, fresh))
	for _, r := range refsInOrder(tr) {
		assert.NotEqual(t, r, fresh)
	}
}

func TestReindex(t *testing.T) {
	t.Parallel()

	tr := &Tree{
		RootLabel: "r",
		Nodes: []*Node{
			{ID: "node-7", Label: "a", Children: []*Node{{Label: "b"}}},
			{ID: "node-7", Label: "dup"},
		},
	}
	tr.Reindex()

	refs := refsInOrder(tr)
	require.Len(t, refs, 3)
	seen := map[NodeRef]bool{}
	for _, r := range refs {
		assert.NotEmpty(t, r)
		assert.False(t, seen[r], "duplicate id %s", r)
		seen[r] = true
	}
	assert.Equal(t, NodeRef("node-7"), tr.Nodes[0].ID)

	n := tr.AppendNode()
	assert.False(t, seen[n])
}
