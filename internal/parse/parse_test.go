package parse

import (
	"errors"
	"strings"
	"testing"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const projText = "proj\n" +
	"|-- src\n" +
	"|   |-- main.go\n" +
	"|   `-- util.go\n" +
	"`-- README.md\n"

func TestParse_ProjectScenario(t *testing.T) {
	t.Parallel()

	tr, err := ParseString(projText)
	require.NoError(t, err)
	assert.Equal(t, "proj", tr.RootLabel)
	require.Len(t, tr.Nodes, 2)
	assert.Equal(t, "src", tr.Nodes[0].Label)
	require.Len(t, tr.Nodes[0].Children, 2)
	assert.Equal(t, "util.go", tr.Nodes[0].Children[1].Label)
	assert.Equal(t, "README.md", tr.Nodes[1].Label)

	assert.Equal(t, projText, render.Render(tr))
}

func TestParse_RoundTrip(t *testing.T) {
	t.Parallel()

	cases := []string{
		"\n",
		"root\n",
		"\n|-- \n`-- \n",
		"r\n`-- a\n    `-- b\n        |-- c\n        `-- d\n",
		"r\n|-- a\n|   `-- b\n|       `-- c\n`-- z\n",
		"r\n|--   leading spaces kept\n`-- `-- looks like a marker\n",
		"r\n`-- a\n    |-- b\n    |   `-- a |-- b\n    `-- x `-- y |   z\n",
		"r\n|-- ├── unicode marker text\n|   `-- └── also\n`-- +-- plus\n",
		"r |-- root with marker\n`-- a\n",
	}
	for _, in := range cases {
		tr, err := ParseString(in)
		require.NoError(t, err, "input %q", in)
		assert.Equal(t, in, render.Render(tr))
	}
}

func TestParse_CarriageReturnIsLineEnding(t *testing.T) {
	t.Parallel()

	tr := model.NewTree("r")
	ref := tr.AppendNode()
	require.NoError(t, tr.SetLabel(ref, "a\r"))

	back, err := ParseString(render.Render(tr))
	require.NoError(t, err)
	require.Len(t, back.Nodes, 1)
	assert.Equal(t, "a", back.Nodes[0].Label)
}

func TestParse_UnicodeAndTreeSummary(t *testing.T) {
	t.Parallel()

	in := "proj\n" +
		"├── src\n" +
		"│   ├── main.go\n" +
		"│   └── util.go\n" +
		"└── README.md\n" +
		"\n" +
		"1 directory, 3 files\n"
	tr, err := ParseString(in)
	require.NoError(t, err)
	assert.Equal(t, projText, render.Render(tr))
}

func TestParse_StrippedTrailingWhitespace(t *testing.T) {
	t.Parallel()

	tr, err := ParseString("r\r\n|--\r\n`-- b\r\n    `--\r\n")
	require.NoError(t, err)
	assert.Equal(t, "r\n|-- \n`-- b\n    `-- \n", render.Render(tr))
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"r\n|   |-- too deep\n":     2,
		"r\n|-- a\nnot a tree line\n": 3,
		"r\n  |-- odd indent\n":      2,
		"r\nxx`-- junk prefix\n":     2,
	}
	for in, line := range cases {
		_, err := ParseString(in)
		var se *SyntaxError
		require.True(t, errors.As(err, &se), "input %q: %v", in, err)
		assert.Equal(t, line, se.Line, "input %q", in)
		assert.True(t, strings.HasPrefix(se.Error(), "line "))
	}
}

func TestParse_EmptyInput(t *testing.T) {
	t.Parallel()

	tr, err := ParseString("")
	require.NoError(t, err)
	assert.Equal(t, "", tr.RootLabel)
	assert.Empty(t, tr.Nodes)
}

func TestParse_TreeIsEditable(t *testing.T) {
	t.Parallel()

	tr, err := ParseString(projText)
	require.NoError(t, err)
	ref, err := tr.RefAt([]int{1})
	require.NoError(t, err)
	require.NoError(t, tr.Delete(ref))
	assert.Equal(t, "proj\n`-- README.md\n", render.Render(tr))

	n := tr.AppendNode()
	_, ok := tr.Find(n)
	assert.True(t, ok)
	assert.ErrorIs(t, tr.Delete("nope"), model.ErrInvalidReference)
}
