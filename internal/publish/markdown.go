package publish

import (
	"bytes"
	"strings"

	"treeedit-cli/internal/model"
	"treeedit-cli/internal/render"
)

type RenderOptions struct {
	// Outline adds a nested bullet list after the rendered text block.
	Outline bool
}

// RenderTreeMarkdown returns a markdown document: the root label as heading
// and the rendered tree in a fenced text block.
func RenderTreeMarkdown(t *model.Tree, opt RenderOptions) string {
	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	title := strings.TrimSpace(t.RootLabel)
	if title == "" {
		title = "Tree"
	}
	writeLn("# " + escapeInline(title))
	writeLn("")

	text := render.Render(t)
	fence := codeFence(text)
	writeLn(fence + "text")
	buf.WriteString(text)
	writeLn(fence)

	if opt.Outline && len(t.Nodes) > 0 {
		writeLn("")
		writeLn("## Outline")
		writeLn("")
		t.Walk(func(v model.Visit) bool {
			writeLn(strings.Repeat("  ", v.Depth) + "- " + escapeInline(v.Node.Label))
			return true
		})
	}
	return buf.String()
}

// codeFence picks a backtick fence longer than any backtick run in text.
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	n := 3
	if longest >= n {
		n = longest + 1
	}
	return strings.Repeat("`", n)
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	">", `\>`,
	"#", `\#`,
	"\n", " ",
)

func escapeInline(s string) string {
	return inlineEscaper.Replace(s)
}
