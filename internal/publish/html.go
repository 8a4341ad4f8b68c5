package publish

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		emoji.Emoji,
	),
	goldmark.WithRendererOptions(
		// Raw HTML passthrough stays off: labels are user text.
		html.WithHardWraps(),
	),
)

// MarkdownToHTML converts a markdown fragment. On conversion failure the
// source is returned escaped inside <pre>.
func MarkdownToHTML(src string) template.HTML {
	if strings.TrimSpace(src) == "" {
		return template.HTML("")
	}
	var b bytes.Buffer
	if err := markdownRenderer.Convert([]byte(src), &b); err != nil {
		return template.HTML("<pre>" + template.HTMLEscapeString(src) + "</pre>")
	}
	return template.HTML(b.String())
}

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
pre { background: #f6f6f6; padding: 1rem; overflow-x: auto; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// RenderHTMLPage wraps converted markdown in a standalone HTML document.
func RenderHTMLPage(title, markdown string) (string, error) {
	var b strings.Builder
	err := pageTmpl.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{Title: title, Body: MarkdownToHTML(markdown)})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}
