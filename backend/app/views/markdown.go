package views

import (
	"bytes"
	"html/template"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(
			extension.Linkify,
			extension.Table,
			extension.Strikethrough,
		),
	)
	policy = bluemonday.UGCPolicy()

	funcs = template.FuncMap{"markdown": Markdown}
)

// Markdown renders feedback content to sanitized HTML. Content that fails to
// convert is shown escaped as plain text.
func Markdown(content string) template.HTML {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(content))
	}
	return template.HTML(policy.SanitizeBytes(buf.Bytes()))
}
