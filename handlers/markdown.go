package handlers

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/giygas/bulario-chat/logging"
)

// Replies are markdown. Raw HTML in them is dropped, not passed through.
var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// renderMarkdown returns the HTML of a reply, or "" if it cannot be rendered
func renderMarkdown(source string) string {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(source), &buf); err != nil {
		logging.Warn("Failed to render reply", "error", err)
		return ""
	}
	return buf.String()
}
