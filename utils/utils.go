package utils

import (
	"html/template"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// MarkdownToHTML renders model output for the page. Raw HTML in the input is
// dropped rather than passed through.
func MarkdownToHTML(md string) template.HTML {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.SkipHTML | html.HrefTargetBlank | html.NoopenerLinks,
	})

	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}
