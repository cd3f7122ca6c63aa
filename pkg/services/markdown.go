package services

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a post's table of contents.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	ID    string `json:"id"`
}

// engine is stateless and safe to share across requests.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Linkify,
		extension.TaskList,
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

// RenderHTML converts a markdown body to HTML. This mirrors what the external
// site generator does to the same files, giving the editor a faithful preview.
func RenderHTML(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := engine.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}

// ExtractHeadings returns the heading outline of a markdown body, with the
// same auto-generated anchor ids the rendered HTML carries.
func ExtractHeadings(body []byte) []Heading {
	doc := engine.Parser().Parse(text.NewReader(body))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		entry := Heading{
			Level: h.Level,
			Text:  string(h.Text(body)),
		}
		if id, ok := h.AttributeString("id"); ok {
			if b, ok := id.([]byte); ok {
				entry.ID = string(b)
			}
		}
		headings = append(headings, entry)
		return ast.WalkSkipChildren, nil
	})
	return headings
}

// ExtractLinks returns every link destination referenced by a markdown body,
// in document order.
func ExtractLinks(body []byte) []string {
	doc := engine.Parser().Parse(text.NewReader(body))

	var links []string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch l := n.(type) {
		case *ast.Link:
			links = append(links, string(l.Destination))
		case *ast.Image:
			links = append(links, string(l.Destination))
		}
		return ast.WalkContinue, nil
	})
	return links
}
