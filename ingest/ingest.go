// Package ingest turns raw HTML into review-ready markdown.
//
// The pipeline is sanitize → locate content → convert: untrusted markup is
// stripped to a UGC-safe subset, the document body is narrowed to the
// semantic content landmark when one exists, and the remainder is converted
// to commonmark. The result is normalized so later diffs operate on
// canonical text.
package ingest

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Config configures an Ingester.
type Config struct {
	// Logger for conversion diagnostics.
	Logger *slog.Logger
}

func (c *Config) defaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Ingester converts HTML documents to markdown.
type Ingester struct {
	logger    *slog.Logger
	policy    *bluemonday.Policy
	converter *converter.Converter
}

// New creates an Ingester.
func New(cfg Config) *Ingester {
	cfg.defaults()
	return &Ingester{
		logger: cfg.Logger,
		policy: bluemonday.UGCPolicy(),
		converter: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

// Result is one converted document.
type Result struct {
	Title    string
	Markdown string
}

// ToMarkdown converts raw HTML to markdown. The title comes from <title>,
// falling back to the first h1.
func (g *Ingester) ToMarkdown(rawHTML string) (*Result, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return nil, fmt.Errorf("ingest: empty input")
	}

	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return nil, fmt.Errorf("ingest: parse html: %w", err)
	}
	title := findTitle(doc)

	content := rawHTML
	if n := findLandmark(doc); n != nil {
		content = renderNode(n)
	}
	content = g.policy.Sanitize(content)

	md, err := g.converter.ConvertString(content)
	if err != nil {
		return nil, fmt.Errorf("ingest: convert: %w", err)
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return nil, fmt.Errorf("ingest: no convertible content")
	}

	g.logger.Debug("html converted", "title", title, "markdown_bytes", len(md))
	return &Result{Title: title, Markdown: md}, nil
}

// findTitle returns the <title> text, or the first h1 text if the document
// has no title element.
func findTitle(doc *html.Node) string {
	if t := textOfFirst(doc, atom.Title); t != "" {
		return t
	}
	return textOfFirst(doc, atom.H1)
}

func textOfFirst(root *html.Node, tag atom.Atom) string {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	if found == nil {
		return ""
	}
	return strings.TrimSpace(collectText(found))
}

// findLandmark narrows the document to its semantic content element:
// <main> first, then <article>, else nil for whole-document conversion.
func findLandmark(doc *html.Node) *html.Node {
	for _, tag := range []atom.Atom{atom.Main, atom.Article} {
		if n := firstByTag(doc, tag); n != nil {
			return n
		}
	}
	return nil
}

func firstByTag(root *html.Node, tag atom.Atom) *html.Node {
	var found *html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if found != nil {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == tag {
			found = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

func collectText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}

func renderNode(n *html.Node) string {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return ""
	}
	return sb.String()
}
