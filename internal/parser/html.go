package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/tanisha290/adobe-teamkt-1b/internal/doctree"
	"golang.org/x/net/html"
)

// HTMLParser handles HTML files. The <title> becomes the first, largest line.
type HTMLParser struct{}

func (p *HTMLParser) Parse(r io.Reader, filename string) ([]doctree.RawLine, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	w := newPageWriter()
	w.title(findTitle(doc))

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if level := headingLevel(n.Data); level > 0 {
				w.heading(level, textContent(n))
				return
			}

			switch n.Data {
			case "script", "style", "nav", "footer", "header", "title":
				return
			case "p", "li", "td", "blockquote", "pre":
				if t := textContent(n); t != "" {
					w.paragraph(t, isBoldOnly(n))
				}
				return
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	if body := findBody(doc); body != nil {
		walk(body)
	} else {
		walk(doc)
	}
	return w.lines, nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		if n.Type == html.ElementNode && n.Data == "br" {
			buf.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(n)
	return strings.TrimSpace(buf.String())
}

// isBoldOnly reports whether all text of n sits inside <b> or <strong>.
func isBoldOnly(n *html.Node) bool {
	sawText := false
	bold := true
	var visit func(*html.Node, bool)
	visit = func(n *html.Node, inBold bool) {
		if n.Type == html.ElementNode && (n.Data == "b" || n.Data == "strong") {
			inBold = true
		}
		if n.Type == html.TextNode && strings.TrimSpace(n.Data) != "" {
			sawText = true
			if !inBold {
				bold = false
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c, inBold)
		}
	}
	visit(n, false)
	return sawText && bold
}

func findTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		return textContent(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := findTitle(c); t != "" {
			return t
		}
	}
	return ""
}

func findBody(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == "body" {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if b := findBody(c); b != nil {
			return b
		}
	}
	return nil
}
