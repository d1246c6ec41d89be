package source

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/net/html"
)

const (
	titleElementName   = "sequence-data-title"
	contentElementName = "sequence-data-content"
)

// ParseHTML reads sequence records from a page. Each element child of the
// container carries id/order/ini/end attributes, plus nested title and
// content elements named sequence-data-title and sequence-data-content.
func ParseHTML(r io.Reader, containerID string) ([]domain.Record, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}

	container := findNode(doc, func(n *html.Node) bool {
		return n.Type == html.ElementNode && attr(n, "id") == containerID
	})
	if container == nil {
		return nil, fmt.Errorf("%w: no element with id %q", domain.ErrUnsupportedSource, containerID)
	}

	var records []domain.Record
	for child := container.FirstChild; child != nil; child = child.NextSibling {
		if child.Type != html.ElementNode {
			continue
		}
		records = append(records, recordFromElement(child))
	}
	return records, nil
}

func recordFromElement(n *html.Node) domain.Record {
	attrs := make(map[string]string, len(n.Attr))
	for _, a := range n.Attr {
		attrs[a.Key] = a.Val
	}
	r := ParseAttributes(attrs)

	if title := findNode(n, named(titleElementName)); title != nil {
		r.Title = collapseSpace(textContent(title))
	}
	if content := findNode(n, named(contentElementName)); content != nil {
		r.Content = contentToMarkdown(content)
	}
	return r
}

// named matches elements by id, name or class, like the page's namedItem lookups
func named(name string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return false
		}
		if attr(n, "id") == name || attr(n, "name") == name {
			return true
		}
		for _, class := range strings.Fields(attr(n, "class")) {
			if class == name {
				return true
			}
		}
		return false
	}
}

// contentToMarkdown converts the element's inner HTML for terminal display
func contentToMarkdown(n *html.Node) string {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return collapseSpace(textContent(n))
		}
	}

	markdown, err := htmltomarkdown.ConvertString(buf.String())
	if err != nil {
		return collapseSpace(textContent(n))
	}
	return strings.TrimSpace(markdown)
}

func findNode(n *html.Node, match func(*html.Node) bool) *html.Node {
	if match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findNode(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	var buf strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			buf.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return buf.String()
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
