package tree

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/openstax/openstax-resource-names/internal/domain/resource"
)

const (
	numberClass = "os-number"
	textClass   = "os-text"
)

// SplitTitle splits an archive HTML title into its full text, its
// ".os-number" span and its ".os-text" span, whitespace-collapsed.
func SplitTitle(src string) resource.TitleParts {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return resource.TitleParts{Title: clean(src)}
	}

	parts := resource.TitleParts{Title: clean(textContent(doc))}
	if n := findByClass(doc, numberClass); n != nil {
		parts.Number = clean(textContent(n))
	}
	if n := findByClass(doc, textClass); n != nil {
		parts.ShortTitle = clean(textContent(n))
	}
	return parts
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func findByClass(n *html.Node, class string) *html.Node {
	if n.Type == html.ElementNode && hasClass(n, class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" {
			for _, c := range strings.Fields(a.Val) {
				if c == class {
					return true
				}
			}
		}
	}
	return false
}

func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
