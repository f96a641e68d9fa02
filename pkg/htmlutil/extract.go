// Package htmlutil provides DOM selection helpers for scraping parsed HTML.
package htmlutil

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

// Parse parses an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return doc, nil
}

// Matcher reports whether a node satisfies a selector rule.
type Matcher func(n *html.Node) bool

// Element matches element nodes with the given tag that satisfy every condition.
// An empty tag matches any element.
func Element(tag string, conds ...Matcher) Matcher {
	return func(n *html.Node) bool {
		if n.Type != html.ElementNode || (tag != "" && n.Data != tag) {
			return false
		}
		for _, c := range conds {
			if !c(n) {
				return false
			}
		}
		return true
	}
}

// HasClass matches nodes carrying all of the given classes, in any order.
func HasClass(classes ...string) Matcher {
	return func(n *html.Node) bool {
		v, ok := Attr(n, "class")
		if !ok {
			return false
		}
		have := strings.Fields(v)
		for _, c := range classes {
			if !slices.Contains(have, c) {
				return false
			}
		}
		return true
	}
}

// AttrEquals matches nodes whose attribute key has exactly the value val.
func AttrEquals(key, val string) Matcher {
	return func(n *html.Node) bool {
		v, ok := Attr(n, key)
		return ok && v == val
	}
}

// AttrContains matches nodes whose attribute key contains sub.
func AttrContains(key, sub string) Matcher {
	return func(n *html.Node) bool {
		v, ok := Attr(n, key)
		return ok && strings.Contains(v, sub)
	}
}

// Find returns the first descendant of n, in document order, that satisfies m.
// It returns nil if n is nil or nothing matches.
func Find(n *html.Node, m Matcher) *html.Node {
	if n == nil {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if m(c) {
			return c
		}
		if found := Find(c, m); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of n that satisfies m, in document order.
// Matches nested inside other matches are included.
func FindAll(n *html.Node, m Matcher) []*html.Node {
	if n == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			if m(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Text returns the concatenated text content of n with surrounding whitespace trimmed.
func Text(n *html.Node) string {
	if n == nil {
		return ""
	}
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(p *html.Node) {
		if p.Type == html.TextNode {
			sb.WriteString(p.Data)
		}
		for c := p.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(sb.String())
}
