// Package sanitize reduces untrusted HTML to a fixed tag allowlist with
// per-tag attribute rules and URL protocol revalidation. Elements outside
// the allowlist are replaced by their own text content.
package sanitize

import (
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var allowedTags = map[string]bool{
	"a": true, "blockquote": true, "br": true, "code": true, "em": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"hr": true, "img": true, "li": true, "ol": true, "p": true, "pre": true,
	"strong": true, "table": true, "tbody": true, "td": true, "th": true,
	"thead": true, "tr": true, "ul": true,
}

var safeHrefSchemes = map[string]bool{"http": true, "https": true, "mailto": true, "tel": true}
var safeSrcSchemes = map[string]bool{"http": true, "https": true, "file": true, "blob": true}

// Sanitize parses the untrusted fragment and returns safe HTML. Idempotent:
// sanitizing already-sanitized output is a no-op.
func Sanitize(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), body)
	if err != nil {
		return ""
	}

	var buf strings.Builder
	for _, n := range nodes {
		detach(n)
		for _, clean := range sanitizeNode(n) {
			html.Render(&buf, clean)
		}
	}
	return buf.String()
}

// SafeHref reports whether a link target survives revalidation
// (http, https, mailto or tel).
func SafeHref(href string) bool {
	return safeScheme(href, safeHrefSchemes)
}

// SafeSrc reports whether a media source survives revalidation
// (http, https, file or blob).
func SafeSrc(src string) bool {
	return safeScheme(src, safeSrcSchemes)
}

func safeScheme(raw string, allowed map[string]bool) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return allowed[strings.ToLower(u.Scheme)]
}

// sanitizeNode returns the replacement node list for n. A disallowed
// element collapses to a text node of its own text content; an image with
// an unsafe src disappears entirely.
func sanitizeNode(n *html.Node) []*html.Node {
	switch n.Type {
	case html.TextNode:
		return []*html.Node{n}
	case html.ElementNode:
		// handled below
	default:
		// Comments, doctypes and anything else are dropped.
		return nil
	}

	tag := strings.ToLower(n.Data)
	if !allowedTags[tag] {
		return []*html.Node{{Type: html.TextNode, Data: textContent(n)}}
	}

	switch tag {
	case "a":
		href := attrValue(n, "href")
		n.Attr = nil
		if SafeHref(href) {
			n.Attr = append(n.Attr, html.Attribute{Key: "href", Val: href})
		}
		n.Attr = append(n.Attr,
			html.Attribute{Key: "rel", Val: "noopener noreferrer"},
			html.Attribute{Key: "target", Val: "_blank"},
		)
	case "img":
		src := attrValue(n, "src")
		if !SafeSrc(src) {
			return nil
		}
		alt := attrValue(n, "alt")
		n.Attr = []html.Attribute{{Key: "src", Val: src}}
		if alt != "" {
			n.Attr = append(n.Attr, html.Attribute{Key: "alt", Val: alt})
		}
	default:
		n.Attr = nil
	}

	// Rebuild the child list from each child's sanitized replacement.
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		children = append(children, c)
	}
	n.FirstChild, n.LastChild = nil, nil
	for _, c := range children {
		detach(c)
		for _, clean := range sanitizeNode(c) {
			n.AppendChild(clean)
		}
	}

	return []*html.Node{n}
}

func detach(n *html.Node) {
	n.Parent, n.PrevSibling, n.NextSibling = nil, nil, nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val
		}
	}
	return ""
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
