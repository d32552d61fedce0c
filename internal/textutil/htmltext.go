package textutil

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	xhtml "golang.org/x/net/html"
)

// blockTags start a new output line when flattening markup to text.
var blockTags = map[string]bool{
	"p": true, "div": true, "li": true, "br": true, "tr": true,
	"ul": true, "ol": true, "section": true, "article": true,
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
}

// skipTags never contribute text.
var skipTags = map[string]bool{
	"script": true, "style": true, "noscript": true,
}

// HTMLToText flattens markup into plain text, one line per block element,
// with entities decoded and every line normalized. Invalid markup degrades
// to normalizing the raw input rather than failing.
func HTMLToText(raw string) string {
	if raw == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html.UnescapeString(raw)))
	if err != nil {
		return Normalize(raw)
	}

	var lines []string
	var cur strings.Builder

	flush := func() {
		if line := Normalize(cur.String()); line != "" {
			lines = append(lines, line)
		}
		cur.Reset()
	}

	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			if skipTags[n.Data] {
				return
			}
			if blockTags[n.Data] {
				flush()
			}
		}
		if n.Type == xhtml.TextNode {
			cur.WriteString(n.Data)
			cur.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == xhtml.ElementNode && blockTags[n.Data] {
			flush()
		}
	}

	for _, n := range doc.Nodes {
		walk(n)
	}
	flush()

	return strings.Join(lines, "\n")
}
