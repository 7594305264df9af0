package document

import (
	"strings"

	"golang.org/x/net/html"
)

var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "tbody": true, "td": true, "th": true, "thead": true,
	"tr": true, "ul": true,
}

// Flatten renders the text under n the way a browser would break it into
// lines: block elements and <br> start a new line, inline text is joined.
// Lines are whitespace-collapsed and blank lines dropped.
func Flatten(n *html.Node) []string {
	if n == nil {
		return nil
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if !skipParent(n) {
				b.WriteString(n.Data)
			}
			return
		case html.CommentNode:
			return
		}

		block := n.Type == html.ElementNode && blockElements[n.Data]
		if block {
			b.WriteByte('\n')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			b.WriteByte('\n')
		}
	}
	walk(n)

	return splitLines(b.String())
}

// Collapse trims s and folds every whitespace run, nbsp included, into one space.
func Collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func splitLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = Collapse(line); line != "" {
			lines = append(lines, line)
		}
	}

	return lines
}
