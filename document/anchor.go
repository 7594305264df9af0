package document

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Anchor is a located element or text span. Element anchors remember the
// scope they were found in so that navigation never leaves it; span anchors
// index into the text of their scope.
type Anchor struct {
	sel   *goquery.Selection
	scope *html.Node

	base       string
	start, end int
}

func NodeAnchor(sel *goquery.Selection, scope *html.Node) Anchor {
	return Anchor{sel: sel.First(), scope: scope}
}

func SpanAnchor(base string, start, end int) Anchor {
	if start < 0 {
		start = 0
	}
	if end > len(base) {
		end = len(base)
	}
	if end < start {
		end = start
	}

	return Anchor{base: base, start: start, end: end}
}

func (a Anchor) IsNode() bool {
	return a.sel != nil
}

// Selection is nil for span anchors.
func (a Anchor) Selection() *goquery.Selection {
	return a.sel
}

func (a Anchor) Node() *html.Node {
	if a.sel == nil {
		return nil
	}

	return a.sel.Get(0)
}

func (a Anchor) Scope() *html.Node {
	return a.scope
}

func (a Anchor) Span() (int, int) {
	return a.start, a.end
}

// Line is the 1-based line of the span start within its base text.
// Element anchors report 0.
func (a Anchor) Line() int {
	if a.IsNode() {
		return 0
	}

	return strings.Count(a.base[:a.start], "\n") + 1
}

// FlatText is the anchor text with one block per line, used by regex
// locators and regex captures.
func (a Anchor) FlatText() string {
	if a.IsNode() {
		return strings.Join(Flatten(a.Node()), "\n")
	}

	return a.base[a.start:a.end]
}

// Lines splits the anchor text into trimmed, non-blank lines.
func (a Anchor) Lines() []string {
	if a.IsNode() {
		return Flatten(a.Node())
	}

	return splitLines(a.base[a.start:a.end])
}

// FullText concatenates every descendant text node. ok is false when the
// anchor holds no text node at all.
func (a Anchor) FullText() (string, bool) {
	if a.IsNode() {
		if !hasText(a.Node(), true) {
			return "", false
		}

		return strings.Join(Flatten(a.Node()), " "), true
	}

	if a.start == a.end {
		return "", false
	}

	return Collapse(a.base[a.start:a.end]), true
}

// OwnText concatenates the direct child text nodes of an element anchor.
// For span anchors it is the span text.
func (a Anchor) OwnText() (string, bool) {
	if !a.IsNode() {
		return a.FullText()
	}

	n := a.Node()
	if !hasText(n, false) {
		return "", false
	}

	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
			b.WriteByte(' ')
		}
	}

	return Collapse(b.String()), true
}

func (a Anchor) Attr(name string) (string, bool) {
	if !a.IsNode() {
		return "", false
	}

	return a.sel.Attr(name)
}

// FollowingText returns the nth (1-based) non-blank text after the anchor.
// Element anchors walk text nodes in document order up to the end of their
// scope; span anchors walk the remaining lines of their base text, starting
// with the rest of the line the span ends on.
func (a Anchor) FollowingText(n int) (string, bool) {
	if n < 1 {
		return "", false
	}

	if !a.IsNode() {
		count := 0
		for _, line := range strings.Split(a.base[a.end:], "\n") {
			line = Collapse(line)
			if line == "" {
				continue
			}
			count++
			if count == n {
				return line, true
			}
		}

		return "", false
	}

	bound := a.scope
	count := 0
	for cur := skipSubtree(a.Node(), bound); cur != nil; cur = preorderNext(cur, bound) {
		if cur.Type != html.TextNode || skipParent(cur) {
			continue
		}

		text := Collapse(cur.Data)
		if text == "" {
			continue
		}

		count++
		if count == n {
			return text, true
		}
	}

	return "", false
}

func preorderNext(n, bound *html.Node) *html.Node {
	if n.FirstChild != nil {
		return n.FirstChild
	}

	return skipSubtree(n, bound)
}

// skipSubtree returns the next node after n's subtree without leaving bound.
func skipSubtree(n, bound *html.Node) *html.Node {
	for n != nil && n != bound {
		if n.NextSibling != nil {
			return n.NextSibling
		}
		n = n.Parent
	}

	return nil
}

func skipParent(n *html.Node) bool {
	if n.Parent == nil || n.Parent.Type != html.ElementNode {
		return false
	}

	switch n.Parent.Data {
	case "script", "style", "noscript", "template":
		return true
	}

	return false
}

func hasText(n *html.Node, deep bool) bool {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode && !skipParent(c) {
			return true
		}
		if deep && c.Type == html.ElementNode && hasText(c, true) {
			return true
		}
	}

	return false
}
