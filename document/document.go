package document

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// ErrUnparsable is returned when the raw bytes cannot be turned into a
// document tree or a text document.
var ErrUnparsable = errors.New("document unparsable")

type Kind int

const (
	HTML Kind = iota
	Text
)

func (k Kind) String() string {
	switch k {
	case HTML:
		return "html"
	case Text:
		return "text"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "html", "htm", "":
		return HTML, nil
	case "text", "txt", "pdf-text":
		return Text, nil
	}

	return HTML, fmt.Errorf("unknown document kind %q", s)
}

// Document is one parsed input: either an HTML tree or a plain text body.
// A Document is read-only after Parse.
type Document struct {
	source string
	kind   Kind
	dom    *goquery.Document
	text   string
}

// Parse decodes body to UTF-8 and builds the document for kind.
// Empty, binary or structurally empty inputs are reported as ErrUnparsable.
func Parse(source string, kind Kind, body []byte) (*Document, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: %s: empty body", ErrUnparsable, source)
	}

	if bytes.IndexByte(body, 0) >= 0 {
		return nil, fmt.Errorf("%w: %s: binary content", ErrUnparsable, source)
	}

	contentType := "text/html"
	if kind == Text {
		contentType = "text/plain"
	}

	utf8Body, err := Decode(body, contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparsable, source, err)
	}

	d := &Document{source: source, kind: kind}

	switch kind {
	case HTML:
		dom, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8Body))
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrUnparsable, source, err)
		}

		if dom.Find("body *").Length() == 0 && strings.TrimSpace(dom.Text()) == "" {
			return nil, fmt.Errorf("%w: %s: no content", ErrUnparsable, source)
		}

		d.dom = dom
	case Text:
		if !utf8.Valid(utf8Body) {
			return nil, fmt.Errorf("%w: %s: invalid utf-8", ErrUnparsable, source)
		}

		d.text = strings.ReplaceAll(string(utf8Body), "\r\n", "\n")
	default:
		return nil, fmt.Errorf("%w: %s: %v", ErrUnparsable, source, kind)
	}

	return d, nil
}

func (d *Document) Source() string {
	return d.source
}

func (d *Document) Kind() Kind {
	return d.kind
}

// Root is the anchor covering the whole document. Locators run below it.
func (d *Document) Root() Anchor {
	if d.kind == HTML {
		return NodeAnchor(d.dom.Selection, d.dom.Selection.Get(0))
	}

	return SpanAnchor(d.text, 0, len(d.text))
}

// Text returns the flattened text of the document, one block per line.
func (d *Document) Text() string {
	return d.Root().FlatText()
}
