package locate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dreamerjackson/confextract/document"
)

// ErrAnchorNotFound marks a required field whose locator matched nothing.
var ErrAnchorNotFound = errors.New("anchor not found")

type Cardinality int

const (
	One Cardinality = iota
	OptionalOne
	Many
)

func (c Cardinality) String() string {
	switch c {
	case One:
		return "one"
	case OptionalOne:
		return "optional-one"
	case Many:
		return "many"
	default:
		return fmt.Sprintf("cardinality(%d)", int(c))
	}
}

func ParseCardinality(s string) (Cardinality, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "one", "":
		return One, nil
	case "optional-one", "optional_one", "optional":
		return OptionalOne, nil
	case "many":
		return Many, nil
	}

	return One, fmt.Errorf("unknown cardinality %q", s)
}

// Spec describes how to find the anchor of one field.
//
// Element specs are built from Tag, Classes and Attr/AttrValue, or given as
// a raw CSS Selector; Contains keeps elements whose own text contains the
// string and Self matches the scope itself instead of its descendants.
// A Pattern without any element selector matches the flattened text of the
// scope; with Block set each match extends to the next one.
type Spec struct {
	Tag       string
	Classes   []string
	Attr      string
	AttrValue string
	Selector  string
	Contains  string
	Self      bool

	Pattern *regexp.Regexp
	Block   bool

	Cardinality Cardinality
}

func (s Spec) hasElement() bool {
	return s.Selector != "" || s.Tag != "" || len(s.Classes) > 0 || s.Attr != "" || s.Self
}

// CSS returns the goquery selector for element specs.
func (s Spec) CSS() string {
	if s.Selector != "" {
		return s.Selector
	}

	var b strings.Builder
	if s.Tag != "" {
		b.WriteString(s.Tag)
	}
	for _, c := range s.Classes {
		b.WriteByte('.')
		b.WriteString(c)
	}
	if s.Attr != "" {
		if s.AttrValue != "" {
			fmt.Fprintf(&b, "[%s=%q]", s.Attr, s.AttrValue)
		} else {
			fmt.Fprintf(&b, "[%s]", s.Attr)
		}
	}
	if b.Len() == 0 {
		return "*"
	}

	return b.String()
}

func (s Spec) String() string {
	var parts []string
	if s.hasElement() {
		css := s.CSS()
		if s.Self {
			css = "self:" + css
		}
		parts = append(parts, css)
	}
	if s.Contains != "" {
		parts = append(parts, fmt.Sprintf("contains(%q)", s.Contains))
	}
	if s.Pattern != nil {
		parts = append(parts, "/"+s.Pattern.String()+"/")
	}

	return strings.Join(parts, " ")
}

// Locate returns the anchors matching spec below scope, in document order.
// It never fails; no match is an empty result. Cardinality is not enforced
// here: callers of one/optional-one fields take the first anchor.
func Locate(scope document.Anchor, spec Spec) []document.Anchor {
	if spec.Self && !scope.IsNode() && spec.CSS() == "*" {
		if spec.Pattern != nil && !spec.Pattern.MatchString(scope.FlatText()) {
			return nil
		}
		return []document.Anchor{scope}
	}

	if spec.hasElement() {
		return locateElements(scope, spec)
	}

	if spec.Pattern != nil {
		return locateText(scope.FlatText(), spec.Pattern, spec.Block)
	}

	return nil
}

// First applies the first-wins convention.
func First(scope document.Anchor, spec Spec) (document.Anchor, bool) {
	anchors := Locate(scope, spec)
	if len(anchors) == 0 {
		return document.Anchor{}, false
	}

	return anchors[0], true
}

func locateElements(scope document.Anchor, spec Spec) []document.Anchor {
	if !scope.IsNode() {
		return nil
	}

	var found *goquery.Selection
	if spec.Self {
		found = scope.Selection()
		if css := spec.CSS(); css != "*" {
			found = found.Filter(css)
		}
	} else {
		found = scope.Selection().Find(spec.CSS())
	}

	var anchors []document.Anchor
	found.Each(func(i int, s *goquery.Selection) {
		a := document.NodeAnchor(s, scope.Node())
		if spec.Contains != "" {
			own, _ := a.OwnText()
			if !strings.Contains(own, spec.Contains) {
				return
			}
		}
		if spec.Pattern != nil && !spec.Pattern.MatchString(a.FlatText()) {
			return
		}
		anchors = append(anchors, a)
	})

	return anchors
}

func locateText(base string, re *regexp.Regexp, block bool) []document.Anchor {
	matches := re.FindAllStringIndex(base, -1)
	anchors := make([]document.Anchor, 0, len(matches))
	for i, m := range matches {
		end := m[1]
		if block {
			end = len(base)
			if i+1 < len(matches) {
				end = matches[i+1][0]
			}
		}
		anchors = append(anchors, document.SpanAnchor(base, m[0], end))
	}

	return anchors
}
