package extract

import (
	"fmt"
	"regexp"

	"github.com/dreamerjackson/confextract/document"
)

type Source int

const (
	SourceFullText Source = iota
	SourceOwnText
	SourceAttribute
	SourceFollowing
	SourceLines
)

func (s Source) String() string {
	switch s {
	case SourceFullText:
		return "full_text"
	case SourceOwnText:
		return "own_text"
	case SourceAttribute:
		return "attribute"
	case SourceFollowing:
		return "following_text"
	case SourceLines:
		return "lines"
	default:
		return fmt.Sprintf("source(%d)", int(s))
	}
}

// Rule turns an anchor into raw strings. The zero Rule is FullText.
type Rule struct {
	source Source
	attr   string
	n      int

	pattern *regexp.Regexp
	group   int
	all     bool

	script string
}

func FullText() Rule {
	return Rule{source: SourceFullText}
}

func OwnText() Rule {
	return Rule{source: SourceOwnText}
}

func Attribute(name string) Rule {
	return Rule{source: SourceAttribute, attr: name}
}

// FollowingText takes the nth non-blank text after the anchor.
func FollowingText(n int) Rule {
	return Rule{source: SourceFollowing, n: n}
}

// Lines yields every non-blank line of the anchor as its own value.
func Lines() Rule {
	return Rule{source: SourceLines}
}

// RegexCapture applies re to the anchor's flattened text and keeps group.
func RegexCapture(re *regexp.Regexp, group int) Rule {
	return FullText().Capture(re, group)
}

// Capture narrows the rule's text to a regex group.
func (r Rule) Capture(re *regexp.Regexp, group int) Rule {
	r.pattern = re
	r.group = group
	return r
}

// All keeps every regex match instead of the first one.
func (r Rule) All() Rule {
	r.all = true
	return r
}

// Script post-processes each value with a javascript snippet, see script.go.
func (r Rule) Script(src string) Rule {
	r.script = src
	return r
}

func (r Rule) Source() Source {
	return r.source
}

func (r Rule) String() string {
	s := r.source.String()
	switch r.source {
	case SourceAttribute:
		s += "(" + r.attr + ")"
	case SourceFollowing:
		s += fmt.Sprintf("(%d)", r.n)
	}
	if r.pattern != nil {
		s += fmt.Sprintf(" /%s/[%d]", r.pattern, r.group)
		if r.all {
			s += "*"
		}
	}
	if r.script != "" {
		s += " script"
	}

	return s
}

// Extract applies rule to anchor. Absent text yields no values; a present
// but empty text yields "". Regex groups that did not take part in the
// match are absent.
func Extract(a document.Anchor, rule Rule) []string {
	values := base(a, rule)
	if rule.pattern != nil {
		values = capture(values, rule)
	}
	if rule.script != "" {
		values = runScript(rule.script, values)
	}

	return values
}

func base(a document.Anchor, rule Rule) []string {
	var (
		text string
		ok   bool
	)

	switch rule.source {
	case SourceFullText:
		if rule.pattern != nil {
			if _, ok = a.FullText(); ok {
				return []string{a.FlatText()}
			}
			return nil
		}
		text, ok = a.FullText()
	case SourceOwnText:
		text, ok = a.OwnText()
	case SourceAttribute:
		text, ok = a.Attr(rule.attr)
		text = document.Collapse(text)
	case SourceFollowing:
		text, ok = a.FollowingText(rule.n)
	case SourceLines:
		return a.Lines()
	}

	if !ok {
		return nil
	}

	return []string{text}
}

func capture(values []string, rule Rule) []string {
	if rule.group < 0 || rule.group > rule.pattern.NumSubexp() {
		return nil
	}

	var out []string
	for _, v := range values {
		var matches [][]int
		if rule.all {
			matches = rule.pattern.FindAllStringSubmatchIndex(v, -1)
		} else if m := rule.pattern.FindStringSubmatchIndex(v); m != nil {
			matches = [][]int{m}
		}

		for _, m := range matches {
			start, end := m[2*rule.group], m[2*rule.group+1]
			if start < 0 {
				continue
			}
			out = append(out, document.Collapse(v[start:end]))
		}
	}

	return out
}
