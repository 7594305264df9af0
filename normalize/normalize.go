package normalize

import (
	"strings"

	"github.com/dreamerjackson/confextract/document"
)

// Options carries the per-field parameters some types need.
type Options struct {
	// Labels are the canonical values of an enum field.
	Labels []Label
	// Layout overrides DefaultLayout for affiliation chains.
	Layout Layout
}

// strategy turns raw values into a typed value; ok=false hands over to the
// next strategy of the same type.
type strategy struct {
	name string
	fn   func(raw []string, opts Options) (any, Confidence, bool)
}

// scalar adapts a single-string parser to the strategy signature by
// feeding it the first non-blank raw value.
func scalar(fn func(s string, opts Options) (any, Confidence, bool)) func([]string, Options) (any, Confidence, bool) {
	return func(raw []string, opts Options) (any, Confidence, bool) {
		return fn(firstNonBlank(raw), opts)
	}
}

var strategies map[Type][]strategy

func init() {
	strategies = map[Type][]strategy{
		TypeText:        {{"collapsed", scalar(textValue)}},
		TypeList:        {{"non-blank", listValue}},
		TypeDate:        dateStrategies(),
		TypeClock:       {{"12h-or-24h", scalar(clockValue)}},
		TypeTimeRange:   {{"start-end", scalar(rangeValue)}, {"start-only", scalar(openRangeValue)}},
		TypePerson:      {{"trailing-credentials", scalar(personValue)}},
		TypeAffiliation: {{"positional", affiliationValue}},
		TypeEnum:        {{"label", scalar(enumExact)}, {"fuzzy-label", scalar(enumFuzzy)}, {"verbatim", scalar(enumVerbatim)}},
	}
}

// Normalize converts raw values into a Field of type t. It never fails:
// no raw value gives IssueNotFound, only blank values IssueEmpty, and text
// that no strategy accepts IssueMismatch.
func Normalize(raw []string, t Type, opts Options) Field {
	if len(raw) == 0 {
		return Absent(t, IssueNotFound, nil)
	}
	if firstNonBlank(raw) == "" {
		return Absent(t, IssueEmpty, raw)
	}

	for _, s := range strategies[t] {
		v, c, ok := s.fn(raw, opts)
		if ok {
			return Field{Type: t, Confidence: c, Value: v, Raw: raw}
		}
	}

	return Absent(t, IssueMismatch, raw)
}

// Strategies lists the strategy names tried for t, in order.
func Strategies(t Type) []string {
	var names []string
	for _, s := range strategies[t] {
		names = append(names, s.name)
	}

	return names
}

func firstNonBlank(raw []string) string {
	for _, r := range raw {
		if r = document.Collapse(r); r != "" {
			return r
		}
	}

	return ""
}

func textValue(s string, _ Options) (any, Confidence, bool) {
	return s, Exact, s != ""
}

func listValue(raw []string, _ Options) (any, Confidence, bool) {
	var out []string
	for _, r := range raw {
		if r = document.Collapse(r); r != "" {
			out = append(out, r)
		}
	}

	return out, Exact, len(out) > 0
}

func splitSegments(raw []string) []string {
	var out []string
	for _, r := range raw {
		for _, seg := range strings.FieldsFunc(r, func(c rune) bool { return c == '|' || c == '\n' }) {
			if seg = document.Collapse(seg); seg != "" {
				out = append(out, seg)
			}
		}
	}

	return out
}
