package normalize

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMismatch is the diagnostic cause for raw text that fits no known format.
var ErrMismatch = errors.New("normalization mismatch")

// Confidence tells how a value was obtained. The zero value is Missing so an
// unset field is never mistaken for a present one.
type Confidence int

const (
	Missing Confidence = iota
	Inferred
	Exact
)

func (c Confidence) String() string {
	switch c {
	case Exact:
		return "exact"
	case Inferred:
		return "inferred"
	default:
		return "missing"
	}
}

func (c Confidence) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Confidence) UnmarshalText(b []byte) error {
	switch string(b) {
	case "exact":
		*c = Exact
	case "inferred":
		*c = Inferred
	case "missing", "":
		*c = Missing
	default:
		return fmt.Errorf("unknown confidence %q", b)
	}

	return nil
}

type Type string

const (
	TypeText        Type = "text"
	TypeList        Type = "list"
	TypeDate        Type = "date"
	TypeClock       Type = "clock"
	TypeTimeRange   Type = "time_range"
	TypePerson      Type = "person_name_with_credentials"
	TypeAffiliation Type = "affiliation_chain"
	TypeEnum        Type = "enum"
	TypeRecords     Type = "records"
)

func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeText, TypeList, TypeDate, TypeClock, TypeTimeRange, TypePerson,
		TypeAffiliation, TypeEnum, TypeRecords:
		return t, nil
	case "string", "":
		return TypeText, nil
	case "person", "name":
		return TypePerson, nil
	case "affiliation":
		return TypeAffiliation, nil
	case "time":
		return TypeClock, nil
	}

	return TypeText, fmt.Errorf("unknown field type %q", s)
}

// Issue says why a field is missing.
type Issue string

const (
	IssueNone     Issue = ""
	IssueNotFound Issue = "anchor_not_found"
	IssueEmpty    Issue = "empty"
	IssueMismatch Issue = "normalization_mismatch"
)

// Field is one normalized value. Value is nil whenever Confidence is Missing.
type Field struct {
	Type       Type       `json:"type"`
	Confidence Confidence `json:"confidence"`
	Value      any        `json:"value,omitempty"`
	Issue      Issue      `json:"issue,omitempty"`
	Raw        []string   `json:"raw,omitempty"`
}

func Absent(t Type, issue Issue, raw []string) Field {
	return Field{Type: t, Confidence: Missing, Issue: issue, Raw: raw}
}

func (f Field) Present() bool {
	return f.Confidence != Missing
}

func (f Field) Text() (string, bool) {
	s, ok := f.Value.(string)
	return s, ok && f.Present()
}

func (f Field) Strings() ([]string, bool) {
	s, ok := f.Value.([]string)
	return s, ok && f.Present()
}

func (f Field) Date() (Date, bool) {
	d, ok := f.Value.(Date)
	return d, ok && f.Present()
}

func (f Field) Clock() (Clock, bool) {
	c, ok := f.Value.(Clock)
	return c, ok && f.Present()
}

func (f Field) TimeRange() (TimeRange, bool) {
	r, ok := f.Value.(TimeRange)
	return r, ok && f.Present()
}

func (f Field) Person() (Person, bool) {
	p, ok := f.Value.(Person)
	return p, ok && f.Present()
}

func (f Field) Affiliation() (Affiliation, bool) {
	a, ok := f.Value.(Affiliation)
	return a, ok && f.Present()
}

// Items holds the per-anchor fields of a repeated field.
func (f Field) Items() ([]Field, bool) {
	items, ok := f.Value.([]Field)
	return items, ok && f.Present()
}

// Part is a sub-value with its own confidence, e.g. the end of an
// open-ended time range.
type Part struct {
	Value      string     `json:"value,omitempty"`
	Confidence Confidence `json:"confidence"`
}

func exactPart(v string) Part {
	return Part{Value: v, Confidence: Exact}
}

func (p Part) Present() bool {
	return p.Confidence != Missing
}

// Date is an ISO calendar date, YYYY-MM-DD.
type Date string

// Clock is a 24-hour wall clock time, HH:MM.
type Clock string

func NewClock(hour, minute int) Clock {
	return Clock(fmt.Sprintf("%02d:%02d", hour, minute))
}

// Minutes since midnight, -1 when the clock is malformed.
func (c Clock) Minutes() int {
	h, m, ok := strings.Cut(string(c), ":")
	if !ok {
		return -1
	}
	hh, err1 := strconv.Atoi(h)
	mm, err2 := strconv.Atoi(m)
	if err1 != nil || err2 != nil {
		return -1
	}

	return hh*60 + mm
}

type TimeRange struct {
	Start Clock `json:"start"`
	End   Part  `json:"end"`
	Zone  Part  `json:"zone"`
}

func (r TimeRange) EndClock() (Clock, bool) {
	return Clock(r.End.Value), r.End.Present()
}

// Contains reports whether c lies within the range. An open-ended range
// only bounds the start.
func (r TimeRange) Contains(c Clock) bool {
	m := c.Minutes()
	if m < r.Start.Minutes() {
		return false
	}
	if end, ok := r.EndClock(); ok && m > end.Minutes() {
		return false
	}

	return true
}

type Person struct {
	Name        string `json:"name"`
	Credentials Part   `json:"credentials"`
	Country     Part   `json:"country"`
}

type Affiliation struct {
	Title       Part     `json:"title"`
	Department  Part     `json:"department"`
	Institution Part     `json:"institution"`
	Location    Part     `json:"location"`
	Segments    []string `json:"segments"`
}
