package record

import (
	"fmt"
	"strings"

	"github.com/dreamerjackson/confextract/normalize"
)

// Validator checks a relation between fields of an assembled record. A
// non-nil error downgrades the record to partial; fields are kept.
// Validators skip fields that are missing, those are reported on their own.
type Validator struct {
	Name  string
	Check func(r *Record) error
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// startOf reads a clock from a clock field or the start of a time range.
func startOf(f normalize.Field) (normalize.Clock, bool) {
	if c, ok := f.Clock(); ok {
		return c, true
	}
	if r, ok := f.TimeRange(); ok {
		return r.Start, true
	}

	return "", false
}

// RangeOrdered requires the end of a time range to not precede its start.
func RangeOrdered(field string) Validator {
	return Validator{
		Name: "range_ordered(" + field + ")",
		Check: func(r *Record) error {
			f, _ := r.Field(field)
			tr, ok := f.TimeRange()
			if !ok {
				return nil
			}
			end, ok := tr.EndClock()
			if ok && end.Minutes() < tr.Start.Minutes() {
				return invalid("%s ends at %s before it starts at %s", field, end, tr.Start)
			}
			return nil
		},
	}
}

// TimeWithin requires the clock (or range start) in field to fall inside
// the time range in window.
func TimeWithin(field, window string) Validator {
	return Validator{
		Name: "time_within(" + field + "," + window + ")",
		Check: func(r *Record) error {
			return within(r, field, window, r)
		},
	}
}

// WithinEach applies TimeWithin to every sub-record of a records field,
// against the window of the parent record.
func WithinEach(children, field, window string) Validator {
	return Validator{
		Name: "within_each(" + children + "." + field + "," + window + ")",
		Check: func(r *Record) error {
			var bad []string
			for _, c := range r.Children(children) {
				if err := within(c, field, window, r); err != nil {
					bad = append(bad, c.ID())
				}
			}
			if len(bad) > 0 {
				f, _ := r.Field(window)
				tr, _ := f.TimeRange()
				return invalid("%s %s outside %s %s", children, strings.Join(bad, ", "), window, describe(tr))
			}
			return nil
		},
	}
}

func within(r *Record, field, window string, owner *Record) error {
	f, _ := r.Field(field)
	c, ok := startOf(f)
	if !ok {
		return nil
	}
	w, _ := owner.Field(window)
	tr, ok := w.TimeRange()
	if !ok {
		return nil
	}
	if !tr.Contains(c) {
		return invalid("%s %s outside %s %s", field, c, window, describe(tr))
	}

	return nil
}

func describe(tr normalize.TimeRange) string {
	if end, ok := tr.EndClock(); ok {
		return string(tr.Start) + "-" + string(end)
	}

	return string(tr.Start) + "-"
}

// SameValue requires two text fields to agree, e.g. a record id and the id
// embedded in its container attribute.
func SameValue(a, b string) Validator {
	return Validator{
		Name: "same_value(" + a + "," + b + ")",
		Check: func(r *Record) error {
			va, okA := r.Text(a)
			vb, okB := r.Text(b)
			if !okA || !okB {
				return nil
			}
			if !strings.EqualFold(strings.TrimSpace(va), strings.TrimSpace(vb)) {
				return invalid("%s %q differs from %s %q", a, va, b, vb)
			}
			return nil
		},
	}
}

// Validators by name, for declaration files.
var builtinValidators = map[string]func(args ...string) (Validator, error){
	"range_ordered": func(args ...string) (Validator, error) {
		if len(args) != 1 {
			return Validator{}, fmt.Errorf("range_ordered takes 1 field, got %d", len(args))
		}
		return RangeOrdered(args[0]), nil
	},
	"time_within": func(args ...string) (Validator, error) {
		if len(args) != 2 {
			return Validator{}, fmt.Errorf("time_within takes 2 fields, got %d", len(args))
		}
		return TimeWithin(args[0], args[1]), nil
	},
	"within_each": func(args ...string) (Validator, error) {
		if len(args) != 3 {
			return Validator{}, fmt.Errorf("within_each takes 3 fields, got %d", len(args))
		}
		return WithinEach(args[0], args[1], args[2]), nil
	},
	"same_value": func(args ...string) (Validator, error) {
		if len(args) != 2 {
			return Validator{}, fmt.Errorf("same_value takes 2 fields, got %d", len(args))
		}
		return SameValue(args[0], args[1]), nil
	},
}

// NewValidator builds a named validator.
func NewValidator(name string, args ...string) (Validator, error) {
	build, ok := builtinValidators[name]
	if !ok {
		return Validator{}, fmt.Errorf("unknown validator %q", name)
	}

	return build(args...)
}
