package normalize

import (
	"fmt"
	"strings"
)

type Slot string

const (
	SlotTitle       Slot = "title"
	SlotDepartment  Slot = "department"
	SlotInstitution Slot = "institution"
	SlotLocation    Slot = "location"
)

func ParseSlot(s string) (Slot, error) {
	switch v := Slot(strings.ToLower(strings.TrimSpace(s))); v {
	case SlotTitle, SlotDepartment, SlotInstitution, SlotLocation:
		return v, nil
	}

	return "", fmt.Errorf("unknown affiliation slot %q", s)
}

// Layout maps a segment count to the slot each segment fills, in order.
type Layout map[int][]Slot

var DefaultLayout = Layout{
	1: {SlotInstitution},
	2: {SlotInstitution, SlotLocation},
	3: {SlotTitle, SlotInstitution, SlotLocation},
	4: {SlotTitle, SlotDepartment, SlotInstitution, SlotLocation},
}

// Validate rejects counts below 1 and entries naming more slots than
// segments they cover.
func (l Layout) Validate() error {
	for n, slots := range l {
		if n < 1 {
			return fmt.Errorf("affiliation layout: segment count %d below 1", n)
		}
		if len(slots) == 0 || len(slots) > n {
			return fmt.Errorf("affiliation layout: %d segments cannot fill %d slots", n, len(slots))
		}
	}

	return nil
}

func (l Layout) max() int {
	n := 0
	for k := range l {
		if k > n {
			n = k
		}
	}

	return n
}

// slots picks the slot assignment for n segments. Counts above the largest
// layout reuse it and fold the surplus into the second slot.
func (l Layout) slots(n int) ([]Slot, bool) {
	if s, ok := l[n]; ok {
		return s, true
	}
	if m := l.max(); m > 0 && n > m {
		return l[m], false
	}

	return nil, false
}

func affiliationValue(raw []string, opts Options) (any, Confidence, bool) {
	segs := splitSegments(raw)
	if len(segs) == 0 {
		return nil, Missing, false
	}

	layout := opts.Layout
	if len(layout) == 0 {
		layout = DefaultLayout
	}

	slots, direct := layout.slots(len(segs))
	if slots == nil {
		return nil, Missing, false
	}

	values := segs
	if len(slots) > len(segs) {
		slots = slots[:len(segs)]
	}
	if !direct {
		// merge the surplus into the second slot so the first and the trailing
		// slots stay anchored
		extra := len(segs) - len(slots)
		if len(slots) < 2 {
			values = []string{strings.Join(segs, ", ")}
		} else {
			values = append([]string{segs[0], strings.Join(segs[1:2+extra], ", ")}, segs[2+extra:]...)
		}
	}

	conf := Exact
	if !direct || len(segs) != layout.max() {
		conf = Inferred
	}

	a := Affiliation{Segments: segs}
	for i, slot := range slots {
		if i >= len(values) {
			break
		}
		p := Part{Value: values[i], Confidence: conf}
		switch slot {
		case SlotTitle:
			a.Title = p
		case SlotDepartment:
			a.Department = p
		case SlotInstitution:
			a.Institution = p
		case SlotLocation:
			a.Location = p
		}
	}

	return a, conf, true
}
