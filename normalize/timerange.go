package normalize

import (
	"regexp"
	"strconv"
	"strings"
)

const clockPattern = `(\d{1,2})[:.](\d{2})\s*([AaPp]\.?\s?[Mm]\.?)?`

var (
	rangeRe = regexp.MustCompile(clockPattern + `\s*(?:(?:-|–|—|to)\s*|\s+)` + clockPattern)
	clockRe = regexp.MustCompile(clockPattern)
	// nested markers such as <small>US ET</small> end up after the times
	zoneRe = regexp.MustCompile(`\b(US\s+[ECMP]T|[ECMP][SD]?T|CES?T|BST|GMT|UTC|WES?T|EES?T)\b`)
)

type clock struct {
	hour, minute int
	meridiem     string // "am", "pm" or "" for 24h
}

func readClock(h, m, mer string) (clock, bool) {
	hour, err := strconv.Atoi(h)
	if err != nil {
		return clock{}, false
	}
	minute, err := strconv.Atoi(m)
	if err != nil || minute > 59 {
		return clock{}, false
	}

	mer = strings.ToLower(strings.NewReplacer(".", "", " ", "").Replace(mer))
	if mer != "" && (hour < 1 || hour > 12) {
		return clock{}, false
	}
	if mer == "" && hour > 23 {
		return clock{}, false
	}

	return clock{hour: hour, minute: minute, meridiem: mer}, true
}

// as24 resolves the clock using meridiem mer ("" keeps 24h reading).
func (c clock) as24(mer string) Clock {
	h := c.hour
	switch mer {
	case "am":
		if h == 12 {
			h = 0
		}
	case "pm":
		if h != 12 {
			h += 12
		}
	}

	return NewClock(h, c.minute)
}

func (c clock) resolve() Clock {
	return c.as24(c.meridiem)
}

func clockValue(s string, _ Options) (any, Confidence, bool) {
	m := clockRe.FindStringSubmatch(s)
	if m == nil {
		return nil, Missing, false
	}
	c, ok := readClock(m[1], m[2], m[3])
	if !ok {
		return nil, Missing, false
	}

	return c.resolve(), Exact, true
}

func rangeValue(s string, _ Options) (any, Confidence, bool) {
	m := rangeRe.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, Missing, false
	}
	group := func(i int) string {
		if m[2*i] < 0 {
			return ""
		}
		return s[m[2*i]:m[2*i+1]]
	}

	start, ok1 := readClock(group(1), group(2), group(3))
	end, ok2 := readClock(group(4), group(5), group(6))
	if !ok1 || !ok2 {
		return nil, Missing, false
	}

	conf := Exact
	var from, to Clock
	switch {
	case start.meridiem == end.meridiem:
		from, to = start.resolve(), end.resolve()
	case start.meridiem == "":
		// "9:00 - 10:30 AM": the start borrows the end's meridiem unless
		// that puts it after the end
		conf = Inferred
		to = end.resolve()
		from = start.as24(end.meridiem)
		if from.Minutes() > to.Minutes() {
			from = start.as24(flip(end.meridiem))
		}
	case end.meridiem == "":
		conf = Inferred
		from = start.resolve()
		to = end.as24(start.meridiem)
		if to.Minutes() < from.Minutes() {
			to = end.as24(flip(start.meridiem))
		}
	default:
		from, to = start.resolve(), end.resolve()
	}

	return TimeRange{Start: from, End: exactPart(string(to)), Zone: zone(s[m[1]:])}, conf, true
}

// openRangeValue accepts a lone start time: the end is legitimately missing.
func openRangeValue(s string, _ Options) (any, Confidence, bool) {
	m := clockRe.FindStringSubmatchIndex(s)
	if m == nil {
		return nil, Missing, false
	}
	var mer string
	if m[6] >= 0 {
		mer = s[m[6]:m[7]]
	}
	c, ok := readClock(s[m[2]:m[3]], s[m[4]:m[5]], mer)
	if !ok {
		return nil, Missing, false
	}

	return TimeRange{Start: c.resolve(), Zone: zone(s[m[1]:])}, Exact, true
}

func zone(rest string) Part {
	z := zoneRe.FindString(rest)
	if z == "" {
		return Part{}
	}

	return exactPart(strings.Join(strings.Fields(z), " "))
}

func flip(mer string) string {
	if mer == "am" {
		return "pm"
	}

	return "am"
}

// ParseTimeRange runs the time range strategies on a single string.
func ParseTimeRange(s string) (TimeRange, Confidence, bool) {
	f := Normalize([]string{s}, TypeTimeRange, Options{})
	r, ok := f.TimeRange()
	return r, f.Confidence, ok
}
