package normalize

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

const weekday = `(?:mon|tue|tues|wed|thu|thur|thurs|fri|sat|sun)(?:day|nesday|rsday|urday|sday)?\.?`

type dateLayout struct {
	name string
	re   *regexp.Regexp
	// indexes of the month, day and year groups
	month, day, year int
	numericMonth     bool
}

var dateLayouts = []dateLayout{
	{
		name:  "weekday-month-day-year",
		re:    regexp.MustCompile(`(?i)\b` + weekday + `,?\s+([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		month: 1, day: 2, year: 3,
	},
	{
		name:  "month-day-year",
		re:    regexp.MustCompile(`(?i)\b([a-z]+)\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`),
		month: 1, day: 2, year: 3,
	},
	{
		name:  "numeric-mdy",
		re:    regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{4})\b`),
		month: 1, day: 2, year: 3, numericMonth: true,
	},
	{
		name:  "day-month-year",
		re:    regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+([a-z]+)\.?,?\s+(\d{4})\b`),
		month: 2, day: 1, year: 3,
	},
}

func dateStrategies() []strategy {
	out := make([]strategy, 0, len(dateLayouts))
	for _, l := range dateLayouts {
		l := l
		out = append(out, strategy{name: l.name, fn: scalar(func(s string, _ Options) (any, Confidence, bool) {
			d, ok := l.parse(s)
			return d, Exact, ok
		})})
	}

	return out
}

func (l dateLayout) parse(s string) (Date, bool) {
	for _, m := range l.re.FindAllStringSubmatch(s, -1) {
		var month time.Month
		if l.numericMonth {
			n, err := strconv.Atoi(m[l.month])
			if err != nil || n < 1 || n > 12 {
				continue
			}
			month = time.Month(n)
		} else {
			var ok bool
			if month, ok = months[strings.ToLower(m[l.month])]; !ok {
				continue
			}
		}

		day, err := strconv.Atoi(m[l.day])
		if err != nil {
			continue
		}
		year, err := strconv.Atoi(m[l.year])
		if err != nil {
			continue
		}

		t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		if t.Day() != day || t.Month() != month {
			continue
		}

		return Date(t.Format("2006-01-02")), true
	}

	return "", false
}

// ParseDate runs the date strategies on a single string.
func ParseDate(s string) (Date, bool) {
	f := Normalize([]string{s}, TypeDate, Options{})
	return f.Date()
}
