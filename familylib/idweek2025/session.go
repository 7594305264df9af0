package idweek2025

import (
	"regexp"

	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
)

var (
	sessionNumberRe = regexp.MustCompile(`^(\d+)\s*-`)
	sessionTitleRe  = regexp.MustCompile(`^\d+\s*-\s*(.+)$`)
	sessionTypeRe   = regexp.MustCompile(`Session Type:\s*(.+)`)
)

// credit patterns over the div.mar-top block
var credits = []struct {
	name    string
	pattern string
}{
	{"cme_hours", `CME Credits: Maximum of (\d+(?:\.\d+)?) hours`},
	{"moc_hours", `MOC Credits: Maximum of (\d+(?:\.\d+)?) hours`},
	{"cne_hours", `CNE Credits: Maximum of (\d+(?:\.\d+)?) hours`},
	{"acpe_hours", `ACPE Credits: ACPE (\d+(?:\.\d+)?) knowledge-based`},
	{"pace_hours", `PACE Credits: Maximum of (\d+(?:\.\d+)?) of PACE`},
	{"ce_broker_hours", `CE Broker: Maximum of (\d+(?:\.\d+)?) CE broker`},
	{"acpe_number", `ACPE Number: ([^\n]+)`},
}

var sessionTypes = []normalize.Label{
	{Name: "Symposium"},
	{Name: "Oral Abstract", Aliases: []string{"Oral Abstract Session"}},
	{Name: "Poster Abstract", Aliases: []string{"Poster Abstract Session"}},
	{Name: "Interactive Session"},
	{Name: "Meet-the-Professor", Aliases: []string{"Meet the Professor"}},
	{Name: "Plenary", Aliases: []string{"Plenary Session"}},
	{Name: "Workshop"},
}

// stripLocation drops the "Location:" label in front of the room.
const stripLocation = `value.replace(/^Location:\s*/, '')`

// SessionTable reads a session detail page.
var SessionTable = sessionTable()

func sessionTable() *record.Table {
	fields := []record.FieldSpec{
		{
			Name:   "session_number",
			Locate: locate.Spec{Tag: "h1"},
			Rule:   extract.RegexCapture(sessionNumberRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "title",
			Locate: locate.Spec{Tag: "h1"},
			Rule:   extract.RegexCapture(sessionTitleRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:    "session_type",
			Locate:  locate.Spec{Tag: "div", Contains: "Session Type:", Cardinality: locate.OptionalOne},
			Rule:    extract.OwnText().Capture(sessionTypeRe, 1),
			Type:    normalize.TypeEnum,
			Options: normalize.Options{Labels: sessionTypes},
		},
		{
			Name:   "tracks",
			Locate: locate.Spec{Tag: "p", Classes: []string{"trackname"}, Cardinality: locate.Many},
			Type:   normalize.TypeText,
		},
		{
			Name:   "date",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-calendar"}},
			Rule:   extract.FollowingText(1),
			Type:   normalize.TypeDate,
		},
		{
			Name:   "time_range",
			Locate: locate.Spec{Tag: "span", Classes: []string{"tipsytip"}},
			Type:   normalize.TypeTimeRange,
		},
		{
			Name:   "location",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-map-marker"}, Cardinality: locate.OptionalOne},
			Rule:   extract.FollowingText(1).Script(stripLocation),
			Type:   normalize.TypeText,
		},
	}

	for _, c := range credits {
		fields = append(fields, record.FieldSpec{
			Name:   c.name,
			Locate: locate.Spec{Tag: "div", Classes: []string{"mar-top"}, Cardinality: locate.OptionalOne},
			Rule:   extract.RegexCapture(regexp.MustCompile(c.pattern), 1),
			Type:   normalize.TypeText,
		})
	}

	fields = append(fields, record.FieldSpec{
		Name:   "speakers",
		Locate: speakerRows,
		Type:   normalize.TypeRecords,
		Sub:    speakerTable("session"),
	}, record.FieldSpec{
		Name:   "presentations",
		Locate: presentationRows,
		Type:   normalize.TypeRecords,
		Sub:    presentationTable,
	})

	return &record.Table{
		Family:     family.Name(conference, year, "session"),
		ID:         "session_number",
		Fields:     fields,
		Validators: []record.Validator{
			record.RangeOrdered("time_range"),
			record.WithinEach("presentations", "time_range", "time_range"),
		},
	}
}
