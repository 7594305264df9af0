package escmid2025

import (
	"regexp"

	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
)

const conference = "escmid"

const year = 2025

// facultyName turns "Anna Berg, Sweden" into "Anna Berg (Sweden)" so the
// country is split off like in the programme rows.
const facultyName = `value.replace(/\s*,\s*([^,]+)$/, ' ($1)')`

var (
	headerDateRe = regexp.MustCompile(`\|\s*([^|]+?)\s*\|`)
	headerTimeRe = regexp.MustCompile(`(\d{1,2}:\d{2}\s*-\s*\d{1,2}:\d{2}(?:\s*CET)?)`)
)

var sessionTypes = []normalize.Label{
	{Name: "Educational Workshop", Aliases: []string{"Educational Session"}},
	{Name: "Oral Session", Aliases: []string{"1-hour Oral Session", "2-hour Oral Session"}},
	{Name: "Case Session", Aliases: []string{"1-hour Case Session"}},
	{Name: "Symposium", Aliases: []string{"2-hour Symposium", "2-hour Symposium Session"}},
	{Name: "Meet-the-Expert", Aliases: []string{"Meet-the-Expert Session"}},
	{Name: "Keynote Lecture", Aliases: []string{"Keynote Lecture Session"}},
	{Name: "Open Forum", Aliases: []string{"Open Forum Session"}},
	{Name: "ePoster Flash", Aliases: []string{"ePoster Flash Session"}},
	{Name: "Special Session"},
}

// SessionTable reads the session modal of the online programme.
var SessionTable = &record.Table{
	Family: family.Name(conference, year, "session"),
	ID:     "session_id",
	Fields: []record.FieldSpec{
		{
			Name:   "session_id",
			Locate: locate.Spec{Selector: "span.program-session-card-reference strong"},
			Type:   normalize.TypeText,
		},
		{
			Name:   "title",
			Locate: locate.Spec{Tag: "h3"},
			Type:   normalize.TypeText,
		},
		{
			Name:   "location",
			Locate: locate.Spec{Selector: "div.modal-session-header-bg-type strong"},
			Type:   normalize.TypeText,
		},
		{
			Name:   "date",
			Locate: locate.Spec{Tag: "div", Classes: []string{"modal-session-header-bg-type"}},
			Rule:   extract.RegexCapture(headerDateRe, 1),
			Type:   normalize.TypeDate,
		},
		{
			Name:   "time_range",
			Locate: locate.Spec{Tag: "div", Classes: []string{"modal-session-header-bg-type"}},
			Rule:   extract.RegexCapture(headerTimeRe, 1),
			Type:   normalize.TypeTimeRange,
		},
		{
			Name:    "session_type",
			Locate:  locate.Spec{Tag: "span", Classes: []string{"session-details-cotype-name"}, Cardinality: locate.OptionalOne},
			Type:    normalize.TypeEnum,
			Options: normalize.Options{Labels: sessionTypes},
		},
		{
			Name:   "category",
			Locate: locate.Spec{Tag: "h4", Classes: []string{"modal-cat-name"}, Cardinality: locate.OptionalOne},
			Type:   normalize.TypeText,
		},
		{
			Name:   "chairs",
			Locate: locate.Spec{Selector: "div.modal-session-moderators div.modal-session-faculties", Cardinality: locate.Many},
			Rule:   extract.FullText().Script(facultyName),
			Type:   normalize.TypePerson,
		},
		{
			Name:   "presentations",
			Locate: locate.Spec{Tag: "div", Classes: []string{"modal-sessions-interventions-group"}, Cardinality: locate.Many},
			Type:   normalize.TypeRecords,
			Sub:    interventionTable,
		},
	},
	Validators: []record.Validator{
		record.RangeOrdered("time_range"),
	},
}

// Interventions carry no code of their own; the title identifies them.
var interventionTable = &record.Table{
	Family: family.Name(conference, year, "session") + "/presentation",
	ID:     "title",
	Fields: []record.FieldSpec{
		{
			Name:   "title",
			Locate: locate.Spec{Selector: "span[style*='font-weight: bold']"},
			Type:   normalize.TypeText,
		},
		{
			Name:   "presenters",
			Locate: locate.Spec{Tag: "div", Classes: []string{"modal-session-faculties"}, Cardinality: locate.Many},
			Rule:   extract.FullText().Script(facultyName),
			Type:   normalize.TypePerson,
		},
		{
			Name:   "presenter_ids",
			Locate: locate.Spec{Tag: "div", Classes: []string{"modal-session-faculties"}, Attr: "data-id", Cardinality: locate.Many},
			Rule:   extract.Attribute("data-id"),
			Type:   normalize.TypeText,
		},
	},
}
