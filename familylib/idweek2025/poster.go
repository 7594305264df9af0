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
	posterNumberRe = regexp.MustCompile(`^\(([^)]+)\)`)
	posterTitleRe  = regexp.MustCompile(`^\([^)]*\)\s*(.+)$`)
	trackCodeRe    = regexp.MustCompile(`^([A-Z]\d+)\.?(?:\s|$)`)
	trackNameRe    = regexp.MustCompile(`^(?:[A-Z]\d+\.?\s+)?(.+)$`)
)

var posterSessionTypes = []normalize.Label{
	{Name: "Poster Abstract", Aliases: []string{"Poster Abstract Session"}},
	{Name: "Late Breaker", Aliases: []string{"Late Breaker Poster", "Late-Breaker Abstract"}},
	{Name: "Clinical Case", Aliases: []string{"Clinical Case Poster"}},
}

// PosterTable reads a poster detail page. The h1 reads "(P-1533) Title".
var PosterTable = &record.Table{
	Family: family.Name(conference, year, "poster"),
	ID:     "poster_number",
	Fields: []record.FieldSpec{
		{
			Name:   "poster_number",
			Locate: locate.Spec{Tag: "h1"},
			Rule:   extract.RegexCapture(posterNumberRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "title",
			Locate: locate.Spec{Tag: "h1"},
			Rule:   extract.RegexCapture(posterTitleRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "track_code",
			Locate: locate.Spec{Selector: "p.trackname span", Cardinality: locate.OptionalOne},
			Rule:   extract.RegexCapture(trackCodeRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "track",
			Locate: locate.Spec{Selector: "p.trackname span", Cardinality: locate.OptionalOne},
			Rule:   extract.RegexCapture(trackNameRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:    "session_type",
			Locate:  locate.Spec{Selector: `p:contains("Poster Session:") b:nth-of-type(2)`, Cardinality: locate.OptionalOne},
			Type:    normalize.TypeEnum,
			Options: normalize.Options{Labels: posterSessionTypes},
		},
		{
			Name:   "date",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-calendar"}},
			Rule:   extract.FollowingText(1),
			Type:   normalize.TypeDate,
		},
		{
			Name:   "time_range",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-clock-o"}},
			Rule:   extract.FollowingText(1),
			Type:   normalize.TypeTimeRange,
		},
		{
			Name:   "location",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-map-marker"}, Cardinality: locate.OptionalOne},
			Rule:   extract.FollowingText(1).Script(stripLocation),
			Type:   normalize.TypeText,
		},
		{
			Name:   "authors",
			Locate: speakerRows,
			Type:   normalize.TypeRecords,
			Sub:    speakerTable("poster"),
		},
	},
	Validators: []record.Validator{record.RangeOrdered("time_range")},
}
