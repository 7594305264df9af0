package idweek2025

import (
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
)

var presentationRows = locate.Spec{Selector: "ul.list-group li.list-group-item[data-presid]", Cardinality: locate.Many}

// presentationTable reads one talk of a session. The prestitle div starts
// with the title text, followed by the presenters block.
var presentationTable = &record.Table{
	Family: family.Name(conference, year, "session") + "/presentation",
	ID:     "presentation_id",
	Fields: []record.FieldSpec{
		{
			Name:   "presentation_id",
			Locate: locate.Spec{Self: true},
			Rule:   extract.Attribute("data-presid"),
			Type:   normalize.TypeText,
		},
		{
			Name:   "time_range",
			Locate: locate.Spec{Tag: "span", Classes: []string{"tipsytip"}, Cardinality: locate.OptionalOne},
			Type:   normalize.TypeTimeRange,
		},
		{
			Name:   "title",
			Locate: locate.Spec{Tag: "div", Classes: []string{"prestitle"}},
			Rule:   extract.OwnText(),
			Type:   normalize.TypeText,
		},
		{
			Name:   "presenters",
			Locate: locate.Spec{Selector: "small.presentation-presenters span.biopopup", Cardinality: locate.Many},
			Type:   normalize.TypePerson,
		},
	},
	Validators: []record.Validator{record.RangeOrdered("time_range")},
}
