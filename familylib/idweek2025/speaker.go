package idweek2025

import (
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
)

const conference = "idweek"

const year = 2025

// speakerRows matches the presenter list shared by session and poster pages.
var speakerRows = locate.Spec{Selector: "ul.speakers-wrap li.speakerrow", Cardinality: locate.Many}

// speakerTable reads one li.speakerrow. The prof-text paragraph holds the
// affiliation chain, one <br> separated part per line.
func speakerTable(template string) *record.Table {
	return &record.Table{
		Family: family.Name(conference, year, template) + "/speaker",
		ID:     "presenter_id",
		Fields: []record.FieldSpec{
			{
				Name:   "presenter_id",
				Locate: locate.Spec{Self: true},
				Rule:   extract.Attribute("data-presenterid"),
				Type:   normalize.TypeText,
			},
			{
				Name:   "name",
				Locate: locate.Spec{Tag: "p", Classes: []string{"speaker-name"}},
				Rule:   extract.OwnText(),
				Type:   normalize.TypePerson,
			},
			{
				Name:   "role",
				Locate: locate.Spec{Tag: "p", Classes: []string{"speaker-role"}, Cardinality: locate.OptionalOne},
				Type:   normalize.TypeEnum,
				Options: normalize.Options{Labels: []normalize.Label{
					{Name: "Moderator", Aliases: []string{"Chair", "Co-Chair", "Co-Moderator"}},
					{Name: "Speaker", Aliases: []string{"Presenter"}},
					{Name: "Author", Aliases: []string{"Presenting Author", "Co-Author"}},
				}},
			},
			{
				Name:   "affiliation",
				Locate: locate.Spec{Tag: "p", Classes: []string{"prof-text"}, Cardinality: locate.OptionalOne},
				Rule:   extract.Lines(),
				Type:   normalize.TypeAffiliation,
			},
		},
	}
}
