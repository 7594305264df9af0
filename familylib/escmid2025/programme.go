package escmid2025

import (
	"regexp"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
)

// Programme layout, one block per session:
//
//	EW001 08:30 - 10:30 Hall 2
//	Educational Workshop
//	Title of the session
//	Chairs Anna Berg (Sweden); Marc Dupont (France)
//	W0001 08:30 Title A Speaker A (US)
//	W0002 09:15 Title B Speaker B (UK)
//
// Only the header line is guaranteed. Presentation codes start with the
// first letter of their session kind followed by four digits.
const sessionCode = `(?:EW|OS|ME|SP|SY|KN|FO|LB|EF)\d{3}`

var (
	sessionHeaderRe = regexp.MustCompile(`(?m)^` + sessionCode + `\s+\d{1,2}:\d{2}`)

	sessionIDRe   = regexp.MustCompile(`^(` + sessionCode + `)`)
	sessionTimeRe = regexp.MustCompile(`^` + sessionCode + `\s+(\d{1,2}:\d{2}(?:\s*-\s*\d{1,2}:\d{2})?)`)
	hallRe        = regexp.MustCompile(`^[^\n]*?\bHall\s+(\S+)`)
	typeRe        = regexp.MustCompile(`^[^\n]*\n((?:Educational|Special|Open Forum|1-hour Oral|1-hour Case|2-hour Oral|2-hour Symposium|Meet-the-Expert|Keynote Lecture|ePoster Flash)\s+Session|Educational Workshop|Symposium)\n`)
	titleRe       = regexp.MustCompile(`^[^\n]*\n(?:[^\n]*(?:Session|Workshop|Symposium)\n)?([^\n]+)`)

	// The chairs block runs from "Chairs" over the following lines that
	// still name someone with a country, up to the first presentation row.
	chairsRe    = regexp.MustCompile(`(?m)^Chairs?:?(?:[ \t]+[^\n]*)?(?:\n(?:[^WOMFELS\n]|[WOMFELS][^\d\n])[^\n]*\([^)\n]+\)[^\n]*)*`)
	chairNameRe = regexp.MustCompile(`(?:Chairs?:?\s+)?([A-Z][^,;\n()]*[^,;\n()\s](?:\s*\([^)\n]+\))?)`)

	// A row runs up to the next row code, so wrapped titles stay whole.
	rowRe     = regexp.MustCompile(`(?m)^[WOMFELS]\d{4}\s+\d{1,2}:\d{2}\b`)
	rowIDRe   = regexp.MustCompile(`^([WOMFELS]\d{4})`)
	rowTimeRe = regexp.MustCompile(`^[WOMFELS]\d{4}\s+(\d{1,2}:\d{2})`)
	rowRestRe = regexp.MustCompile(`^[WOMFELS]\d{4}\s+\d{1,2}:\d{2}\s+([\s\S]*\S)`)
)

// rowText joins the lines of a row after dropping PDF page markers and the
// co-organiser footer. The trailing "Speaker Name (Country)" is optional.
const rowText = `var t = value
	.replace(/-+ PAGE \d+ -+(\s*No text found on this page)?/g, ' ')
	.replace(/\nCo-organised[\s\S]*$/, '')
	.replace(/\s+/g, ' ')
	.trim();
var m = t.match(/^(.*?)\s+(\S+\s+\S+)\s+\(([^)]*)\)$/);
`

// rejectLabel drops a title candidate that is really the chairs line or a
// presentation row.
const rejectLabel = `/^(Chairs?\b|[WOMFELS]\d{4}\s)/.test(value) ? null : value`

// ProgrammeTable reads the text export of the final programme PDF.
var ProgrammeTable = programme(document.Text, "programme")

// ProgrammeHTMLTable reads the same programme rendered as HTML.
var ProgrammeHTMLTable = programme(document.HTML, "programme-html")

func programme(kind document.Kind, template string) *record.Table {
	name := family.Name(conference, year, template)
	self := locate.Spec{Self: true}
	optional := locate.Spec{Self: true, Cardinality: locate.OptionalOne}

	return &record.Table{
		Family:    name,
		Kind:      kind,
		Container: &locate.Spec{Pattern: sessionHeaderRe, Block: true, Cardinality: locate.Many},
		ID:        "session_id",
		Fields: []record.FieldSpec{
			{
				Name:   "session_id",
				Locate: self,
				Rule:   extract.RegexCapture(sessionIDRe, 1),
				Type:   normalize.TypeText,
			},
			{
				Name:   "time_range",
				Locate: self,
				Rule:   extract.RegexCapture(sessionTimeRe, 1),
				Type:   normalize.TypeTimeRange,
			},
			{
				Name:   "hall",
				Locate: self,
				Rule:   extract.RegexCapture(hallRe, 1),
				Type:   normalize.TypeText,
			},
			{
				Name:    "session_type",
				Locate:  optional,
				Rule:    extract.RegexCapture(typeRe, 1),
				Type:    normalize.TypeEnum,
				Options: normalize.Options{Labels: sessionTypes},
			},
			{
				Name:   "title",
				Locate: optional,
				Rule:   extract.RegexCapture(titleRe, 1).Script(rejectLabel),
				Type:   normalize.TypeText,
			},
			{
				Name:   "chairs",
				Locate: locate.Spec{Pattern: chairsRe, Cardinality: locate.Many},
				Rule:   extract.RegexCapture(chairNameRe, 1).All(),
				Type:   normalize.TypePerson,
			},
			{
				Name:   "presentations",
				Locate: locate.Spec{Pattern: rowRe, Block: true, Cardinality: locate.Many},
				Type:   normalize.TypeRecords,
				Sub:    rowTable(name),
			},
		},
		Validators: []record.Validator{
			record.RangeOrdered("time_range"),
			record.WithinEach("presentations", "time", "time_range"),
		},
	}
}

func rowTable(parent string) *record.Table {
	self := locate.Spec{Self: true}
	optional := locate.Spec{Self: true, Cardinality: locate.OptionalOne}

	return &record.Table{
		Family: parent + "/presentation",
		ID:     "id",
		Fields: []record.FieldSpec{
			{Name: "id", Locate: self, Rule: extract.RegexCapture(rowIDRe, 1), Type: normalize.TypeText},
			{Name: "time", Locate: self, Rule: extract.RegexCapture(rowTimeRe, 1), Type: normalize.TypeClock},
			{
				Name:   "title",
				Locate: self,
				Rule:   extract.RegexCapture(rowRestRe, 1).Script(rowText + `m ? m[1] : t`),
				Type:   normalize.TypeText,
			},
			{
				Name:   "speaker",
				Locate: optional,
				Rule:   extract.RegexCapture(rowRestRe, 1).Script(rowText + `m ? m[2] : null`),
				Type:   normalize.TypePerson,
			},
			{
				Name:   "location",
				Locate: optional,
				Rule:   extract.RegexCapture(rowRestRe, 1).Script(rowText + `m ? m[3] : null`),
				Type:   normalize.TypeText,
			},
		},
	}
}
