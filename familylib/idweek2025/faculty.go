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
	// faculty pages carry no id; the name before the credentials stands in
	facultyNameRe = regexp.MustCompile(`^([^,]+)`)
	posterIDRe    = regexp.MustCompile(`PosterID=(\d+)`)
)

// The organization paragraph has at most two lines: job title and
// organization. A single line is the organization.
var organizationLayout = normalize.Layout{
	1: {normalize.SlotInstitution},
	2: {normalize.SlotTitle, normalize.SlotInstitution},
}

const stripMailto = `value.replace(/^mailto:/i, '')`

// The biography is the first unstyled paragraph that is neither the
// disclosure nor the page footer.
const biographySelector = `p:not([class]):not(:contains("Disclosure")):not(:contains("Copyright")):not(:contains("Designed by"))`

// FacultyTable reads a faculty popup.
var FacultyTable = &record.Table{
	Family: family.Name(conference, year, "faculty"),
	ID:     "faculty_name",
	Fields: []record.FieldSpec{
		{
			Name:   "faculty_name",
			Locate: locate.Spec{Tag: "h1", Classes: []string{"popupFullName"}},
			Rule:   extract.RegexCapture(facultyNameRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "name",
			Locate: locate.Spec{Tag: "h1", Classes: []string{"popupFullName"}},
			Type:   normalize.TypePerson,
		},
		{
			Name:    "organization",
			Locate:  locate.Spec{Tag: "p", Classes: []string{"popupOrganization"}, Cardinality: locate.OptionalOne},
			Rule:    extract.Lines(),
			Type:    normalize.TypeAffiliation,
			Options: normalize.Options{Layout: organizationLayout},
		},
		{
			Name:   "photo_url",
			Locate: locate.Spec{Tag: "img", Classes: []string{"presenterphoto"}, Cardinality: locate.OptionalOne},
			Rule:   extract.Attribute("src"),
			Type:   normalize.TypeText,
		},
		{
			Name:   "email",
			Locate: locate.Spec{Selector: `a[href^="mailto:"]`, Cardinality: locate.OptionalOne},
			Rule:   extract.Attribute("href").Script(stripMailto),
			Type:   normalize.TypeText,
		},
		{
			Name:   "disclosure",
			Locate: locate.Spec{Tag: "p", Contains: "Disclosure", Cardinality: locate.OptionalOne},
			Type:   normalize.TypeText,
		},
		{
			Name:   "biography",
			Locate: locate.Spec{Selector: biographySelector, Cardinality: locate.OptionalOne},
			Type:   normalize.TypeText,
		},
		{
			Name:   "posters",
			Locate: locate.Spec{Selector: `li:has(a[href*="PosterID="])`, Cardinality: locate.Many},
			Type:   normalize.TypeRecords,
			Sub:    facultyPosterTable,
		},
	},
}

var facultyPosterTable = &record.Table{
	Family: family.Name(conference, year, "faculty") + "/poster",
	ID:     "poster_id",
	Fields: []record.FieldSpec{
		{
			Name:   "poster_id",
			Locate: locate.Spec{Selector: `a[href*="PosterID="]`},
			Rule:   extract.Attribute("href").Capture(posterIDRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "url",
			Locate: locate.Spec{Selector: `a[href*="PosterID="]`},
			Rule:   extract.Attribute("href"),
			Type:   normalize.TypeText,
		},
		{
			Name:   "poster_number",
			Locate: locate.Spec{Selector: `a[href*="PosterID="]`, Cardinality: locate.OptionalOne},
			Rule:   extract.FullText().Capture(posterNumberRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "title",
			Locate: locate.Spec{Selector: `a[href*="PosterID="]`},
			Rule:   extract.FullText().Capture(posterTitleRe, 1),
			Type:   normalize.TypeText,
		},
		{
			Name:   "date",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-calendar"}, Cardinality: locate.OptionalOne},
			Rule:   extract.FollowingText(1),
			Type:   normalize.TypeDate,
		},
		{
			Name:   "time_range",
			Locate: locate.Spec{Tag: "i", Classes: []string{"fa-clock-o"}, Cardinality: locate.OptionalOne},
			Rule:   extract.FollowingText(1),
			Type:   normalize.TypeTimeRange,
		},
	},
}
