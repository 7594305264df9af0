package idweek2025

import (
	"testing"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assemble(t *testing.T, table *record.Table, body string) *record.Record {
	t.Helper()
	require.NoError(t, table.Check())

	doc, err := document.Parse(table.Family+".html", document.HTML, []byte(body))
	require.NoError(t, err)

	r, err := record.NewAssembler().Assemble(doc, table)
	require.NoError(t, err)

	return r
}

const sessionPage = `<html><body>
<h1>101 - Stewardship in Practice</h1>
<div class="session-type">Session Type: Symposium</div>
<p class="trackname">Antimicrobial Stewardship</p>
<p class="trackname">Clinical Trials</p>
<p><i class="fa fa-calendar"></i> Thursday, October 16, 2025</p>
<p><i class="fa fa-clock-o"></i> <span class="tipsytip">1:45 PM - 3:00 PM <small>US ET</small></span></p>
<p><i class="fa fa-map-marker"></i> Location: Room 210</p>
<div class="mar-top">CME Credits: Maximum of 1.25 hours<br>ACPE Credits: ACPE 1.25 knowledge-based contact hours<br>ACPE Number: 0221-9999-25-123-L01-P</div>
<ul class="speakers-wrap">
  <li class="speakerrow" data-presenterid="7">
    <p class="speaker-name">Jane Doe, MD, PhD</p>
    <p class="speaker-role">Chair</p>
    <p class="prof-text">Professor<br>Department of Medicine<br>Emory University<br>Atlanta, GA</p>
  </li>
  <li class="speakerrow" data-presenterid="8">
    <p class="speaker-name">John Roe, PharmD</p>
    <p class="prof-text">Emory University<br>Atlanta, GA</p>
  </li>
</ul>
</body></html>`

func TestSession(t *testing.T) {
	r := assemble(t, SessionTable, sessionPage)

	assert.Equal(t, record.StatusComplete, r.Status(), r.Diagnostics())
	assert.Equal(t, "101", r.ID())

	tests := []struct {
		field string
		want  string
	}{
		{"title", "Stewardship in Practice"},
		{"session_type", "Symposium"},
		{"location", "Room 210"},
		{"cme_hours", "1.25"},
		{"acpe_hours", "1.25"},
		{"acpe_number", "0221-9999-25-123-L01-P"},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			got, ok := r.Text(tt.field)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	moc, _ := r.Field("moc_hours")
	assert.Equal(t, normalize.Missing, moc.Confidence)

	f, _ := r.Field("date")
	d, _ := f.Date()
	assert.Equal(t, normalize.Date("2025-10-16"), d)

	f, _ = r.Field("time_range")
	tr, ok := f.TimeRange()
	require.True(t, ok)
	assert.Equal(t, normalize.Clock("13:45"), tr.Start)
	assert.Equal(t, "15:00", tr.End.Value)
	assert.Equal(t, "US ET", tr.Zone.Value)

	f, _ = r.Field("tracks")
	tracks, _ := f.Items()
	assert.Len(t, tracks, 2)

	speakers := r.Children("speakers")
	require.Len(t, speakers, 2)

	role, _ := speakers[0].Text("role")
	assert.Equal(t, "Moderator", role)

	f, _ = speakers[0].Field("affiliation")
	a, ok := f.Affiliation()
	require.True(t, ok)
	assert.Equal(t, "Professor", a.Title.Value)
	assert.Equal(t, "Department of Medicine", a.Department.Value)
	assert.Equal(t, "Emory University", a.Institution.Value)
	assert.Equal(t, "Atlanta, GA", a.Location.Value)

	f, _ = speakers[1].Field("name")
	p, _ := f.Person()
	assert.Equal(t, "John Roe", p.Name)
	assert.Equal(t, "PharmD", p.Credentials.Value)

	f, _ = speakers[1].Field("affiliation")
	a, _ = f.Affiliation()
	assert.False(t, a.Title.Present())
	assert.Equal(t, "Emory University", a.Institution.Value)
	assert.Equal(t, "Atlanta, GA", a.Location.Value)
}

func TestSession_MissingTime(t *testing.T) {
	page := `<html><body><h1>102 - Late addition</h1>
<p><i class="fa fa-calendar"></i> Friday, October 17, 2025</p></body></html>`

	r := assemble(t, SessionTable, page)
	assert.Equal(t, record.StatusPartial, r.Status())
	assert.Equal(t, "102", r.ID())
	require.Len(t, r.Diagnostics(), 1)
	assert.Contains(t, r.Diagnostics()[0], "time_range")

	speakers, _ := r.Field("speakers")
	assert.Equal(t, normalize.Missing, speakers.Confidence)
}

const presentationsPage = `<html><body>
<h1>215 - Fungal Infections Update</h1>
<p><i class="fa fa-calendar"></i> Saturday, October 18, 2025</p>
<p><i class="fa fa-clock-o"></i> <span class="tipsytip">10:30 AM - 11:45 AM <small>US ET</small></span></p>
<ul class="list-group">
  <li class="list-group-item loadbyurl" data-presid="9001">
    <span class="tipsytip">10:30 AM - 10:50 AM <small>US ET</small></span>
    <div class="prestitle">Azole resistance in Aspergillus
      <small class="presentation-presenters"><p>Speaker: <span class="biopopup">Lena Koch, MD</span> &ndash; Charité Berlin</p></small>
    </div>
  </li>
  <li class="list-group-item loadbyurl" data-presid="9002">
    <span class="tipsytip">12:00 PM - 12:20 PM <small>US ET</small></span>
    <div class="prestitle">Candida auris outbreaks
      <small class="presentation-presenters">
        <p>Speaker: <span class="biopopup">Jan Novak, PhD</span></p>
        <p>Speaker: <span class="biopopup">Ana Ruiz, MD</span></p>
      </small>
    </div>
  </li>
</ul>
</body></html>`

func TestSession_Presentations(t *testing.T) {
	r := assemble(t, SessionTable, presentationsPage)
	assert.Equal(t, "215", r.ID())

	talks := r.Children("presentations")
	require.Len(t, talks, 2)

	first := talks[0]
	assert.True(t, first.Complete(), first.Diagnostics())
	assert.Equal(t, "9001", first.ID())
	title, _ := first.Text("title")
	assert.Equal(t, "Azole resistance in Aspergillus", title)
	f, _ := first.Field("time_range")
	tr, ok := f.TimeRange()
	require.True(t, ok)
	assert.Equal(t, normalize.Clock("10:30"), tr.Start)

	f, _ = talks[1].Field("presenters")
	presenters, ok := f.Items()
	require.True(t, ok)
	require.Len(t, presenters, 2)
	p, _ := presenters[0].Person()
	assert.Equal(t, "Jan Novak", p.Name)

	// 9002 starts after the session ends
	assert.Equal(t, record.StatusPartial, r.Status())
	require.Len(t, r.Diagnostics(), 1)
	assert.Contains(t, r.Diagnostics()[0], "presentations 9002 outside time_range 10:30-11:45")
}

const posterPage = `<html><body>
<h1>(P-1533) Cefazolin versus nafcillin for MSSA bacteremia</h1>
<p class="trackname"><span>A12. Antimicrobial Stewardship</span></p>
<p>Poster Session: <b>Poster</b> <b>Poster Abstract Session</b></p>
<p><i class="fa fa-calendar"></i> Friday, October 17, 2025</p>
<p><i class="fa fa-clock-o"></i> 12:15 PM - 1:30 PM</p>
<p><i class="fa fa-map-marker"></i> Location: Poster Hall</p>
<ul class="speakers-wrap">
  <li class="speakerrow" data-presenterid="55">
    <p class="speaker-name">Ana Ruiz, MD</p>
    <p class="prof-text">Fellow<br>University of Utah<br>Salt Lake City, UT</p>
  </li>
</ul>
</body></html>`

func TestPoster(t *testing.T) {
	r := assemble(t, PosterTable, posterPage)

	assert.Equal(t, record.StatusComplete, r.Status(), r.Diagnostics())
	assert.Equal(t, "P-1533", r.ID())

	title, _ := r.Text("title")
	assert.Equal(t, "Cefazolin versus nafcillin for MSSA bacteremia", title)
	code, _ := r.Text("track_code")
	assert.Equal(t, "A12", code)
	track, _ := r.Text("track")
	assert.Equal(t, "Antimicrobial Stewardship", track)
	kind, _ := r.Text("session_type")
	assert.Equal(t, "Poster Abstract", kind)

	f, _ := r.Field("time_range")
	tr, ok := f.TimeRange()
	require.True(t, ok)
	assert.Equal(t, normalize.Clock("12:15"), tr.Start)
	assert.Equal(t, "13:30", tr.End.Value)

	authors := r.Children("authors")
	require.Len(t, authors, 1)
	f, _ = authors[0].Field("affiliation")
	a, ok := f.Affiliation()
	require.True(t, ok)
	assert.Equal(t, "Fellow", a.Title.Value)
	assert.Equal(t, "University of Utah", a.Institution.Value)
	assert.Equal(t, normalize.Inferred, f.Confidence)
}

const facultyPage = `<html><body>
<h1 class="popupFullName">Jane Doe, MD, PhD</h1>
<p class="popupOrganization">Associate Professor<br>Emory University</p>
<img class="presenterphoto" src="https://cdn.example.org/faculty/42.jpg">
<a href="mailto:jane.doe@emory.edu">Email</a>
<p>Disclosure: Consultant for Acme Pharma</p>
<p>Dr. Doe studies antimicrobial stewardship in transplant recipients.</p>
<ul>
  <li>
    <a href="/Poster.aspx?PosterID=1533">(P-1533) Cefazolin versus nafcillin</a>
    <div><i class="fa fa-calendar"></i> Friday, October 17, 2025</div>
    <div><i class="fa fa-clock-o"></i> 12:15 PM - 1:30 PM</div>
  </li>
  <li><a href="/Poster.aspx?PosterID=1600">(P-1600) Oral vancomycin prophylaxis</a></li>
</ul>
</body></html>`

func TestFaculty(t *testing.T) {
	r := assemble(t, FacultyTable, facultyPage)

	assert.Equal(t, record.StatusComplete, r.Status(), r.Diagnostics())
	assert.Equal(t, "Jane Doe", r.ID())

	f, _ := r.Field("name")
	p, ok := f.Person()
	require.True(t, ok)
	assert.Equal(t, "MD, PhD", p.Credentials.Value)

	f, _ = r.Field("organization")
	a, ok := f.Affiliation()
	require.True(t, ok)
	assert.Equal(t, "Associate Professor", a.Title.Value)
	assert.Equal(t, "Emory University", a.Institution.Value)

	email, _ := r.Text("email")
	assert.Equal(t, "jane.doe@emory.edu", email)
	photo, _ := r.Text("photo_url")
	assert.Equal(t, "https://cdn.example.org/faculty/42.jpg", photo)
	disclosure, _ := r.Text("disclosure")
	assert.Equal(t, "Disclosure: Consultant for Acme Pharma", disclosure)
	bio, _ := r.Text("biography")
	assert.Equal(t, "Dr. Doe studies antimicrobial stewardship in transplant recipients.", bio)

	posters := r.Children("posters")
	require.Len(t, posters, 2)
	assert.Equal(t, "1533", posters[0].ID())
	number, _ := posters[0].Text("poster_number")
	assert.Equal(t, "P-1533", number)
	f, _ = posters[0].Field("date")
	d, _ := f.Date()
	assert.Equal(t, normalize.Date("2025-10-17"), d)

	assert.Equal(t, "1600", posters[1].ID())
	assert.True(t, posters[1].Complete(), posters[1].Diagnostics())
	f, _ = posters[1].Field("time_range")
	assert.Equal(t, normalize.IssueNotFound, f.Issue)
}

func TestFaculty_Biography(t *testing.T) {
	tests := []struct {
		name string
		page string
		want string
	}{
		{
			name: "footer and disclosure skipped",
			page: `<h1 class="popupFullName">Ann Lee, MD</h1>
<p>Disclosure: none</p>
<p>Ann Lee leads the HIV clinic.</p>
<p class="copyrights">Copyright 2025</p>`,
			want: "Ann Lee leads the HIV clinic.",
		},
		{
			name: "styled paragraphs only",
			page: `<h1 class="popupFullName">Ann Lee, MD</h1>
<p class="popupOrganization">Emory University</p>
<p class="text-muted">Designed by someone</p>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := assemble(t, FacultyTable, "<html><body>"+tt.page+"</body></html>")

			bio, ok := r.Text("biography")
			if tt.want == "" {
				assert.False(t, ok)
				assert.True(t, r.Complete(), r.Diagnostics())
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, bio)
		})
	}
}
