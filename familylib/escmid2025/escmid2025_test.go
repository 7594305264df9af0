package escmid2025

import (
	"strings"
	"testing"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const programmeFragment = `<html><body><div class="programme">
<p>EW001 08:30 - 10:30 Hall 2</p>
<p>Chairs Anna Berg (Sweden); Marc Dupont (France)</p>
<p>W0001 08:30 Title A Speaker A (US)</p>
<p>W0002 09:15 Title B Speaker B (UK)</p>
</div></body></html>`

func assembleOne(t *testing.T, table *record.Table, kind document.Kind, body string) *record.Record {
	t.Helper()
	doc, err := document.Parse("programme", kind, []byte(body))
	require.NoError(t, err)

	records, errs := record.NewAssembler().AssembleAll(doc, table)
	require.Empty(t, errs)
	require.Len(t, records, 1)

	return records[0]
}

func TestProgramme_Complete(t *testing.T) {
	r := assembleOne(t, ProgrammeHTMLTable, document.HTML, programmeFragment)

	assert.Equal(t, record.StatusComplete, r.Status(), r.Diagnostics())
	assert.Equal(t, "EW001", r.ID())
	assert.Equal(t, "programme#1", r.Source())

	f, _ := r.Field("time_range")
	tr, ok := f.TimeRange()
	require.True(t, ok)
	assert.Equal(t, normalize.Clock("08:30"), tr.Start)
	assert.Equal(t, "10:30", tr.End.Value)

	hall, ok := r.Text("hall")
	require.True(t, ok)
	assert.Equal(t, "2", hall)

	f, _ = r.Field("chairs")
	chairs, ok := f.Items()
	require.True(t, ok)
	require.Len(t, chairs, 2)
	p, ok := chairs[1].Person()
	require.True(t, ok)
	assert.Equal(t, "Marc Dupont", p.Name)
	assert.Equal(t, "France", p.Country.Value)

	rows := r.Children("presentations")
	require.Len(t, rows, 2)

	want := []struct {
		id, time, title, speaker, location string
	}{
		{"W0001", "08:30", "Title A", "Speaker A", "US"},
		{"W0002", "09:15", "Title B", "Speaker B", "UK"},
	}
	for i, w := range want {
		row := rows[i]
		assert.True(t, row.Complete(), row.Diagnostics())
		assert.Equal(t, w.id, row.ID())

		f, _ := row.Field("time")
		c, ok := f.Clock()
		require.True(t, ok)
		assert.Equal(t, normalize.Clock(w.time), c)

		title, _ := row.Text("title")
		assert.Equal(t, w.title, title)

		f, _ = row.Field("speaker")
		sp, ok := f.Person()
		require.True(t, ok)
		assert.Equal(t, w.speaker, sp.Name)

		loc, _ := row.Text("location")
		assert.Equal(t, w.location, loc)
	}
}

func TestProgramme_HallOmitted(t *testing.T) {
	body := strings.Replace(programmeFragment, " Hall 2", "", 1)
	r := assembleOne(t, ProgrammeHTMLTable, document.HTML, body)

	assert.Equal(t, record.StatusPartial, r.Status())
	assert.Equal(t, "EW001", r.ID())

	hall, ok := r.Field("hall")
	require.True(t, ok)
	assert.Equal(t, normalize.Missing, hall.Confidence)
	assert.Len(t, r.Children("presentations"), 2)
}

const programmeText = `ESCMID Global 2025 - Final Programme

EW001 08:30 - 10:30 Hall 2
Educational Workshop
Antifungal stewardship in practice
Chairs Anna Berg (Sweden); Marc Dupont (France)
W0001 08:30 Title A Speaker A (US)
W0002 09:15 Title B Speaker B (UK)

OS002 11:00 - 12:00 Hall K
1-hour Oral Session
Late-breaking resistance data
O0003 11:00 Carbapenemase spread Lena Koch (DE)
O0004 12:30 Too late a talk Jan Novak (CZ)
`

func TestProgramme_Text(t *testing.T) {
	doc, err := document.Parse("programme.txt", document.Text, []byte(programmeText))
	require.NoError(t, err)

	records, errs := record.NewAssembler().AssembleAll(doc, ProgrammeTable)
	require.Empty(t, errs)
	require.Len(t, records, 2)

	first := records[0]
	assert.True(t, first.Complete(), first.Diagnostics())
	title, _ := first.Text("title")
	assert.Equal(t, "Antifungal stewardship in practice", title)
	kind, _ := first.Text("session_type")
	assert.Equal(t, "Educational Workshop", kind)

	second := records[1]
	assert.Equal(t, "OS002", second.ID())
	assert.Equal(t, "programme.txt#2", second.Source())
	kind, _ = second.Text("session_type")
	assert.Equal(t, "Oral Session", kind)

	chairs, _ := second.Field("chairs")
	assert.Equal(t, normalize.Missing, chairs.Confidence)

	// O0004 starts after the session ends
	assert.Equal(t, record.StatusPartial, second.Status())
	require.Len(t, second.Diagnostics(), 1)
	assert.Contains(t, second.Diagnostics()[0], "presentations O0004 outside time_range 11:00-12:00")
}

const wrappedProgramme = `EW003 14:00 - 16:00 Hall 5
Educational Workshop
Diagnostics update
W0005 14:00 Rapid molecular testing in
sepsis: where are we now? Anna Berg (Sweden)
---- PAGE 12 ----

W0006 14:45 Panel discussion
W0007 15:30 Closing remarks Marc Dupont (France)
`

func TestProgramme_WrappedRows(t *testing.T) {
	r := assembleOne(t, ProgrammeTable, document.Text, wrappedProgramme)
	assert.Equal(t, record.StatusComplete, r.Status(), r.Diagnostics())

	rows := r.Children("presentations")
	require.Len(t, rows, 3)

	tests := []struct {
		id, time, title, speaker, location string
	}{
		{"W0005", "14:00", "Rapid molecular testing in sepsis: where are we now?", "Anna Berg", "Sweden"},
		{"W0006", "14:45", "Panel discussion", "", ""},
		{"W0007", "15:30", "Closing remarks", "Marc Dupont", "France"},
	}
	for i, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			row := rows[i]
			assert.True(t, row.Complete(), row.Diagnostics())
			assert.Equal(t, tt.id, row.ID())

			f, _ := row.Field("time")
			c, ok := f.Clock()
			require.True(t, ok)
			assert.Equal(t, normalize.Clock(tt.time), c)

			title, _ := row.Text("title")
			assert.Equal(t, tt.title, title)

			f, _ = row.Field("speaker")
			loc, _ := row.Field("location")
			if tt.speaker == "" {
				assert.Equal(t, normalize.Missing, f.Confidence)
				assert.Equal(t, normalize.Missing, loc.Confidence)
				return
			}
			sp, ok := f.Person()
			require.True(t, ok)
			assert.Equal(t, tt.speaker, sp.Name)
			got, _ := row.Text("location")
			assert.Equal(t, tt.location, got)
		})
	}
}

func TestProgramme_NoSession(t *testing.T) {
	doc, err := document.Parse("cover.txt", document.Text, []byte("ESCMID Global 2025\nWelcome"))
	require.NoError(t, err)

	records, errs := record.NewAssembler().AssembleAll(doc, ProgrammeTable)
	assert.Empty(t, records)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], record.ErrMissingPrimaryIdentifier)
}

const sessionModal = `<html><body>
<span class="program-session-card-reference"><strong>SY045</strong></span>
<div class="modal-session-header-bg-type"><strong>Hall 7</strong> | Saturday, 12 April 2025 | 08:30 - 10:30 CET</div>
<span class="session-details-cotype-name">2-hour Symposium</span>
<h4 class="modal-cat-name">Antimicrobial resistance</h4>
<h3>New drugs for old bugs</h3>
<div class="modal-session-moderators">
  <div class="modal-session-faculties"><span class="fo-user__firstname-speaker">Anna</span> <span class="fo-user__lastname-speaker">Berg</span><span class="modal-session-moderator-country">, Sweden</span></div>
  <div class="modal-session-faculties"><span class="fo-user__firstname-speaker">Marc</span> <span class="fo-user__lastname-speaker">Dupont</span></div>
</div>
<div class="modal-sessions-interventions-group">
  <span style="font-weight: bold">Cefiderocol in the clinic</span>
  <div class="modal-session-faculties" data-id="901"><span class="fo-user__firstname-speaker">Lena</span> <span class="fo-user__lastname-speaker">Koch</span>, Germany</div>
</div>
<div class="modal-sessions-interventions-group">
  <div class="modal-session-faculties" data-id="902"><span class="fo-user__firstname-speaker">Jan</span> <span class="fo-user__lastname-speaker">Novak</span></div>
</div>
</body></html>`

func TestSession(t *testing.T) {
	doc, err := document.Parse("SY045.html", document.HTML, []byte(sessionModal))
	require.NoError(t, err)

	r, err := record.NewAssembler().Assemble(doc, SessionTable)
	require.NoError(t, err)
	assert.Equal(t, "SY045", r.ID())

	loc, _ := r.Text("location")
	assert.Equal(t, "Hall 7", loc)

	f, _ := r.Field("date")
	d, ok := f.Date()
	require.True(t, ok)
	assert.Equal(t, normalize.Date("2025-04-12"), d)

	f, _ = r.Field("time_range")
	tr, ok := f.TimeRange()
	require.True(t, ok)
	assert.Equal(t, "CET", tr.Zone.Value)

	kind, _ := r.Text("session_type")
	assert.Equal(t, "Symposium", kind)

	f, _ = r.Field("chairs")
	chairs, ok := f.Items()
	require.True(t, ok)
	require.Len(t, chairs, 2)
	p, _ := chairs[0].Person()
	assert.Equal(t, "Anna Berg", p.Name)
	assert.Equal(t, "Sweden", p.Country.Value)
	p, _ = chairs[1].Person()
	assert.Equal(t, "Marc Dupont", p.Name)
	assert.False(t, p.Country.Present())

	talks := r.Children("presentations")
	require.Len(t, talks, 2)
	assert.Equal(t, "Cefiderocol in the clinic", talks[0].ID())
	f, _ = talks[0].Field("presenters")
	presenters, ok := f.Items()
	require.True(t, ok)
	p, _ = presenters[0].Person()
	assert.Equal(t, "Lena Koch", p.Name)
	assert.Equal(t, "Germany", p.Country.Value)

	// the untitled intervention is kept, flagged partial
	assert.False(t, talks[1].Complete())
	assert.Equal(t, record.StatusPartial, r.Status())
	assert.Contains(t, strings.Join(r.Diagnostics(), "\n"), "presentations #2 partial")
}
