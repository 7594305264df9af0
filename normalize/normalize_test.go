package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Missing(t *testing.T) {
	f := Normalize(nil, TypeDate, Options{})
	assert.False(t, f.Present())
	assert.Equal(t, IssueNotFound, f.Issue)
	assert.Nil(t, f.Value)

	f = Normalize([]string{"  ", "\n"}, TypeText, Options{})
	assert.False(t, f.Present())
	assert.Equal(t, IssueEmpty, f.Issue)

	f = Normalize([]string{"TBD"}, TypeDate, Options{})
	assert.False(t, f.Present())
	assert.Equal(t, IssueMismatch, f.Issue)
	assert.Equal(t, []string{"TBD"}, f.Raw)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"Thursday, October 16, 2025", "2025-10-16", true},
		{"Oct 16, 2025", "2025-10-16", true},
		{"Sept. 3rd, 2025", "2025-09-03", true},
		{"10/16/2025", "2025-10-16", true},
		{"Wednesday, 15 October 2025", "2025-10-15", true},
		{"16 Apr 2025", "2025-04-16", true},
		{"February 30, 2025", "", false},
		{"13/01/2025", "", false},
		{"Online", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseDate(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimeRange(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		start Clock
		end   Part
		zone  Part
		conf  Confidence
	}{
		{
			name:  "12h",
			in:    "9:00 AM - 10:30 AM",
			start: "09:00",
			end:   Part{Value: "10:30", Confidence: Exact},
			conf:  Exact,
		},
		{
			name:  "zone after range",
			in:    "1:45 PM - 3:00 PM US ET",
			start: "13:45",
			end:   Part{Value: "15:00", Confidence: Exact},
			zone:  Part{Value: "US ET", Confidence: Exact},
			conf:  Exact,
		},
		{
			name:  "24h with cet",
			in:    "08:30 - 10:30 CET",
			start: "08:30",
			end:   Part{Value: "10:30", Confidence: Exact},
			zone:  Part{Value: "CET", Confidence: Exact},
			conf:  Exact,
		},
		{
			name:  "space separated",
			in:    "08:30 10:30 Hall 2",
			start: "08:30",
			end:   Part{Value: "10:30", Confidence: Exact},
			conf:  Exact,
		},
		{
			name:  "start borrows end meridiem",
			in:    "9:00 - 10:30 AM",
			start: "09:00",
			end:   Part{Value: "10:30", Confidence: Exact},
			conf:  Inferred,
		},
		{
			name:  "borrowed meridiem flips across noon",
			in:    "11:00 - 1:00 PM",
			start: "11:00",
			end:   Part{Value: "13:00", Confidence: Exact},
			conf:  Inferred,
		},
		{
			name:  "noon and midnight",
			in:    "12:00 PM - 12:30 PM",
			start: "12:00",
			end:   Part{Value: "12:30", Confidence: Exact},
			conf:  Exact,
		},
		{
			name:  "start only",
			in:    "9:00 AM",
			start: "09:00",
			conf:  Exact,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, conf, ok := ParseTimeRange(tt.in)
			require.True(t, ok)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
			assert.Equal(t, tt.zone, r.Zone)
			assert.Equal(t, tt.conf, conf)
		})
	}
}

func TestParseTimeRange_EndMissing(t *testing.T) {
	r, _, ok := ParseTimeRange("9:00 AM")
	require.True(t, ok)
	_, ok = r.EndClock()
	assert.False(t, ok)
	assert.Equal(t, Missing, r.End.Confidence)
	assert.True(t, r.Contains("23:00"))
	assert.False(t, r.Contains("08:59"))
}

func TestParseTimeRange_Invalid(t *testing.T) {
	for _, in := range []string{"25:00 - 26:00", "9:75", "noon"} {
		_, _, ok := ParseTimeRange(in)
		assert.False(t, ok, in)
	}
}

func TestTimeRange_RoundTrip(t *testing.T) {
	for _, in := range []string{"9:00 AM - 10:30 AM", "08:30 - 10:30", "2:15 PM - 4:00 PM", "11:00 - 1:00 PM"} {
		r, _, ok := ParseTimeRange(in)
		require.True(t, ok, in)
		end, ok := r.EndClock()
		require.True(t, ok, in)

		again, conf, ok := ParseTimeRange(string(r.Start) + " - " + string(end))
		require.True(t, ok, in)
		assert.Equal(t, Exact, conf, in)
		assert.Equal(t, r.Start, again.Start, in)
		assert.Equal(t, r.End, again.End, in)
	}
}

func TestNormalize_Clock(t *testing.T) {
	f := Normalize([]string{"", "2:05 pm"}, TypeClock, Options{})
	c, ok := f.Clock()
	require.True(t, ok)
	assert.Equal(t, Clock("14:05"), c)
	assert.Equal(t, 14*60+5, c.Minutes())

	f = Normalize([]string{"12:10 a.m."}, TypeClock, Options{})
	c, ok = f.Clock()
	require.True(t, ok)
	assert.Equal(t, Clock("00:10"), c)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		creds   Part
		country Part
	}{
		{in: "Jane Doe, MD, PhD", name: "Jane Doe", creds: Part{Value: "MD, PhD", Confidence: Exact}},
		{in: "Jane Doe", name: "Jane Doe"},
		{in: "Robert Ames, PharmD, BCIDP, FIDSA", name: "Robert Ames", creds: Part{Value: "PharmD, BCIDP, FIDSA", Confidence: Exact}},
		{in: "Maria Lopez, MD MPH (Spain)", name: "Maria Lopez", creds: Part{Value: "MD MPH", Confidence: Exact}, country: Part{Value: "Spain", Confidence: Exact}},
		{in: "Speaker A (US)", name: "Speaker A", country: Part{Value: "US", Confidence: Exact}},
		{in: "John Smith, Jr.", name: "John Smith, Jr."},
		{in: "Henry Ford, III, MD", name: "Henry Ford, III", creds: Part{Value: "MD", Confidence: Exact}},
		{in: "Doe, Jane", name: "Doe, Jane"},
		{in: "Ana Ruiz, M.D., Ph.D.", name: "Ana Ruiz", creds: Part{Value: "M.D., Ph.D.", Confidence: Exact}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			p := SplitName(tt.in)
			assert.Equal(t, tt.name, p.Name)
			assert.Equal(t, tt.creds, p.Credentials)
			assert.Equal(t, tt.country, p.Country)
		})
	}
}

func TestNormalize_Person(t *testing.T) {
	f := Normalize([]string{"Jane Doe, MD, PhD"}, TypePerson, Options{})
	p, ok := f.Person()
	require.True(t, ok)
	assert.Equal(t, Exact, f.Confidence)
	assert.Equal(t, "Jane Doe", p.Name)
	assert.Equal(t, "MD, PhD", p.Credentials.Value)

	f = Normalize([]string{"Jane Doe"}, TypePerson, Options{})
	p, ok = f.Person()
	require.True(t, ok)
	assert.False(t, p.Credentials.Present())
}

func TestNormalize_Affiliation(t *testing.T) {
	tests := []struct {
		name   string
		raw    []string
		layout Layout
		want   Affiliation
		conf   Confidence
	}{
		{
			name: "four segments",
			raw:  []string{"Professor", "Department of Medicine", "Boston University", "Boston, MA"},
			want: Affiliation{
				Title:       Part{"Professor", Exact},
				Department:  Part{"Department of Medicine", Exact},
				Institution: Part{"Boston University", Exact},
				Location:    Part{"Boston, MA", Exact},
				Segments:    []string{"Professor", "Department of Medicine", "Boston University", "Boston, MA"},
			},
			conf: Exact,
		},
		{
			name: "pipe separated pair",
			raw:  []string{"Boston University | Boston, MA"},
			want: Affiliation{
				Institution: Part{"Boston University", Inferred},
				Location:    Part{"Boston, MA", Inferred},
				Segments:    []string{"Boston University", "Boston, MA"},
			},
			conf: Inferred,
		},
		{
			name: "surplus folds into the second slot",
			raw:  []string{"Professor\nDivision of ID\nDepartment of Medicine\nBoston University\nBoston, MA"},
			want: Affiliation{
				Title:       Part{"Professor", Inferred},
				Department:  Part{"Division of ID, Department of Medicine", Inferred},
				Institution: Part{"Boston University", Inferred},
				Location:    Part{"Boston, MA", Inferred},
				Segments:    []string{"Professor", "Division of ID", "Department of Medicine", "Boston University", "Boston, MA"},
			},
			conf: Inferred,
		},
		{
			name:   "custom layout",
			raw:    []string{"Associate Professor", "Emory University"},
			layout: Layout{1: {SlotInstitution}, 2: {SlotTitle, SlotInstitution}},
			want: Affiliation{
				Title:       Part{"Associate Professor", Exact},
				Institution: Part{"Emory University", Exact},
				Segments:    []string{"Associate Professor", "Emory University"},
			},
			conf: Exact,
		},
		{
			name:   "layout naming more slots than segments",
			raw:    []string{"Prof\nAcme U"},
			layout: Layout{2: {SlotTitle, SlotDepartment, SlotInstitution}},
			want: Affiliation{
				Title:      Part{"Prof", Exact},
				Department: Part{"Acme U", Exact},
				Segments:   []string{"Prof", "Acme U"},
			},
			conf: Exact,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Normalize(tt.raw, TypeAffiliation, Options{Layout: tt.layout})
			a, ok := f.Affiliation()
			require.True(t, ok)
			assert.Equal(t, tt.want, a)
			assert.Equal(t, tt.conf, f.Confidence)
		})
	}
}

func TestLayout_Validate(t *testing.T) {
	tests := []struct {
		name    string
		layout  Layout
		wantErr bool
	}{
		{name: "default", layout: DefaultLayout},
		{name: "fewer slots than segments", layout: Layout{3: {SlotInstitution}}},
		{name: "zero count", layout: Layout{0: {SlotInstitution}}, wantErr: true},
		{name: "too many slots", layout: Layout{2: {SlotTitle, SlotDepartment, SlotInstitution}}, wantErr: true},
		{name: "no slots", layout: Layout{2: nil}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate()
			assert.Equal(t, tt.wantErr, err != nil, err)
		})
	}
}

func TestNormalize_Enum(t *testing.T) {
	opts := Options{Labels: []Label{
		{Name: "Oral Abstract Session", Aliases: []string{"Oral Abstracts"}},
		{Name: "Poster Session"},
	}}
	tests := []struct {
		in   string
		want string
		conf Confidence
	}{
		{"oral  abstract session", "Oral Abstract Session", Exact},
		{"ORAL ABSTRACTS", "Oral Abstract Session", Exact},
		{"Poster Sesion", "Poster Session", Inferred},
		{"Symposium", "Symposium", Inferred},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			f := Normalize([]string{tt.in}, TypeEnum, opts)
			s, ok := f.Text()
			require.True(t, ok)
			assert.Equal(t, tt.want, s)
			assert.Equal(t, tt.conf, f.Confidence)
		})
	}
}

func TestNormalize_List(t *testing.T) {
	f := Normalize([]string{" Track A ", "", "Track\n B"}, TypeList, Options{})
	l, ok := f.Strings()
	require.True(t, ok)
	assert.Equal(t, []string{"Track A", "Track B"}, l)
}

func TestConfidence_Text(t *testing.T) {
	for _, c := range []Confidence{Missing, Inferred, Exact} {
		b, err := c.MarshalText()
		require.NoError(t, err)
		var back Confidence
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, c, back)
	}
	var c Confidence
	assert.Error(t, c.UnmarshalText([]byte("sure")))
}

func TestParseType(t *testing.T) {
	ty, err := ParseType("Person")
	require.NoError(t, err)
	assert.Equal(t, TypePerson, ty)

	_, err = ParseType("money")
	assert.Error(t, err)
}
