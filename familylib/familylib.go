// Package familylib registers the built-in document families. Import it
// for its side effect.
package familylib

import (
	"github.com/dreamerjackson/confextract/family"
	"github.com/dreamerjackson/confextract/familylib/escmid2025"
	"github.com/dreamerjackson/confextract/familylib/idweek2025"
)

func init() {
	family.Store.MustAdd(idweek2025.SessionTable)
	family.Store.MustAdd(idweek2025.PosterTable)
	family.Store.MustAdd(idweek2025.FacultyTable)
	family.Store.MustAdd(escmid2025.SessionTable)
	family.Store.MustAdd(escmid2025.ProgrammeTable)
	family.Store.MustAdd(escmid2025.ProgrammeHTMLTable)
}
