package record

import (
	"fmt"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
)

// FieldSpec declares one field: where its anchor is, how to read it and
// which type it normalizes to. A TypeRecords field assembles Sub once per
// anchor, scoped to that anchor.
type FieldSpec struct {
	Name    string
	Locate  locate.Spec
	Rule    extract.Rule
	Type    normalize.Type
	Options normalize.Options
	Sub     *Table
}

func (f FieldSpec) Cardinality() locate.Cardinality {
	return f.Locate.Cardinality
}

// Table is the declaration of one document family, or of the sub-records
// nested in it.
type Table struct {
	Family string
	Kind   document.Kind
	// Container splits a document into one record per anchor. Nil means
	// the whole document is a single record.
	Container *locate.Spec
	// ID names the primary identifier field.
	ID         string
	Fields     []FieldSpec
	Validators []Validator
}

// Check reports declaration mistakes that would otherwise surface as
// confusing partial records at run time.
func (t *Table) Check() error {
	if t.ID == "" {
		return fmt.Errorf("table %s: no id field", t.Family)
	}

	seen := make(map[string]bool, len(t.Fields))
	var idFound bool
	for _, f := range t.Fields {
		if f.Name == "" {
			return fmt.Errorf("table %s: unnamed field", t.Family)
		}
		if seen[f.Name] {
			return fmt.Errorf("table %s: duplicate field %q", t.Family, f.Name)
		}
		seen[f.Name] = true

		if f.Name == t.ID {
			idFound = true
			if f.Cardinality() == locate.Many {
				return fmt.Errorf("table %s: id field %q must be single valued", t.Family, f.Name)
			}
		}

		if err := f.Options.Layout.Validate(); err != nil {
			return fmt.Errorf("table %s: field %q: %w", t.Family, f.Name, err)
		}

		if f.Type == normalize.TypeRecords {
			if f.Sub == nil {
				return fmt.Errorf("table %s: records field %q has no sub table", t.Family, f.Name)
			}
			if err := f.Sub.Check(); err != nil {
				return fmt.Errorf("table %s: field %q: %w", t.Family, f.Name, err)
			}
		}
	}

	if !idFound {
		return fmt.Errorf("table %s: id field %q not declared", t.Family, t.ID)
	}

	return nil
}
