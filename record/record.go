package record

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dreamerjackson/confextract/normalize"
)

var (
	// ErrValidation wraps every cross-field validator failure.
	ErrValidation = errors.New("cross-field validation failed")
	// ErrMissingPrimaryIdentifier rejects a record whose id field cannot be resolved.
	ErrMissingPrimaryIdentifier = errors.New("missing primary identifier")
)

type Status string

const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	// StatusFailed is never carried by a Record; it names rejected documents
	// in summaries and storage.
	StatusFailed Status = "failed"
)

// Record is one assembled entity. It is read-only once returned by the
// Assembler.
type Record struct {
	id     string
	family string
	source string
	status Status

	fields      map[string]normalize.Field
	names       []string
	diagnostics []string
}

func (r *Record) ID() string {
	return r.id
}

func (r *Record) Family() string {
	return r.family
}

// Source is the reference the record was extracted from, e.g. a URL, a file
// or file#n for the nth record of a multi-record document.
func (r *Record) Source() string {
	return r.source
}

func (r *Record) Status() Status {
	return r.status
}

func (r *Record) Complete() bool {
	return r.status == StatusComplete
}

// Field returns the named field. Undeclared names report ok=false.
func (r *Record) Field(name string) (normalize.Field, bool) {
	f, ok := r.fields[name]
	return f, ok
}

// Names lists the fields in declaration order.
func (r *Record) Names() []string {
	return append([]string(nil), r.names...)
}

func (r *Record) Diagnostics() []string {
	return append([]string(nil), r.diagnostics...)
}

// Children returns the nested sub-records of a records field.
func (r *Record) Children(name string) []*Record {
	f, ok := r.fields[name]
	if !ok {
		return nil
	}
	children, _ := f.Value.([]*Record)

	return children
}

// Text is a shortcut for string valued fields.
func (r *Record) Text(name string) (string, bool) {
	f, ok := r.fields[name]
	if !ok {
		return "", false
	}

	return f.Text()
}

type jsonField struct {
	Name string `json:"name"`
	normalize.Field
}

type jsonRecord struct {
	ID          string      `json:"record_id"`
	Family      string      `json:"family"`
	Source      string      `json:"source_reference"`
	Status      Status      `json:"parse_status"`
	Fields      []jsonField `json:"fields"`
	Diagnostics []string    `json:"diagnostics,omitempty"`
}

// MarshalJSON keeps fields in declaration order so that two assemblies of
// the same document serialize to the same bytes.
func (r *Record) MarshalJSON() ([]byte, error) {
	out := jsonRecord{
		ID:          r.id,
		Family:      r.family,
		Source:      r.source,
		Status:      r.status,
		Fields:      make([]jsonField, 0, len(r.names)),
		Diagnostics: r.diagnostics,
	}
	for _, name := range r.names {
		out.Fields = append(out.Fields, jsonField{Name: name, Field: r.fields[name]})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(out); err != nil {
		return nil, err
	}

	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FieldsJSON serializes only the fields, keyed by name, for storage columns.
func (r *Record) FieldsJSON() ([]byte, error) {
	return json.Marshal(r.fields)
}
