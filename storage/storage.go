package storage

import (
	"encoding/json"
	"strings"

	"github.com/dreamerjackson/confextract/record"
)

// FailureTable collects the failures of every family.
const FailureTable = "extract_failures"

// Storage persists batch output. Save may buffer; Flush writes what is left.
type Storage interface {
	Save(datas ...*DataCell) error
	Flush() error
}

type Kind int

const (
	KindRecord Kind = iota
	KindFailure
)

// DataCell is one row to store. Data holds a value for every column of
// its Kind.
type DataCell struct {
	Kind  Kind
	Table string
	Data  map[string]string
}

func (d *DataCell) GetTableName() string {
	return d.Table
}

// Columns lists the columns of a kind, in storage order.
func Columns(k Kind) []string {
	if k == KindFailure {
		return []string{"run_id", "source_reference", "family", "reason"}
	}

	return []string{"run_id", "record_id", "source_reference", "parse_status", "fields", "diagnostics"}
}

// TableName maps a family, idweek/2025/session, to idweek_2025_session.
func TableName(family string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			return r
		case r >= 'A' && r <= 'Z':
			return r + 'a' - 'A'
		}
		return '_'
	}, family)

	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "f_" + name
	}

	return name
}

// RecordCell flattens r into its family table. Fields and diagnostics are
// stored as JSON.
func RecordCell(runID string, r *record.Record) (*DataCell, error) {
	fields, err := r.FieldsJSON()
	if err != nil {
		return nil, err
	}

	diags := r.Diagnostics()
	if diags == nil {
		diags = []string{}
	}
	diagJSON, err := json.Marshal(diags)
	if err != nil {
		return nil, err
	}

	return &DataCell{
		Kind:  KindRecord,
		Table: TableName(r.Family()),
		Data: map[string]string{
			"run_id":           runID,
			"record_id":        r.ID(),
			"source_reference": r.Source(),
			"parse_status":     string(r.Status()),
			"fields":           string(fields),
			"diagnostics":      string(diagJSON),
		},
	}, nil
}

func FailureCell(runID, source, family string, reason error) *DataCell {
	return &DataCell{
		Kind:  KindFailure,
		Table: FailureTable,
		Data: map[string]string{
			"run_id":           runID,
			"source_reference": source,
			"family":           family,
			"reason":           reason.Error(),
		},
	}
}
