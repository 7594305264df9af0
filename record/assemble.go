package record

import (
	"fmt"
	"strings"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"go.uber.org/zap"
)

// SourceError ties an assembly failure to the source it concerns.
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return e.Source + ": " + e.Err.Error()
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

type stage int

const (
	stagePending stage = iota
	stageExtracted
	stageValidated
	stageRejected
)

func (s stage) String() string {
	switch s {
	case stagePending:
		return "pending"
	case stageExtracted:
		return "fields-extracted"
	case stageValidated:
		return "validated"
	case stageRejected:
		return "rejected"
	}

	return "unknown"
}

// Assembler runs locate, extract and normalize for every declared field and
// validates the result. It holds no per-document state and may be shared
// between goroutines.
type Assembler struct {
	options
}

func NewAssembler(opts ...Option) *Assembler {
	options := defaultOptions
	for _, opt := range opts {
		opt(&options)
	}

	return &Assembler{options: options}
}

// Assemble builds the single record of doc. A missing primary identifier
// is the only error; every other problem yields a partial record.
func (a *Assembler) Assemble(doc *document.Document, t *Table) (*Record, error) {
	return a.assemble(doc.Root(), t, doc.Source(), true)
}

// AssembleAll builds one record per Container anchor of t, or the single
// record of doc when t has no Container. Rejected containers are returned
// as errors next to the records of the others.
func (a *Assembler) AssembleAll(doc *document.Document, t *Table) ([]*Record, []error) {
	if t.Container == nil {
		r, err := a.Assemble(doc, t)
		if err != nil {
			return nil, []error{err}
		}
		return []*Record{r}, nil
	}

	containers := locate.Locate(doc.Root(), *t.Container)
	if len(containers) == 0 {
		err := fmt.Errorf("%w: no container %s", ErrMissingPrimaryIdentifier, t.Container)
		return nil, []error{&SourceError{Source: doc.Source(), Err: err}}
	}

	var (
		records []*Record
		errs    []error
	)
	for i, c := range containers {
		r, err := a.assemble(c, t, fmt.Sprintf("%s#%d", doc.Source(), i+1), true)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		records = append(records, r)
	}

	return records, errs
}

func (a *Assembler) assemble(scope document.Anchor, t *Table, source string, top bool) (*Record, error) {
	r := &Record{
		family: t.Family,
		source: source,
		fields: make(map[string]normalize.Field, len(t.Fields)),
		names:  make([]string, 0, len(t.Fields)),
	}
	st := stagePending

	for _, fs := range t.Fields {
		f, diags := a.field(scope, fs, source)
		r.fields[fs.Name] = f
		r.names = append(r.names, fs.Name)
		r.diagnostics = append(r.diagnostics, diags...)
	}
	st = a.advance(source, st, stageExtracted)

	idField := r.fields[t.ID]
	id, ok := idField.Text()
	if !ok || id == "" {
		err := fmt.Errorf("%w: field %q %s", ErrMissingPrimaryIdentifier, t.ID, reason(idField))
		if top {
			a.advance(source, st, stageRejected)
			a.Logger.Warn("record rejected", zap.String("source", source), zap.Error(err))
			return nil, &SourceError{Source: source, Err: err}
		}
		r.diagnostics = append(r.diagnostics, err.Error())
	}
	r.id = id

	for _, v := range t.Validators {
		if err := v.Check(r); err != nil {
			r.diagnostics = append(r.diagnostics, fmt.Sprintf("%s: %v", v.Name, err))
		}
	}

	r.status = StatusComplete
	if len(r.diagnostics) > 0 {
		r.status = StatusPartial
	}
	a.advance(source, st, stageValidated)

	return r, nil
}

func (a *Assembler) advance(source string, from, to stage) stage {
	a.Logger.Debug("assembly stage",
		zap.String("source", source),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)

	return to
}

func reason(f normalize.Field) string {
	if f.Issue != normalize.IssueNone {
		return string(f.Issue)
	}

	return "not text"
}

// field resolves one FieldSpec. The diagnostics it returns make the record
// partial.
func (a *Assembler) field(scope document.Anchor, fs FieldSpec, source string) (normalize.Field, []string) {
	card := fs.Cardinality()

	anchors := locate.Locate(scope, fs.Locate)
	if card != locate.Many && len(anchors) > 1 {
		anchors = anchors[:1]
	}

	if len(anchors) == 0 {
		a.Logger.Debug("anchor not found",
			zap.String("source", source),
			zap.String("field", fs.Name),
			zap.Stringer("locate", fs.Locate),
		)
		f := normalize.Absent(fs.Type, normalize.IssueNotFound, nil)
		if card == locate.One {
			return f, []string{fmt.Sprintf("%s: %s %s", locate.ErrAnchorNotFound, fs.Name, fs.Locate)}
		}
		return f, nil
	}

	if fs.Type == normalize.TypeRecords {
		return a.children(anchors, fs, source)
	}

	if card == locate.Many && !multiValued(fs.Type) {
		return items(anchors, fs)
	}

	var raw []string
	for _, anchor := range anchors {
		raw = append(raw, extract.Extract(anchor, fs.Rule)...)
	}
	f := normalize.Normalize(raw, fs.Type, fs.Options)

	return f, diagnose(fs, f)
}

func multiValued(t normalize.Type) bool {
	return t == normalize.TypeList || t == normalize.TypeAffiliation
}

func diagnose(fs FieldSpec, f normalize.Field) []string {
	switch {
	case f.Issue == normalize.IssueMismatch:
		return []string{fmt.Sprintf("%s: %s %q", normalize.ErrMismatch, fs.Name, strings.Join(f.Raw, " | "))}
	case !f.Present() && fs.Cardinality() == locate.One:
		if f.Issue == normalize.IssueEmpty {
			return []string{fmt.Sprintf("empty field: %s", fs.Name)}
		}
		return []string{fmt.Sprintf("%s: %s %s", locate.ErrAnchorNotFound, fs.Name, fs.Locate)}
	}

	return nil
}

// items normalizes each extracted value of a repeated field on its own so
// that no entry is dropped.
func items(anchors []document.Anchor, fs FieldSpec) (normalize.Field, []string) {
	var (
		raw   []string
		out   []normalize.Field
		diags []string
	)
	for _, anchor := range anchors {
		for _, v := range extract.Extract(anchor, fs.Rule) {
			raw = append(raw, v)
			item := normalize.Normalize([]string{v}, fs.Type, fs.Options)
			if item.Issue == normalize.IssueMismatch {
				diags = append(diags, fmt.Sprintf("%s: %s[%d] %q", normalize.ErrMismatch, fs.Name, len(out), v))
			}
			out = append(out, item)
		}
	}

	if len(out) == 0 {
		return normalize.Absent(fs.Type, normalize.IssueNotFound, nil), nil
	}

	conf := normalize.Exact
	present := 0
	for _, item := range out {
		if item.Present() {
			present++
		}
		if item.Confidence != normalize.Exact {
			conf = normalize.Inferred
		}
	}
	if present == 0 {
		return normalize.Absent(fs.Type, normalize.IssueEmpty, raw), diags
	}

	return normalize.Field{Type: fs.Type, Confidence: conf, Value: out, Raw: raw}, diags
}

func (a *Assembler) children(anchors []document.Anchor, fs FieldSpec, source string) (normalize.Field, []string) {
	var (
		children []*Record
		diags    []string
	)
	conf := normalize.Exact
	for i, anchor := range anchors {
		// sub-records never fail: a missing id only makes them partial
		child, _ := a.assemble(anchor, fs.Sub, source, false)
		children = append(children, child)
		if !child.Complete() {
			conf = normalize.Inferred
			label := child.ID()
			if label == "" {
				label = fmt.Sprintf("#%d", i+1)
			}
			diags = append(diags, fmt.Sprintf("%s %s partial: %s", fs.Name, label, strings.Join(child.diagnostics, "; ")))
		}
	}

	return normalize.Field{Type: normalize.TypeRecords, Confidence: conf, Value: children}, diags
}
