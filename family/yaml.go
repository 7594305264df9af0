package family

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/dreamerjackson/confextract/document"
	"github.com/dreamerjackson/confextract/extract"
	"github.com/dreamerjackson/confextract/locate"
	"github.com/dreamerjackson/confextract/normalize"
	"github.com/dreamerjackson/confextract/record"
	"github.com/goccy/go-yaml"
)

// Declaration file model. One file declares one family.
type (
	TableModel struct {
		Family     string           `yaml:"family"`
		Kind       string           `yaml:"kind"`
		Container  *LocateModel     `yaml:"container"`
		ID         string           `yaml:"id"`
		Fields     []FieldModel     `yaml:"fields"`
		Validators []ValidatorModel `yaml:"validators"`
	}

	FieldModel struct {
		Name    string            `yaml:"name"`
		Locate  LocateModel       `yaml:"locate"`
		Extract ExtractModel      `yaml:"extract"`
		Type    string            `yaml:"type"`
		Labels  []normalize.Label `yaml:"labels"`
		Layout  map[int][]string  `yaml:"layout"`
		Sub     *TableModel       `yaml:"sub"`
	}

	LocateModel struct {
		Tag         string   `yaml:"tag"`
		Classes     []string `yaml:"classes"`
		Attr        string   `yaml:"attr"`
		AttrValue   string   `yaml:"attr_value"`
		Selector    string   `yaml:"selector"`
		Contains    string   `yaml:"contains"`
		Self        bool     `yaml:"self"`
		Pattern     string   `yaml:"pattern"`
		Block       bool     `yaml:"block"`
		Cardinality string   `yaml:"cardinality"`
	}

	ExtractModel struct {
		Source  string        `yaml:"source"`
		Attr    string        `yaml:"attr"`
		N       int           `yaml:"n"`
		Capture *CaptureModel `yaml:"capture"`
		Script  string        `yaml:"script"`
	}

	CaptureModel struct {
		Pattern string `yaml:"pattern"`
		Group   int    `yaml:"group"`
		All     bool   `yaml:"all"`
	}

	ValidatorModel struct {
		Name string   `yaml:"name"`
		Args []string `yaml:"args"`
	}
)

// ParseYAML decodes and compiles one declaration.
func ParseYAML(data []byte) (*record.Table, error) {
	var m TableModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode family: %w", err)
	}
	if m.Family == "" {
		return nil, fmt.Errorf("decode family: missing family name")
	}

	t, err := m.Table(m.Family)
	if err != nil {
		return nil, err
	}
	if err := t.Check(); err != nil {
		return nil, err
	}

	return t, nil
}

// LoadDir adds every *.yaml and *.yml declaration under dir to r.
func LoadDir(r *Registry, dir string) ([]string, error) {
	var loaded []string
	for _, glob := range []string{"*.yaml", "*.yml"} {
		files, err := filepath.Glob(filepath.Join(dir, glob))
		if err != nil {
			return loaded, err
		}

		for _, file := range files {
			data, err := os.ReadFile(file)
			if err != nil {
				return loaded, err
			}

			t, err := ParseYAML(data)
			if err != nil {
				return loaded, fmt.Errorf("%s: %w", file, err)
			}

			if err := r.Add(t); err != nil {
				return loaded, fmt.Errorf("%s: %w", file, err)
			}
			loaded = append(loaded, t.Family)
		}
	}

	return loaded, nil
}

func (m TableModel) Table(family string) (*record.Table, error) {
	kind, err := document.ParseKind(m.Kind)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", family, err)
	}

	t := &record.Table{
		Family: strings.ToLower(family),
		Kind:   kind,
		ID:     m.ID,
	}

	if m.Container != nil {
		c, err := m.Container.Spec()
		if err != nil {
			return nil, fmt.Errorf("%s: container: %w", family, err)
		}
		t.Container = &c
	}

	for _, fm := range m.Fields {
		f, err := fm.FieldSpec(family)
		if err != nil {
			return nil, fmt.Errorf("%s: field %s: %w", family, fm.Name, err)
		}
		t.Fields = append(t.Fields, f)
	}

	for _, vm := range m.Validators {
		v, err := record.NewValidator(vm.Name, vm.Args...)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", family, err)
		}
		t.Validators = append(t.Validators, v)
	}

	return t, nil
}

func (m FieldModel) FieldSpec(family string) (record.FieldSpec, error) {
	typ, err := normalize.ParseType(m.Type)
	if err != nil {
		return record.FieldSpec{}, err
	}

	spec, err := m.Locate.Spec()
	if err != nil {
		return record.FieldSpec{}, err
	}

	rule, err := m.Extract.Rule()
	if err != nil {
		return record.FieldSpec{}, err
	}

	f := record.FieldSpec{
		Name:    m.Name,
		Locate:  spec,
		Rule:    rule,
		Type:    typ,
		Options: normalize.Options{Labels: m.Labels},
	}

	if len(m.Layout) > 0 {
		f.Options.Layout = normalize.Layout{}
		for n, names := range m.Layout {
			for _, name := range names {
				slot, err := normalize.ParseSlot(name)
				if err != nil {
					return record.FieldSpec{}, err
				}
				f.Options.Layout[n] = append(f.Options.Layout[n], slot)
			}
		}
		if err := f.Options.Layout.Validate(); err != nil {
			return record.FieldSpec{}, fmt.Errorf("field %s: %w", m.Name, err)
		}
	}

	if m.Sub != nil {
		sub, err := m.Sub.Table(family + "/" + m.Name)
		if err != nil {
			return record.FieldSpec{}, err
		}
		f.Sub = sub
	}

	return f, nil
}

func (m LocateModel) Spec() (locate.Spec, error) {
	card, err := locate.ParseCardinality(m.Cardinality)
	if err != nil {
		return locate.Spec{}, err
	}

	s := locate.Spec{
		Tag:         m.Tag,
		Classes:     m.Classes,
		Attr:        m.Attr,
		AttrValue:   m.AttrValue,
		Selector:    m.Selector,
		Contains:    m.Contains,
		Self:        m.Self,
		Block:       m.Block,
		Cardinality: card,
	}

	if m.Pattern != "" {
		if s.Pattern, err = regexp.Compile(m.Pattern); err != nil {
			return locate.Spec{}, err
		}
	}

	return s, nil
}

func (m ExtractModel) Rule() (extract.Rule, error) {
	var r extract.Rule
	switch strings.ToLower(m.Source) {
	case "", "full_text":
		r = extract.FullText()
	case "own_text":
		r = extract.OwnText()
	case "attribute":
		if m.Attr == "" {
			return r, fmt.Errorf("attribute source without attr")
		}
		r = extract.Attribute(m.Attr)
	case "following_text":
		n := m.N
		if n == 0 {
			n = 1
		}
		r = extract.FollowingText(n)
	case "lines":
		r = extract.Lines()
	default:
		return r, fmt.Errorf("unknown extract source %q", m.Source)
	}

	if c := m.Capture; c != nil {
		re, err := regexp.Compile(c.Pattern)
		if err != nil {
			return r, err
		}
		if c.Group > re.NumSubexp() {
			return r, fmt.Errorf("capture group %d of %d", c.Group, re.NumSubexp())
		}
		r = r.Capture(re, c.Group)
		if c.All {
			r = r.All()
		}
	}

	if m.Script != "" {
		if err := extract.CheckScript(m.Script); err != nil {
			return r, err
		}
		r = r.Script(m.Script)
	}

	return r, nil
}
