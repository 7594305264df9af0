package family

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/dreamerjackson/confextract/record"
)

// ErrUnknownFamily is returned for documents whose family has no table.
var ErrUnknownFamily = errors.New("unknown document family")

// Store is the global registry. familylib fills it with the built-in tables.
var Store = NewRegistry()

// Registry maps a family name, conference/year/template, to its table.
type Registry struct {
	mu   sync.RWMutex
	List []*record.Table
	Hash map[string]*record.Table
}

func NewRegistry() *Registry {
	return &Registry{Hash: map[string]*record.Table{}}
}

// Name builds the registry key of a family.
func Name(conference string, year int, template string) string {
	return fmt.Sprintf("%s/%d/%s", strings.ToLower(conference), year, strings.ToLower(template))
}

func (r *Registry) Add(t *record.Table) error {
	if err := t.Check(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.Hash[t.Family]; ok {
		return fmt.Errorf("family %s already registered", t.Family)
	}

	r.Hash[t.Family] = t
	r.List = append(r.List, t)

	return nil
}

// MustAdd is Add for tables declared in code.
func (r *Registry) MustAdd(t *record.Table) {
	if err := r.Add(t); err != nil {
		panic(err)
	}
}

func (r *Registry) Lookup(name string) (*record.Table, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.Hash[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, name)
	}

	return t, nil
}

// Names lists the registered families sorted by name.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.Hash))
	for name := range r.Hash {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}
