package accounts

import "strings"

// NameField is the column holding the account name in the stored list.
const NameField = "compte"

// Defaults seeds an empty or malformed account list.
var Defaults = []string{
	"vestiaire coco",
	"vestiaire ludo",
	"vestiaire carine",
	"vestiaire michelle",
	"vestiaire pro",
	"vestiaire persephone",
}

// Registry is the set of known sales channels, kept in insertion order.
type Registry struct {
	names []string
	index map[string]struct{}
}

// NewRegistry builds a registry from names, dropping blanks and duplicates.
func NewRegistry(names []string) *Registry {
	r := &Registry{index: make(map[string]struct{})}
	for _, n := range names {
		r.Register(n)
	}
	return r
}

// LoadOrSeed reads account names from raw records. When there is nothing
// usable it returns the default accounts and seeded=true; the caller is
// expected to persist them.
func LoadOrSeed(records []map[string]string) (*Registry, bool) {
	names := make([]string, 0, len(records))
	for _, rec := range records {
		if name, ok := rec[NameField]; ok {
			names = append(names, name)
		}
	}

	r := NewRegistry(names)
	if len(r.names) == 0 {
		return NewRegistry(Defaults), true
	}
	return r, false
}

// List returns the distinct account names.
func (r *Registry) List() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Contains reports whether name is a known account.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[strings.TrimSpace(name)]
	return ok
}

// Register adds name and reports whether it was new.
func (r *Registry) Register(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" {
		return false
	}
	if _, ok := r.index[name]; ok {
		return false
	}
	r.index[name] = struct{}{}
	r.names = append(r.names, name)
	return true
}
