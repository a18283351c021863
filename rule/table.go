package rule

import "strings"

// Kind selects the matching strategy of a table
type Kind uint8

const (
	KindMod  Kind = iota // Exact, case-insensitive key match
	KindPath             // Unanchored case-insensitive substring, first loaded wins
)

func (k Kind) String() string {
	switch k {
	case KindMod:
		return "mod"
	case KindPath:
		return "path"
	default:
		return "unknown"
	}
}

// Table maps match keys to warnings
// Immutable after construction; safe for concurrent readers without locking
type Table struct {
	kind  Kind
	exact map[string]*Warning
	keys  []string // Lowercased, load order
	warns []*Warning
}

// NewTable creates an empty table of the given kind
func NewTable(kind Kind) *Table {
	return &Table{
		kind:  kind,
		exact: make(map[string]*Warning),
	}
}

// add inserts a rule, returns false on duplicate key
func (t *Table) add(key string, w *Warning) bool {
	k := strings.ToLower(key)
	if _, dup := t.exact[k]; dup {
		return false
	}
	t.exact[k] = w
	t.keys = append(t.keys, k)
	t.warns = append(t.warns, w)
	return true
}

// Kind returns the table's matching strategy
func (t *Table) Kind() Kind {
	return t.kind
}

// Len returns rule count
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Lookup returns the warning for an exact key
func (t *Table) Lookup(key string) (*Warning, bool) {
	if t == nil {
		return nil, false
	}
	w, ok := t.exact[strings.ToLower(key)]
	return w, ok
}

// MatchPath returns the first rule, in load order, whose key is a substring of path
// Later rules are never considered once one matches
func (t *Table) MatchPath(path string) (*Warning, bool) {
	if t == nil || len(t.keys) == 0 {
		return nil, false
	}
	p := strings.ToLower(path)
	for i, k := range t.keys {
		if strings.Contains(p, k) {
			return t.warns[i], true
		}
	}
	return nil, false
}

// MatchMods appends the warning of every identifier present in the table, in identifier order
func (t *Table) MatchMods(dst []*Warning, mods []string) []*Warning {
	if t == nil || len(t.exact) == 0 {
		return dst
	}
	for _, m := range mods {
		if w, ok := t.Lookup(m); ok {
			dst = append(dst, w)
		}
	}
	return dst
}

// Range iterates rules in load order until fn returns false
func (t *Table) Range(fn func(key string, w *Warning) bool) {
	if t == nil {
		return
	}
	for i, k := range t.keys {
		if !fn(k, t.warns[i]) {
			return
		}
	}
}
