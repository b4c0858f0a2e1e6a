// Package strings provides string interning for graph identities.
//
// Edge-list files repeat the same node identities across many lines, and
// qualified IDs repeat their collection prefix across every document in a
// collection. Parsing allocates a fresh string for each occurrence; an
// interner lets all occurrences of one identity share a single allocation.
package strings

// Intern deduplicates strings so equal values share backing memory.
// Not safe for concurrent use.
type Intern struct {
	values map[string]string
}

// NewIntern creates an empty interner.
func NewIntern() *Intern {
	return &Intern{
		values: make(map[string]string),
	}
}

// Get returns the canonical copy of s, storing s itself on first sight.
func (in *Intern) Get(s string) string {
	if v, ok := in.values[s]; ok {
		return v
	}
	in.values[s] = s
	return s
}

// Size returns the number of distinct interned strings.
func (in *Intern) Size() int {
	return len(in.values)
}

// Clear drops all interned strings.
func (in *Intern) Clear() {
	in.values = make(map[string]string)
}
