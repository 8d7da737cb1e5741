// Package intern implements the deduplicated, immutable string table: two
// equal strings are always the same *value.String object. Lookups are keyed
// by the string's content alone (the precomputed FNV-1a hash is stored on
// each string but not used by the table), backed by github.com/dolthub/swiss
// the same way the VM's globals table and every class's method table are.
package intern

import (
	"hash/fnv"

	"loxvm/lang/value"

	"github.com/dolthub/swiss"
)

// Hash computes the 32-bit FNV-1a hash of s, as required of every interned
// string before it is inserted into the table.
func Hash(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// Table is the process-wide (per-VM) interned-string table.
type Table struct {
	m *swiss.Map[string, *value.String]
}

// New returns an empty intern table.
func New() *Table {
	return &Table{m: swiss.NewMap[string, *value.String](64)}
}

// Get returns the interned string with the given content, if present.
func (t *Table) Get(chars string) (*value.String, bool) {
	return t.m.Get(chars)
}

// Put records s as the canonical interned string for its content. Callers
// must not insert two distinct *value.String objects with equal Chars.
func (t *Table) Put(s *value.String) {
	t.m.Put(s.Chars, s)
}

// Delete removes the entry for chars. Used by the collector's weak-reference
// sweep to drop interned strings whose sole reference was the table itself.
func (t *Table) Delete(chars string) {
	t.m.Delete(chars)
}

// Each calls fn for every interned string. fn must not mutate the table.
func (t *Table) Each(fn func(*value.String)) {
	t.m.Iter(func(_ string, s *value.String) bool {
		fn(s)
		return false
	})
}

// Len returns the number of interned strings.
func (t *Table) Len() int { return t.m.Count() }
