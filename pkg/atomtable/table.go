// Package atomtable interns identifier and punctuation text into stable,
// pointer-comparable handles (AtomString), shared by every phase downstream
// of the tokenizer. Two atoms from the same table are equal iff their
// handles are equal, which lets the rest of the pipeline compare identifiers
// with a pointer comparison instead of a string comparison.
//
// The bucket-over-hashcode layout is grounded on the teacher's own
// collision-safe hash set (a plain map[hash]string would silently conflate
// two distinct strings that only clash when someone swaps FNV for a weaker
// hash; bucketing by hash and resolving collisions with an equality check
// removes that assumption entirely), reworked here to return the canonical
// stored entry on insert rather than a present/absent bit, since interning
// needs "give me the canonical handle for these bytes", not "have I seen
// these bytes before".
package atomtable

import "hash/fnv"

// AtomString is a stable handle to an interned byte string. The owning Table
// must outlive every token or AST node referencing the handle. Handles minted
// by different Tables must never be compared.
type AtomString struct {
	entry *entry
}

// IsValid reports whether this handle was produced by a Table (as opposed to
// being the zero value).
func (a AtomString) IsValid() bool {
	return a.entry != nil
}

// String returns the interned text.
func (a AtomString) String() string {
	if a.entry == nil {
		return ""
	}

	return a.entry.text
}

// Equal performs the pointer-equality comparison that is the entire point of
// interning: two atoms from the same Table are equal iff their handles
// reference the same entry.
func (a AtomString) Equal(b AtomString) bool {
	return a.entry == b.entry
}

type entry struct {
	text string
}

// Table interns strings into a hash set of entries, bucketed by FNV-1a
// hashcode to tolerate collisions safely.
type Table struct {
	buckets map[uint64][]*entry
}

// New constructs an empty atom table.
func New() *Table {
	return &Table{buckets: make(map[uint64][]*entry)}
}

// GetAtom returns the stable handle for the given bytes, interning them on
// first use. Repeated calls with equal bytes return equal handles.
func (t *Table) GetAtom(text string) AtomString {
	hash := hashString(text)

	for _, e := range t.buckets[hash] {
		if e.text == text {
			return AtomString{e}
		}
	}

	e := &entry{text: text}
	t.buckets[hash] = append(t.buckets[hash], e)

	return AtomString{e}
}

// Size returns the number of distinct strings interned so far.
func (t *Table) Size() int {
	n := 0
	for _, bucket := range t.buckets {
		n += len(bucket)
	}

	return n
}

func hashString(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))

	return h.Sum64()
}
