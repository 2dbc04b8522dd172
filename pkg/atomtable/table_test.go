package atomtable

import "testing"

func TestGetAtom_StableHandlesForEqualBytes(t *testing.T) {
	table := New()

	a := table.GetAtom("foo")
	b := table.GetAtom("foo")

	if !a.Equal(b) {
		t.Fatalf("expected repeated GetAtom(%q) to return equal handles", "foo")
	}
}

func TestGetAtom_DistinctStringsGetDistinctHandles(t *testing.T) {
	table := New()

	a := table.GetAtom("foo")
	b := table.GetAtom("bar")

	if a.Equal(b) {
		t.Fatalf("expected GetAtom(%q) and GetAtom(%q) to be distinct", "foo", "bar")
	}
}

func TestGetAtom_CollisionSafety(t *testing.T) {
	table := New()

	// Intern several distinct strings, some sharing a prefix, and confirm
	// each round-trips to its own text rather than aliasing another. No
	// collision is forced: whether two of them share a bucket depends on
	// the hash.
	words := []string{"a", "ab", "abc", "gl_Position", "gl_FragColor", "x", ""}

	handles := make([]AtomString, len(words))
	for i, w := range words {
		handles[i] = table.GetAtom(w)
	}

	for i, w := range words {
		if handles[i].String() != w {
			t.Fatalf("handle %d: got text %q, want %q", i, handles[i].String(), w)
		}
	}
}

func TestAtomString_ZeroValueIsInvalid(t *testing.T) {
	var a AtomString

	if a.IsValid() {
		t.Fatal("zero-value AtomString should not be valid")
	}

	if a.String() != "" {
		t.Fatalf("zero-value AtomString.String() = %q, want empty", a.String())
	}
}

func TestTable_Size(t *testing.T) {
	table := New()
	table.GetAtom("a")
	table.GetAtom("b")
	table.GetAtom("a")

	if got := table.Size(); got != 2 {
		t.Fatalf("Size() = %d, want 2", got)
	}
}
