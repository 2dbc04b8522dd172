package diag

import "testing"

func TestStream_HasErrorsIgnoresWarnings(t *testing.T) {
	s := &Stream{}
	s.Warnf(Anchor{}, "just a warning")

	if s.HasErrors() {
		t.Fatal("a stream with only warnings should not report HasErrors")
	}

	s.Errorf(Anchor{}, "now an error: %d", 1)
	if !s.HasErrors() {
		t.Fatal("a stream with an Error-severity diagnostic should report HasErrors")
	}
}

func TestStream_MergePreservesOrder(t *testing.T) {
	a := &Stream{}
	a.Errorf(Anchor{}, "first")

	b := &Stream{}
	b.Errorf(Anchor{}, "second")

	a.Merge(b)

	items := a.Items()
	if len(items) != 2 || items[0].Message != "first" || items[1].Message != "second" {
		t.Fatalf("Items() = %v, want [first second]", items)
	}
}

func TestStream_MergeWithNilIsNoOp(t *testing.T) {
	a := &Stream{}
	a.Errorf(Anchor{}, "only")

	a.Merge(nil)

	if len(a.Items()) != 1 {
		t.Fatal("merging a nil stream should not change the item count")
	}
}

func TestDiagnostic_ErrorStringIncludesPositionAndMessage(t *testing.T) {
	d := Diagnostic{
		Severity: Error,
		Anchor:   Anchor{StartLine: 4, StartChar: 8},
		Message:  "unexpected token",
	}

	got := d.Error()
	want := "4:8: error: unexpected token"
	if got != want {
		t.Fatalf("Error() = %q, want %q", got, want)
	}
}
