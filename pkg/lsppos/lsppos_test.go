package lsppos

import (
	"testing"

	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/source"
)

func TestPosition_PassesLineAndCharacterThrough(t *testing.T) {
	got := Position(source.Position{Line: 3, Character: 7})

	if got.Line != 3 || got.Character != 7 {
		t.Fatalf("Position() = %+v, want Line 3, Character 7", got)
	}
}

func TestRange_ConvertsBothEndpoints(t *testing.T) {
	r := source.NewRange(source.Position{Line: 1, Character: 0}, source.Position{Line: 1, Character: 5})

	got := Range(r)
	if got.Start.Line != 1 || got.Start.Character != 0 || got.End.Line != 1 || got.End.Character != 5 {
		t.Fatalf("Range() = %+v, want [1:0, 1:5]", got)
	}
}

func TestFromAnchor_UsesAnchorsLineAndCharFields(t *testing.T) {
	a := diag.Anchor{StartLine: 2, StartChar: 4, EndLine: 2, EndChar: 9}

	got := FromAnchor(a)
	if got.Start.Line != 2 || got.Start.Character != 4 || got.End.Character != 9 {
		t.Fatalf("FromAnchor() = %+v, want [2:4, 2:9]", got)
	}
}

func TestSeverity_MapsToOneIndexedLSPSeverities(t *testing.T) {
	cases := []struct {
		in   diag.Severity
		want uint32
	}{
		{diag.Error, 1},
		{diag.Warning, 2},
		{diag.Info, 3},
	}

	for _, c := range cases {
		if got := uint32(Severity(c.in)); got != c.want {
			t.Errorf("Severity(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestDiagnostic_CarriesMessageAndRange(t *testing.T) {
	d := diag.Diagnostic{
		Severity: diag.Error,
		Anchor:   diag.Anchor{StartLine: 0, StartChar: 0, EndLine: 0, EndChar: 3},
		Message:  "undeclared identifier",
	}

	got := Diagnostic(d)
	if got.Message != "undeclared identifier" {
		t.Fatalf("Message = %q, want %q", got.Message, "undeclared identifier")
	}

	if got.Range.End.Character != 3 {
		t.Fatalf("Range.End.Character = %d, want 3", got.Range.End.Character)
	}
}
