// Package lsppos converts this frontend's own source.Position/source.Range
// and diag.Anchor into go.lsp.dev/protocol's wire types, for an external
// language-server layer built on top of pkg/compiler. Both position models
// are already zero-based line/character pairs (pkg/source.Position's doc
// comment notes it was shaped to match LSP directly), so conversion is a
// narrowing cast rather than a coordinate-system translation — the one
// exception is column width, which only agrees when the owning
// source.Context was opened with source.UTF16Columns (spec section 3).
package lsppos

import (
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"go.lsp.dev/protocol"
)

// Position converts p to its protocol.Position equivalent.
func Position(p source.Position) protocol.Position {
	return protocol.Position{
		Line:      uint32(p.Line),
		Character: uint32(p.Character),
	}
}

// Range converts r to its protocol.Range equivalent.
func Range(r source.Range) protocol.Range {
	return protocol.Range{
		Start: Position(r.Start),
		End:   Position(r.End),
	}
}

// FromAnchor converts a diagnostic's Anchor into the protocol.Range an LSP
// publishDiagnostics notification reports it at. An Anchor with no token
// attached already carries an explicit start/end line and character pair,
// which is exactly the shape a Range needs.
func FromAnchor(a diag.Anchor) protocol.Range {
	return protocol.Range{
		Start: protocol.Position{Line: uint32(a.StartLine), Character: uint32(a.StartChar)},
		End:   protocol.Position{Line: uint32(a.EndLine), Character: uint32(a.EndChar)},
	}
}

// Severity converts a diag.Severity to its protocol.DiagnosticSeverity
// equivalent. LSP's severities are 1-indexed (Error is 1, not 0).
func Severity(s diag.Severity) protocol.DiagnosticSeverity {
	switch s {
	case diag.Error:
		return protocol.DiagnosticSeverityError
	case diag.Warning:
		return protocol.DiagnosticSeverityWarning
	case diag.Info:
		return protocol.DiagnosticSeverityInformation
	default:
		return protocol.DiagnosticSeverityError
	}
}

// Diagnostic converts one compiler diag.Diagnostic into its protocol wire
// shape, ready to append into a PublishDiagnosticsParams.Diagnostics slice.
func Diagnostic(d diag.Diagnostic) protocol.Diagnostic {
	return protocol.Diagnostic{
		Range:    FromAnchor(d.Anchor),
		Severity: Severity(d.Severity),
		Message:  d.Message,
	}
}
