// Package diag defines the structured diagnostic records produced by every
// phase of the compilation pipeline (tokenizer, preprocessor, parser, type
// checker). Diagnostics are always recoverable: no phase aborts the pipeline
// on account of one, per spec section 7.
package diag

import "fmt"

// Severity classifies a Diagnostic. The zero value is Error, since an
// uninitialized Diagnostic should never be silently treated as advisory.
type Severity uint8

const (
	// Error indicates the translation unit cannot be considered well-formed.
	Error Severity = iota
	// Warning flags a likely mistake that does not itself block compilation.
	Warning
	// Info is a purely advisory note. No phase of this module emits one; an
	// identical macro redefinition, for instance, is accepted silently.
	Info
)

// String renders a Severity for display.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	default:
		return "unknown"
	}
}

// Anchor identifies where a Diagnostic should be reported. Most diagnostics
// anchor to a token already pushed into a LexContext (anchor by SyntaxTokenID);
// a few arise before any token exists (e.g. a malformed directive encountered
// mid-line) and anchor directly to a spelled-position span instead.
type Anchor struct {
	// HasToken indicates SyntaxToken is meaningful; otherwise the Start/End line and character fields apply.
	HasToken   bool
	SyntaxToken uint32
	File       uint32
	StartLine  int
	StartChar  int
	EndLine    int
	EndChar    int
}

// Diagnostic is a single structured record: severity, anchor, and message.
type Diagnostic struct {
	Severity Severity
	Anchor   Anchor
	Message  string
}

// Error implements the error interface so a Diagnostic can be returned or
// wrapped wherever Go idiom expects one (e.g. from a CLI command that fails
// because diagnostics of Error severity were produced).
func (d Diagnostic) Error() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Anchor.StartLine, d.Anchor.StartChar, d.Severity, d.Message)
}

// Stream accumulates diagnostics across every phase of one CompilerInvocation.
// Every pass appends to the same stream rather than stopping at the first
// error, matching the teacher's []SyntaxError accumulation pattern used
// throughout its compiler passes.
type Stream struct {
	items []Diagnostic
}

// Add appends a new diagnostic to the stream.
func (s *Stream) Add(severity Severity, anchor Anchor, format string, args ...any) {
	s.items = append(s.items, Diagnostic{severity, anchor, fmt.Sprintf(format, args...)})
}

// Errorf is shorthand for Add(Error, ...).
func (s *Stream) Errorf(anchor Anchor, format string, args ...any) {
	s.Add(Error, anchor, format, args...)
}

// Warnf is shorthand for Add(Warning, ...).
func (s *Stream) Warnf(anchor Anchor, format string, args ...any) {
	s.Add(Warning, anchor, format, args...)
}

// Items returns every diagnostic accumulated so far, in emission order.
func (s *Stream) Items() []Diagnostic {
	return s.items
}

// HasErrors reports whether any diagnostic at Error severity was recorded.
func (s *Stream) HasErrors() bool {
	for _, d := range s.items {
		if d.Severity == Error {
			return true
		}
	}

	return false
}

// Merge appends every diagnostic from other onto s, preserving order. Used
// when combining the diagnostics of several phases or several translation
// units (e.g. CompileSourceFiles over multiple shader stages).
func (s *Stream) Merge(other *Stream) {
	if other == nil {
		return
	}

	s.items = append(s.items, other.items...)
}
