// Package lexcontext stores the final, fully preprocessed token stream for a
// translation unit and provides the bidirectional spelled/expanded position
// lookups the parser and downstream IDE features need (spec section 4.6).
// Grounded on the teacher's pkg/sexp/source_map.go SourceMap[T] (a flat,
// append-only item → Span table built once and queried many times),
// generalized from a single Span per item to a pair of ranges (spelled and
// expanded) per token, since a GLSL token's physical and logical positions
// diverge under macro expansion and #include in a way an S-expression's
// never does.
package lexcontext

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/preprocessor"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// SyntaxTokenID is a dense index into a LexContext's token vector. Every AST
// node references its tokens by this id rather than by pointer (spec section
// 9's "AST arena with back-pointers" note applies equally to the token
// vector: stable indices survive arena growth, raw pointers would not).
type SyntaxTokenID uint32

// RawSyntaxToken is one entry in the expanded stream: a PP-token's kind and
// text, its true (spelled) origin, and the position it appears to occupy
// after macro/include expansion (its expanded position).
type RawSyntaxToken struct {
	Klass                token.Kind
	Text                 atomtable.AtomString
	SpelledFile          source.FileID
	SpelledRange         source.Range
	ExpandedFile         source.FileID
	ExpandedRange        source.Range
	FirstTokenOfLine     bool
	HasLeadingWhitespace bool
}

// IsEOF reports whether this token marks the end of its source file.
func (t RawSyntaxToken) IsEOF() bool { return t.Klass == token.EOF }

// LexContext owns the expanded token vector for one CompilerInvocation (or,
// for a CompiledPreamble, for the shared stdlib + user preamble). Tokens
// contributed by a preamble occupy the low end of the vector; TUStart marks
// where the main translation unit's own tokens begin, so TUTokens can
// exclude preamble tokens per spec section 4.6.
type LexContext struct {
	tokens  []RawSyntaxToken
	tuStart SyntaxTokenID
}

// New constructs an empty LexContext.
func New() *LexContext {
	return &LexContext{}
}

// MarkTUStart records the current end of the token vector as the boundary
// between preamble tokens and the main translation unit's own tokens. A
// CompilerInvocation calls this once, immediately after appending whatever
// preamble tokens it adopted and before appending the main file's.
func (c *LexContext) MarkTUStart() {
	c.tuStart = SyntaxTokenID(len(c.tokens))
}

// Append records entries (as produced by preprocessor.Run) into the token
// vector, returning the SyntaxTokenID assigned to each in order.
func (c *LexContext) Append(entries []preprocessor.Token) []SyntaxTokenID {
	ids := make([]SyntaxTokenID, len(entries))

	for i, e := range entries {
		ids[i] = SyntaxTokenID(len(c.tokens))
		c.tokens = append(c.tokens, buildRawToken(e))
	}

	return ids
}

// buildRawToken derives an expanded range from the (file, start-position)
// pair the preprocessor computed for e, carrying over the spelled token's
// width. A macro-expanded or #include'd token collapses to a single point in
// its enclosing file (spec section 4.5); giving that point the same width as
// the spelled token keeps single-line ExpandedRanges meaningful without
// claiming a cross-file byte-for-byte correspondence that does not exist.
func buildRawToken(e preprocessor.Token) RawSyntaxToken {
	width := e.PP.SpelledRange.End.Character - e.PP.SpelledRange.Start.Character

	end := e.ExpandedStart
	if e.PP.SpelledRange.Start.Line == e.PP.SpelledRange.End.Line {
		end.Character += width
	}

	return RawSyntaxToken{
		Klass:                e.PP.Klass,
		Text:                 e.PP.Text,
		SpelledFile:          e.PP.SpelledFile,
		SpelledRange:         e.PP.SpelledRange,
		ExpandedFile:         e.ExpandedFile,
		ExpandedRange:        source.NewRange(e.ExpandedStart, end),
		FirstTokenOfLine:     e.PP.FirstTokenOfLine,
		HasLeadingWhitespace: e.PP.HasLeadingWhitespace,
	}
}

// Len returns the number of tokens recorded, including preamble tokens.
func (c *LexContext) Len() int {
	return len(c.tokens)
}

// Token returns the full record for id.
func (c *LexContext) Token(id SyntaxTokenID) RawSyntaxToken {
	return c.tokens[id]
}

// LookupSpelledTextRange returns id's true origin: the range to index into
// the buffer of SpelledFile to recover the token's exact source text.
func (c *LexContext) LookupSpelledTextRange(id SyntaxTokenID) (source.FileID, source.Range) {
	t := c.tokens[id]
	return t.SpelledFile, t.SpelledRange
}

// LookupExpandedTextRange returns the position id appears to occupy in its
// expanded file (the main translation unit, once macro/include expansion has
// been accounted for).
func (c *LexContext) LookupExpandedTextRange(id SyntaxTokenID) (source.FileID, source.Range) {
	t := c.tokens[id]
	return t.ExpandedFile, t.ExpandedRange
}

// OriginFile is shorthand for the SpelledFile half of LookupSpelledTextRange.
func (c *LexContext) OriginFile(id SyntaxTokenID) source.FileID {
	return c.tokens[id].SpelledFile
}

// TUStart returns the id of the first token belonging to the main
// translation unit, as opposed to an adopted preamble.
func (c *LexContext) TUStart() SyntaxTokenID {
	return c.tuStart
}

// TUTokens returns every token belonging to the main translation unit,
// excluding preamble tokens — the view the parser actually consumes.
func (c *LexContext) TUTokens() []RawSyntaxToken {
	return c.tokens[c.tuStart:]
}

// TokenAtExpandedPosition finds the token whose expanded range contains pos
// within file, for IDE features (hover, go-to-definition) that start from a
// cursor position rather than a SyntaxTokenID. Expanded positions are
// non-decreasing across the TU view (spec section 8's "expanded
// monotonicity" property), but a linear scan is kept here for clarity over a
// binary search — LexContext is built once per edit and queried a handful of
// times, not on a hot path.
func (c *LexContext) TokenAtExpandedPosition(file source.FileID, pos source.Position) (SyntaxTokenID, bool) {
	for i := int(c.tuStart); i < len(c.tokens); i++ {
		t := c.tokens[i]
		if t.ExpandedFile == file && t.ExpandedRange.Contains(pos) {
			return SyntaxTokenID(i), true
		}
	}

	return 0, false
}
