package token

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/source"
)

// PPToken is the Tokenizer's output: a single pre-preprocessor token,
// positioned in its spelling file but not yet positioned in any expanded
// stream. Spec section 3.
type PPToken struct {
	Klass        Kind
	SpelledFile  source.FileID
	SpelledRange source.Range
	Text         atomtable.AtomString
	// FirstTokenOfLine is true when no other token appeared earlier on this
	// token's physical source line (the preprocessor uses this to recognize
	// a '#' introducing a directive).
	FirstTokenOfLine bool
	// HasLeadingWhitespace is true when whitespace (of any kind, including a
	// line break) appeared between this token and the previous one.
	HasLeadingWhitespace bool
}

// IsEOF reports whether this token marks the end of its source file.
func (t PPToken) IsEOF() bool {
	return t.Klass == EOF
}
