// Package lexer implements the Tokenizer: it turns one source.File into a
// stream of token.PPToken values with precise spelled positions, ready for
// the preprocessor to consume. Grounded on the teacher's
// pkg/util/source/lex/scanner.go Scanner[T] combinator style (peek/advance
// over a rune slice) and pkg/util/source/lex/lexer.go's whitespace/newline
// bookkeeping, rewritten for GLSL's richer token set (numeric literal
// formats, block/line comments, maximal-munch punctuation, on-demand
// header-name tokens) rather than the teacher's fixed small rule set.
package lexer

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// sortedPunctuation is token.PunctuationTable sorted longest-spelling first,
// so the tokenizer always tries ">>=" before ">>" before ">".
var sortedPunctuation = func() []struct {
	Text string
	Kind token.Kind
} {
	tbl := make([]struct {
		Text string
		Kind token.Kind
	}, len(token.PunctuationTable))
	copy(tbl, token.PunctuationTable)
	sort.Slice(tbl, func(i, j int) bool { return len(tbl[i].Text) > len(tbl[j].Text) })

	return tbl
}()

// Tokenizer produces raw PP-tokens from one source file.
type Tokenizer struct {
	scanner          *source.Scanner
	atoms            *atomtable.Table
	diags            *diag.Stream
	atStart          bool
	expectHeaderName bool
	lastSkipNonEmpty bool
}

// New constructs a Tokenizer over file, interning identifier/punctuation
// text into atoms and reporting lex errors onto diags.
func New(file *source.File, atoms *atomtable.Table, diags *diag.Stream) *Tokenizer {
	return &Tokenizer{
		scanner: source.NewScanner(file),
		atoms:   atoms,
		diags:   diags,
		atStart: true,
	}
}

// ExpectHeaderName tells the tokenizer that the very next token, if it opens
// with '"' or '<', should be read as a single HeaderName token rather than
// as ordinary punctuation. The preprocessor calls this only immediately
// after recognizing "#include" (spec section 4.4).
func (t *Tokenizer) ExpectHeaderName() {
	t.expectHeaderName = true
}

// Next produces the next PP-token, or an EOF-klass token once the buffer is
// exhausted. Unknown bytes consume exactly one rune and are emitted as an
// Unknown token, guaranteeing forward progress on malformed input (spec
// section 4.4 / section 8's halting property).
func (t *Tokenizer) Next() token.PPToken {
	crossedNewline := t.consumeInsignificant()
	firstOfLine := t.atStart || crossedNewline
	hadLeading := t.atStart || crossedNewline || t.lastSkipNonEmpty
	t.atStart = false

	start := t.scanner.Position()

	if t.scanner.AtEOF() {
		return t.finish(token.EOF, start, firstOfLine, hadLeading)
	}

	if t.expectHeaderName {
		t.expectHeaderName = false

		if tok, ok := t.tryHeaderName(start, firstOfLine, hadLeading); ok {
			return tok
		}
	}

	r := t.scanner.Peek()

	switch {
	case isIdentStart(r):
		return t.lexIdentifier(start, firstOfLine, hadLeading)
	case unicode.IsDigit(r) || (r == '.' && unicode.IsDigit(t.scanner.PeekAt(1))):
		return t.lexNumber(start, firstOfLine, hadLeading)
	default:
		if kind, text, ok := t.lexPunctuation(); ok {
			return t.token(kind, text, start, firstOfLine, hadLeading)
		}
		// Unknown byte: consume one rune to guarantee forward progress.
		bad := t.scanner.Advance()
		t.diags.Errorf(anchorAt(start), "unexpected character %q", bad)

		return t.token(token.Unknown, string(bad), start, firstOfLine, hadLeading)
	}
}

// consumeInsignificant consumes whitespace and comments, recording into
// t.lastSkipNonEmpty whether anything was actually consumed (a same-line
// comment carries leading whitespace too, per spec section 4.4, even though
// it crosses no newline).
func (t *Tokenizer) consumeInsignificant() bool {
	crossedNewline := false
	t.lastSkipNonEmpty = false

	for {
		before := t.scanner.Offset()

		if t.scanner.SkipWhitespace() {
			crossedNewline = true
		}

		if t.scanner.Offset() != before {
			t.lastSkipNonEmpty = true
		}

		if t.scanner.Peek() == '/' && t.scanner.PeekAt(1) == '/' {
			t.consumeLineComment()
			t.lastSkipNonEmpty = true

			continue
		}

		if t.scanner.Peek() == '/' && t.scanner.PeekAt(1) == '*' {
			if t.consumeBlockComment() {
				crossedNewline = true
			}

			t.lastSkipNonEmpty = true

			continue
		}

		return crossedNewline
	}
}

func (t *Tokenizer) consumeLineComment() {
	for !t.scanner.AtEOF() && t.scanner.Peek() != '\n' {
		t.scanner.Advance()
	}
}

// consumeBlockComment consumes a /* ... */ comment, reporting whether it
// spanned a newline. An unterminated block comment is a diagnostic whose
// token ends at EOF, per spec section 7.
func (t *Tokenizer) consumeBlockComment() (crossedNewline bool) {
	start := t.scanner.Position()
	t.scanner.Advance() // '/'
	t.scanner.Advance() // '*'

	for {
		if t.scanner.AtEOF() {
			t.diags.Errorf(anchorAt(start), "unterminated block comment")
			return crossedNewline
		}

		if t.scanner.Peek() == '\n' {
			crossedNewline = true
		}

		if t.scanner.Peek() == '*' && t.scanner.PeekAt(1) == '/' {
			t.scanner.Advance()
			t.scanner.Advance()

			return crossedNewline
		}

		t.scanner.Advance()
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentCont(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func (t *Tokenizer) lexIdentifier(start source.Position, firstOfLine, hadLeading bool) token.PPToken {
	var b strings.Builder

	for isIdentCont(t.scanner.Peek()) {
		b.WriteRune(t.scanner.Advance())
	}

	text := b.String()

	switch {
	case text == "true" || text == "false":
		return t.token(token.BoolConstant, text, start, firstOfLine, hadLeading)
	case token.BuiltinTypeNames[text]:
		return t.token(token.TypeName, text, start, firstOfLine, hadLeading)
	default:
		if kind, ok := token.Keywords[text]; ok {
			return t.token(kind, text, start, firstOfLine, hadLeading)
		}

		return t.token(token.Identifier, text, start, firstOfLine, hadLeading)
	}
}

func (t *Tokenizer) lexNumber(start source.Position, firstOfLine, hadLeading bool) token.PPToken {
	var b strings.Builder

	isFloat := false
	isHex := false

	if t.scanner.Peek() == '0' && (t.scanner.PeekAt(1) == 'x' || t.scanner.PeekAt(1) == 'X') {
		isHex = true
		b.WriteRune(t.scanner.Advance())
		b.WriteRune(t.scanner.Advance())

		for isHexDigit(t.scanner.Peek()) {
			b.WriteRune(t.scanner.Advance())
		}
	} else {
		for unicode.IsDigit(t.scanner.Peek()) {
			b.WriteRune(t.scanner.Advance())
		}

		if t.scanner.Peek() == '.' {
			isFloat = true
			b.WriteRune(t.scanner.Advance())

			for unicode.IsDigit(t.scanner.Peek()) {
				b.WriteRune(t.scanner.Advance())
			}
		}

		if t.scanner.Peek() == 'e' || t.scanner.Peek() == 'E' {
			la := 1
			if t.scanner.PeekAt(1) == '+' || t.scanner.PeekAt(1) == '-' {
				la = 2
			}

			if unicode.IsDigit(t.scanner.PeekAt(la)) {
				isFloat = true
				b.WriteRune(t.scanner.Advance())

				if t.scanner.Peek() == '+' || t.scanner.Peek() == '-' {
					b.WriteRune(t.scanner.Advance())
				}

				for unicode.IsDigit(t.scanner.Peek()) {
					b.WriteRune(t.scanner.Advance())
				}
			}
		}
	}

	kind := token.IntConstant
	if isFloat {
		kind = token.FloatConstant
	}

	switch t.scanner.Peek() {
	case 'u', 'U':
		if !isFloat {
			b.WriteRune(t.scanner.Advance())
			kind = token.UintConstant
		}
	case 'f', 'F':
		b.WriteRune(t.scanner.Advance())
		kind = token.FloatConstant
	case 'l', 'L':
		if t.scanner.PeekAt(1) == 'f' || t.scanner.PeekAt(1) == 'F' {
			b.WriteRune(t.scanner.Advance())
			b.WriteRune(t.scanner.Advance())
			kind = token.DoubleConstant
		}
	}

	return t.token(kind, b.String(), start, firstOfLine, hadLeading)
}

func isHexDigit(r rune) bool {
	return unicode.IsDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func (t *Tokenizer) lexPunctuation() (token.Kind, string, bool) {
	for _, e := range sortedPunctuation {
		if t.matches(e.Text) {
			for range e.Text {
				t.scanner.Advance()
			}

			return e.Kind, e.Text, true
		}
	}

	return 0, "", false
}

func (t *Tokenizer) matches(text string) bool {
	for i, r := range []rune(text) {
		if t.scanner.PeekAt(i) != r {
			return false
		}
	}

	return true
}

// tryHeaderName attempts to read a "..." or <...> header-name token. If
// neither quote form is present, it declines (ok=false) and Next falls back
// to ordinary tokenization — a #include whose argument is a macro rather
// than a literal header name should expand normally.
func (t *Tokenizer) tryHeaderName(start source.Position, firstOfLine, hadLeading bool) (token.PPToken, bool) {
	closing := rune(0)

	switch t.scanner.Peek() {
	case '"':
		closing = '"'
	case '<':
		closing = '>'
	default:
		return token.PPToken{}, false
	}

	var b strings.Builder

	b.WriteRune(t.scanner.Advance())

	for !t.scanner.AtEOF() && t.scanner.Peek() != closing && t.scanner.Peek() != '\n' {
		b.WriteRune(t.scanner.Advance())
	}

	if t.scanner.Peek() != closing {
		t.diags.Errorf(anchorAt(start), "unterminated header name")

		return t.token(token.HeaderName, b.String(), start, firstOfLine, hadLeading), true
	}

	b.WriteRune(t.scanner.Advance())

	return t.token(token.HeaderName, b.String(), start, firstOfLine, hadLeading), true
}

func (t *Tokenizer) token(kind token.Kind, text string, start source.Position, firstOfLine, hadLeading bool) token.PPToken {
	end := t.scanner.Position()
	rng := source.NewRange(start, end)

	return token.PPToken{
		Klass:                kind,
		SpelledFile:          t.scanner.File().ID(),
		SpelledRange:         rng,
		Text:                 t.atoms.GetAtom(text),
		FirstTokenOfLine:     firstOfLine,
		HasLeadingWhitespace: hadLeading,
	}
}

func (t *Tokenizer) finish(kind token.Kind, start source.Position, firstOfLine, hadLeading bool) token.PPToken {
	return t.token(kind, "", start, firstOfLine, hadLeading)
}

func anchorAt(pos source.Position) diag.Anchor {
	return diag.Anchor{StartLine: pos.Line, StartChar: pos.Character, EndLine: pos.Line, EndChar: pos.Character}
}
