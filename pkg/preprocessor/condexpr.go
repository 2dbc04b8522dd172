package preprocessor

import (
	"strconv"
	"strings"

	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// evalConstExpr evaluates the (already macro-expanded, "defined"-resolved)
// token sequence following #if/#elif as a constant integer expression, per
// spec section 4.5: unknown identifiers evaluate to 0. A malformed expression
// reports a diagnostic and evaluates to 0, so the conditional stack still
// makes forward progress.
func evalConstExpr(toks []token.PPToken, diags *diag.Stream, anchor diag.Anchor) int64 {
	e := &condExprParser{toks: toks, diags: diags, anchor: anchor}
	v := e.parseTernary()

	if e.pos < len(e.toks) {
		diags.Errorf(anchor, "unexpected tokens in #if expression")
	}

	return v
}

type condExprParser struct {
	toks   []token.PPToken
	pos    int
	diags  *diag.Stream
	anchor diag.Anchor
}

func (e *condExprParser) peek() (token.PPToken, bool) {
	if e.pos >= len(e.toks) {
		return token.PPToken{}, false
	}

	return e.toks[e.pos], true
}

func (e *condExprParser) advance() (token.PPToken, bool) {
	t, ok := e.peek()
	if ok {
		e.pos++
	}

	return t, ok
}

func (e *condExprParser) fail(format string, args ...any) int64 {
	e.diags.Errorf(e.anchor, format, args...)
	return 0
}

func (e *condExprParser) parseTernary() int64 {
	cond := e.parseBinary(0)

	if t, ok := e.peek(); ok && t.Klass == token.Question {
		e.advance()

		trueVal := e.parseTernary()

		if t, ok := e.peek(); !ok || t.Klass != token.Colon {
			return e.fail("expected ':' in #if expression")
		}

		e.advance()

		falseVal := e.parseTernary()

		if cond != 0 {
			return trueVal
		}

		return falseVal
	}

	return cond
}

// precedence gives the binding power of each binary operator kind recognized
// in a #if constant expression, lowest first.
var binaryPrecedence = map[token.Kind]int{
	token.BarBar:       1,
	token.AmpAmp:       2,
	token.Bar:          3,
	token.Caret:        4,
	token.Amp:          5,
	token.EqualEqual:   6,
	token.BangEqual:    6,
	token.Less:         7,
	token.Greater:      7,
	token.LessEqual:    7,
	token.GreaterEqual: 7,
	token.LeftShift:    8,
	token.RightShift:   8,
	token.Plus:         9,
	token.Dash:         9,
	token.Star:         10,
	token.Slash:        10,
	token.Percent:      10,
}

func (e *condExprParser) parseBinary(minPrec int) int64 {
	left := e.parseUnary()

	for {
		t, ok := e.peek()
		if !ok {
			return left
		}

		prec, isBinary := binaryPrecedence[t.Klass]
		if !isBinary || prec < minPrec {
			return left
		}

		e.advance()

		right := e.parseBinary(prec + 1)
		left = applyBinary(t.Klass, left, right)
	}
}

func applyBinary(op token.Kind, a, b int64) int64 {
	switch op {
	case token.BarBar:
		return boolToInt(a != 0 || b != 0)
	case token.AmpAmp:
		return boolToInt(a != 0 && b != 0)
	case token.Bar:
		return a | b
	case token.Caret:
		return a ^ b
	case token.Amp:
		return a & b
	case token.EqualEqual:
		return boolToInt(a == b)
	case token.BangEqual:
		return boolToInt(a != b)
	case token.Less:
		return boolToInt(a < b)
	case token.Greater:
		return boolToInt(a > b)
	case token.LessEqual:
		return boolToInt(a <= b)
	case token.GreaterEqual:
		return boolToInt(a >= b)
	case token.LeftShift:
		return a << uint64(b)
	case token.RightShift:
		return a >> uint64(b)
	case token.Plus:
		return a + b
	case token.Dash:
		return a - b
	case token.Star:
		return a * b
	case token.Slash:
		if b == 0 {
			return 0
		}

		return a / b
	case token.Percent:
		if b == 0 {
			return 0
		}

		return a % b
	default:
		return 0
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}

	return 0
}

func (e *condExprParser) parseUnary() int64 {
	t, ok := e.peek()
	if !ok {
		return e.fail("unexpected end of #if expression")
	}

	switch t.Klass {
	case token.Bang:
		e.advance()
		return boolToInt(e.parseUnary() == 0)
	case token.Tilde:
		e.advance()
		return ^e.parseUnary()
	case token.Dash:
		e.advance()
		return -e.parseUnary()
	case token.Plus:
		e.advance()
		return e.parseUnary()
	default:
		return e.parsePrimary()
	}
}

func (e *condExprParser) parsePrimary() int64 {
	t, ok := e.advance()
	if !ok {
		return e.fail("unexpected end of #if expression")
	}

	switch t.Klass {
	case token.LeftParen:
		v := e.parseTernary()

		if c, ok := e.peek(); !ok || c.Klass != token.RightParen {
			return e.fail("expected ')' in #if expression")
		}

		e.advance()

		return v
	case token.IntConstant, token.UintConstant:
		return parseIntLiteral(t.Text.String())
	case token.BoolConstant:
		return boolToInt(t.Text.String() == "true")
	case token.Identifier, token.PPIdentifier:
		// Any identifier surviving macro expansion (and "defined" resolution)
		// is, by definition, not a macro: spec section 4.5 says it evaluates
		// to 0.
		return 0
	default:
		return e.fail("unexpected token %q in #if expression", t.Klass.String())
	}
}

func parseIntLiteral(text string) int64 {
	text = strings.TrimRight(text, "uU")

	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		v, err := strconv.ParseInt(text[2:], 16, 64)
		if err != nil {
			return 0
		}

		return v
	}

	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0
	}

	return v
}
