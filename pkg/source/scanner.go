package source

// sentinel is returned by Peek/PeekAt once the cursor runs past the end of
// the buffer, guaranteeing every caller can test for end-of-file with a
// single rune comparison instead of also checking a bounds flag.
const sentinel = rune(0)

// Scanner is a byte (rune) cursor over one File's decoded text. It tracks
// (line, column) as it advances and transparently splices away line
// continuations (a backslash immediately followed by a newline), so
// everything above the Scanner sees logical lines only.
//
// Grounded on the teacher's pkg/util/source/scanner.go Scanner[T] combinator
// cursor, reworked from a generic lookahead-bounded combinator base into a
// GLSL-specific cursor that additionally performs continuation splicing,
// which the teacher's S-expression language does not need.
type Scanner struct {
	file   *File
	runes  []rune
	pos    int
	line   int
	col    int
}

// NewScanner constructs a Scanner positioned at the start of file.
func NewScanner(file *File) *Scanner {
	return &Scanner{file: file, runes: file.Runes()}
}

// File returns the File this scanner walks.
func (s *Scanner) File() *File { return s.file }

// AtEOF reports whether the cursor has run off the end of the buffer.
func (s *Scanner) AtEOF() bool {
	return s.pos >= len(s.runes)
}

// Position returns the cursor's current (line, character) position.
func (s *Scanner) Position() Position {
	return Position{Line: s.line, Character: s.col}
}

// Peek returns the rune at the cursor without consuming it, splicing over
// any line continuation first. Returns the sentinel at EOF.
func (s *Scanner) Peek() rune {
	return s.PeekAt(0)
}

// PeekAt returns the rune n positions ahead of the cursor without consuming
// anything, honoring line-continuation splicing along the way. Lookahead is
// bounded by the buffer length: requesting past EOF yields the sentinel.
func (s *Scanner) PeekAt(n int) rune {
	i := s.pos

	for skipped := 0; ; {
		i = s.skipContinuationAt(i)

		if i >= len(s.runes) {
			return sentinel
		}

		if skipped == n {
			return s.runes[i]
		}

		i++
		skipped++
	}
}

// skipContinuationAt returns the index at or after i that is not the start
// of a backslash-newline (or backslash-CR-newline) continuation sequence.
func (s *Scanner) skipContinuationAt(i int) int {
	for i+1 < len(s.runes) && s.runes[i] == '\\' {
		if s.runes[i+1] == '\n' {
			i += 2
		} else if i+2 < len(s.runes) && s.runes[i+1] == '\r' && s.runes[i+2] == '\n' {
			i += 3
		} else {
			break
		}
	}

	return i
}

// Advance consumes and returns the rune at the cursor, updating line/column
// bookkeeping. Splices over continuations first, exactly as Peek does.
func (s *Scanner) Advance() rune {
	s.pos = s.skipContinuationAt(s.pos)

	if s.pos >= len(s.runes) {
		return sentinel
	}

	r := s.runes[s.pos]
	s.pos++

	if r == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col += s.file.columnWidth(r)
	}

	return r
}

// SkipWhitespace consumes horizontal and vertical whitespace (but not
// comments), reporting whether it crossed at least one newline — the
// tokenizer needs this to flag a token as the first of its line, which the
// preprocessor in turn needs to recognize a leading '#' as a directive
// introducer.
func (s *Scanner) SkipWhitespace() (crossedNewline bool) {
	for {
		switch s.Peek() {
		case ' ', '\t', '\r', '\v', '\f':
			s.Advance()
		case '\n':
			s.Advance()

			crossedNewline = true
		default:
			return crossedNewline
		}
	}
}

// Offset returns the cursor's current rune offset into the file, ignoring
// any continuation splicing already passed. Used to build spelled ranges.
func (s *Scanner) Offset() int {
	return s.pos
}
