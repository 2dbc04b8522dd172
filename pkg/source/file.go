package source

import (
	"bytes"
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/uri"
)

// File owns one decoded source buffer: its runes, its identity (FileID and
// URI), and the byte-order-mark-stripped text the Scanner walks.
type File struct {
	id      FileID
	path    string
	uri     uri.URI
	runes   []rune
	isMain  bool
	columns ColumnEncoding
}

// ID returns this file's FileID.
func (f *File) ID() FileID { return f.id }

// Path returns the filesystem path (or synthetic name) this file was opened
// from.
func (f *File) Path() string { return f.path }

// URI returns the document identity this file shares with an external
// language-server layer.
func (f *File) URI() uri.URI { return f.uri }

// Runes returns the decoded, BOM-stripped contents.
func (f *File) Runes() []rune { return f.runes }

// IsMain reports whether this file was opened as a translation unit's main
// buffer (as opposed to a file reached only via #include).
func (f *File) IsMain() bool { return f.isMain }

// Text returns the range of runes [r.Start, r.End) as a string. Positions
// falling outside the buffer are clamped, matching a language server's
// expectation that stale positions degrade gracefully rather than panic.
func (f *File) Text(r Range) string {
	start := f.offsetOf(r.Start)
	end := f.offsetOf(r.End)

	if start > end {
		start, end = end, start
	}

	return string(f.runes[start:end])
}

// offsetOf converts a (line, character) position into a rune offset into
// f.runes, re-deriving line boundaries on demand. Translation units are
// typically small enough (a single shader stage) that this linear scan is
// not worth caching; CompiledPreamble text, which is reused across many
// invocations, is the one case large enough to matter and is only scanned
// once per invocation at tokenize time, not per lookup.
func (f *File) offsetOf(pos Position) int {
	line := 0
	col := 0
	i := 0

	for ; i < len(f.runes); i++ {
		if line == pos.Line && col == pos.Character {
			return i
		}

		if f.runes[i] == '\n' {
			line++
			col = 0

			continue
		}

		col += f.columnWidth(f.runes[i])
	}

	return len(f.runes)
}

// positionOf converts a rune offset into a (line, character) position using
// this file's configured ColumnEncoding.
func (f *File) positionOf(offset int) Position {
	line := 0
	col := 0

	for i := 0; i < offset && i < len(f.runes); i++ {
		if f.runes[i] == '\n' {
			line++
			col = 0

			continue
		}

		col += f.columnWidth(f.runes[i])
	}

	return Position{Line: line, Character: col}
}

func (f *File) columnWidth(r rune) int {
	if f.columns == UTF16Columns {
		return utf16.RuneLen(r)
	}

	return utf8.RuneLen(r)
}

// decodeSource strips a leading UTF-8 BOM (tolerated per spec section 6) and
// decodes the remaining bytes as UTF-8 runes, substituting utf8.RuneError for
// any invalid byte sequence rather than failing the open.
func decodeSource(data []byte) []rune {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	return []rune(string(data))
}
