// Package preprocessor implements the GLSL preprocessor: a push state
// machine over the Tokenizer's PP-tokens that expands object- and
// function-like macros with rescan-and-disable semantics, evaluates
// conditional-compilation directives, and recursively tokenizes #include'd
// files. Grounded on the teacher's pkg/corset/compiler/preprocessor.go in
// shape only (a dedicated preprocessing pass that sits between parsing and
// the rest of the pipeline, threading a diagnostic sink through every
// recursive call) — the teacher's preprocessor performs AST-level macro
// substitution (for-loop unrolling, function inlining) over an already-
// parsed circuit, whereas this one operates on a raw token stream before any
// parsing happens, so the algorithm itself is GLSL's own (spec section 4.5),
// not ported from the teacher.
package preprocessor

import (
	"strings"

	"github.com/shaderlang/glslfrontend/pkg/atomtable"
	"github.com/shaderlang/glslfrontend/pkg/diag"
	"github.com/shaderlang/glslfrontend/pkg/lexer"
	"github.com/shaderlang/glslfrontend/pkg/source"
	"github.com/shaderlang/glslfrontend/pkg/token"
)

// Token is one entry in the expanded stream the preprocessor produces: a
// final PP-token together with the position it appears to occupy in the
// translation unit after macro/include expansion (spec section 3's
// "spelled vs expanded position", section 4.5's include-range mapping).
type Token struct {
	PP            token.PPToken
	ExpandedFile  source.FileID
	ExpandedStart source.Position
}

// ppSource is the pull side of the preprocessor's push/pull pipeline (spec
// section 9, "preprocessor as a push state machine"): the tokenizer hands
// tokens to whatever is asking for the next one, whether that is the live
// file-frame stack or a finite slice being rescanned for macro expansion.
type ppSource interface {
	next() (tok token.PPToken, expandedFile source.FileID, expandedPos source.Position, ok bool)
}

// sliceSource adapts a finite, already-collected token slice (a macro
// argument, or a #if/#elif directive tail) to ppSource, for bounded
// expansion passes that have no file frame behind them.
type sliceSource struct {
	toks []token.PPToken
	pos  int
}

func (s *sliceSource) next() (token.PPToken, source.FileID, source.Position, bool) {
	if s.pos >= len(s.toks) {
		return token.PPToken{}, source.NoFile, source.Position{}, false
	}

	t := s.toks[s.pos]
	s.pos++

	return t, source.NoFile, source.Position{}, true
}

// frame is one entry in the live include stack: a Tokenizer over one open
// file, plus the (file, position) every token it yields should be reported
// as occupying once mapped back toward the main translation unit.
type frame struct {
	tokenizer  *lexer.Tokenizer
	file       source.FileID
	isMain     bool
	anchorFile source.FileID
	anchorPos  source.Position
}

// expandedPosition collapses every token from an included file (however
// deeply nested) to the position of the #include directive that ultimately
// pulled it in, per spec section 4.5: "every token that originates from the
// included file carries a mapped expanded position back into the main file."
func (f *frame) expandedPosition(tok token.PPToken) (source.FileID, source.Position) {
	if f.isMain {
		return tok.SpelledFile, tok.SpelledRange.Start
	}

	return f.anchorFile, f.anchorPos
}

// liveSource walks the Preprocessor's live frame stack, transparently
// popping a finished include frame and resuming its parent — the EOF of an
// included file is invisible to everything above this layer.
type liveSource struct {
	p *Preprocessor
}

func (s *liveSource) next() (token.PPToken, source.FileID, source.Position, bool) {
	for {
		fr := s.p.currentFrame()
		if fr == nil {
			return token.PPToken{}, source.NoFile, source.Position{}, false
		}

		tok := fr.tokenizer.Next()

		if tok.IsEOF() {
			if fr.isMain {
				return tok, tok.SpelledFile, tok.SpelledRange.Start, true
			}

			s.p.frames = s.p.frames[:len(s.p.frames)-1]
			s.p.sink.OnExitIncludedFile()

			continue
		}

		ef, ep := fr.expandedPosition(tok)

		return tok, ef, ep, true
	}
}

// pendingItem is either a token already scheduled for (re)scan, or a marker
// that re-enables a macro once everything pushed alongside it has been
// consumed — the mechanism behind the disabled-flag rescan guard (spec
// section 4.5 / 9).
type pendingItem struct {
	tok      token.PPToken
	expFile  source.FileID
	expPos   source.Position
	isMarker bool
	macro    *MacroDefinition
}

// condFrame is one level of the #if/#ifdef/#ifndef conditional stack (spec
// section 4.5).
type condFrame struct {
	outerActive      bool
	active           bool
	seenActiveBranch bool
	seenElse         bool
}

// Preprocessor drives tokenizing, macro expansion, conditional compilation
// and #include resolution for one translation unit.
type Preprocessor struct {
	files  *source.Context
	atoms  *atomtable.Table
	diags  *diag.Stream
	sink   PPCallback

	macros *macroTable
	cond   []*condFrame
	frames []*frame

	pending []pendingItem

	maxIncludeDepth int
	output          []Token
}

// New constructs a Preprocessor. sink may be nil, in which case preprocessor
// events are simply dropped. maxIncludeDepth <= 0 selects the spec's default
// of 16 (section 9's configuration table).
func New(files *source.Context, atoms *atomtable.Table, diags *diag.Stream, sink PPCallback, maxIncludeDepth int) *Preprocessor {
	if sink == nil {
		sink = NopCallback{}
	}

	if maxIncludeDepth <= 0 {
		maxIncludeDepth = 16
	}

	return &Preprocessor{
		files:           files,
		atoms:           atoms,
		diags:           diags,
		sink:            sink,
		macros:          newMacroTable(),
		maxIncludeDepth: maxIncludeDepth,
	}
}

// DefinePredefined installs an object-like macro before Run, for predefined
// built-ins such as `__VERSION__` or a command-line `-D` option. value is
// tokenized exactly as it would appear on a #define line.
func (p *Preprocessor) DefinePredefined(name, value string) {
	fileID := p.files.OpenFromBuffer("<command-line>", value)

	file, ok := p.files.File(fileID)
	if !ok {
		return
	}

	tz := lexer.New(file, p.atoms, p.diags)

	var toks []token.PPToken
	for {
		t := tz.Next()
		if t.IsEOF() {
			break
		}

		toks = append(toks, t)
	}

	p.macros.define(&MacroDefinition{Name: p.atoms.GetAtom(name), Replacement: toks})
}

// Run preprocesses mainFile and every file it transitively #includes,
// returning the final expanded token stream in emission order, ending with
// the main file's EOF token.
func (p *Preprocessor) Run(mainFile source.FileID) []Token {
	if !p.pushFrame(mainFile, true, source.NoFile, source.Position{}) {
		return nil
	}

	live := &liveSource{p: p}

	for {
		tok, expFile, expPos, ok := p.pull(live)
		if !ok || tok.IsEOF() {
			if len(p.cond) > 0 {
				p.diags.Errorf(anchorForTok(tok), "unterminated conditional directive at end of file")
			}

			if ok {
				p.emit(tok, expFile, expPos)
			}

			break
		}

		if tok.Klass == token.Hash && tok.FirstTokenOfLine {
			p.handleDirective(live)
			continue
		}

		if !p.condActive() {
			continue
		}

		p.expandOne(tok, expFile, expPos, live, p.emit)
	}

	return p.output
}

func (p *Preprocessor) currentFrame() *frame {
	if len(p.frames) == 0 {
		return nil
	}

	return p.frames[len(p.frames)-1]
}

func (p *Preprocessor) pushFrame(file source.FileID, isMain bool, anchorFile source.FileID, anchorPos source.Position) bool {
	f, ok := p.files.File(file)
	if !ok {
		return false
	}

	p.frames = append(p.frames, &frame{
		tokenizer:  lexer.New(f, p.atoms, p.diags),
		file:       file,
		isMain:     isMain,
		anchorFile: anchorFile,
		anchorPos:  anchorPos,
	})

	return true
}

func (p *Preprocessor) condActive() bool {
	if len(p.cond) == 0 {
		return true
	}

	return p.cond[len(p.cond)-1].active
}

func (p *Preprocessor) pushCond(outerActive, branchActive bool) {
	active := outerActive && branchActive
	p.cond = append(p.cond, &condFrame{outerActive: outerActive, active: active, seenActiveBranch: active})
}

func (p *Preprocessor) emit(tok token.PPToken, expFile source.FileID, expPos source.Position) {
	p.output = append(p.output, Token{PP: tok, ExpandedFile: expFile, ExpandedStart: expPos})
	p.sink.OnYieldToken(tok)
}

// pull returns the next token, draining any pending (re)scan queue first and
// discarding disabled-macro re-enable markers along the way.
func (p *Preprocessor) pull(src ppSource) (token.PPToken, source.FileID, source.Position, bool) {
	for {
		if n := len(p.pending); n > 0 {
			item := p.pending[n-1]
			p.pending = p.pending[:n-1]

			if item.isMarker {
				item.macro.Disabled = false
				continue
			}

			return item.tok, item.expFile, item.expPos, true
		}

		return src.next()
	}
}

func (p *Preprocessor) unreadOne(tok token.PPToken, expFile source.FileID, expPos source.Position) {
	p.pending = append(p.pending, pendingItem{tok: tok, expFile: expFile, expPos: expPos})
}

// pushReplacement schedules toks to be (re)scanned next, ahead of anything
// already pending, and disables macro for the duration — re-enabled only
// once every token pushed here (and anything its own expansion pushes on top
// of it) has been consumed.
func (p *Preprocessor) pushReplacement(macro *MacroDefinition, toks []token.PPToken, expFile source.FileID, expPos source.Position) {
	macro.Disabled = true
	p.pending = append(p.pending, pendingItem{isMarker: true, macro: macro})

	for i := len(toks) - 1; i >= 0; i-- {
		p.pending = append(p.pending, pendingItem{tok: toks[i], expFile: expFile, expPos: expPos})
	}
}

// expandOne expands a single pulled token if it names a live macro use,
// rescanning its replacement (spec section 4.5); otherwise it forwards the
// token to emit unchanged.
func (p *Preprocessor) expandOne(tok token.PPToken, expFile source.FileID, expPos source.Position, src ppSource, emit func(token.PPToken, source.FileID, source.Position)) {
	if tok.Klass != token.Identifier {
		emit(tok, expFile, expPos)
		return
	}

	macro, found := p.macros.lookup(tok.Text)
	if !found || macro.Disabled {
		emit(tok, expFile, expPos)
		return
	}

	if !macro.IsFunctionLike {
		p.sink.OnMacroExpansion(tok)
		p.pushReplacement(macro, macro.Replacement, expFile, expPos)

		return
	}

	next, nFile, nPos, hasNext := p.pull(src)
	if !hasNext || next.Klass != token.LeftParen {
		emit(tok, expFile, expPos)

		if hasNext {
			p.unreadOne(next, nFile, nPos)
		}

		return
	}

	rawArgs, raw, closed := p.gatherArgs(src)
	if !closed {
		p.diags.Errorf(anchorForTok(tok), "unterminated invocation of macro %q", tok.Text.String())
		emit(tok, expFile, expPos)

		return
	}

	if !arityOK(macro, rawArgs) {
		p.diags.Errorf(anchorForTok(tok), "macro %q expects %d argument(s), got %d", tok.Text.String(), len(macro.Params), len(rawArgs))
		emit(tok, expFile, expPos)
		emit(next, nFile, nPos)

		for _, r := range raw {
			emit(r, expFile, expPos)
		}

		return
	}

	p.sink.OnMacroExpansion(tok)

	expandedArgs := make([][]token.PPToken, len(rawArgs))
	for i, a := range rawArgs {
		expandedArgs[i] = p.expandTokenList(a)
	}

	replaced := substitute(macro, expandedArgs, rawArgs, p.atoms)
	p.pushReplacement(macro, replaced, expFile, expPos)
}

// gatherArgs reads a function-like macro's raw (unexpanded) argument list,
// splitting on top-level commas, after the opening '(' has already been
// consumed. raw accumulates every token pulled (including the closing ')')
// so a caller that rejects the call (e.g. on arity mismatch) can still emit
// the invocation verbatim per spec section 7, rather than swallowing it.
func (p *Preprocessor) gatherArgs(src ppSource) (args [][]token.PPToken, raw []token.PPToken, closed bool) {
	var (
		current []token.PPToken
		depth   int
	)

	for {
		tok, _, _, ok := p.pull(src)
		if !ok {
			return nil, raw, false
		}

		raw = append(raw, tok)

		switch tok.Klass {
		case token.LeftParen:
			depth++
			current = append(current, tok)
		case token.RightParen:
			if depth == 0 {
				args = append(args, current)
				return args, raw, true
			}

			depth--
			current = append(current, tok)
		case token.Comma:
			if depth == 0 {
				args = append(args, current)
				current = nil
			} else {
				current = append(current, tok)
			}
		default:
			if tok.IsEOF() {
				return nil, raw, false
			}

			current = append(current, tok)
		}
	}
}

func arityOK(m *MacroDefinition, args [][]token.PPToken) bool {
	if len(m.Params) == 0 {
		return len(args) == 0 || (len(args) == 1 && len(args[0]) == 0)
	}

	return len(args) == len(m.Params)
}

// expandTokenList fully macro-expands a finite, already-collected token
// list (a macro argument, or a #if/#elif tail) in isolation.
func (p *Preprocessor) expandTokenList(toks []token.PPToken) []token.PPToken {
	src := &sliceSource{toks: toks}

	// Tokens already pending belong to the enclosing stream, not to toks;
	// set them aside so that pull sees toks alone.
	saved := p.pending
	p.pending = nil

	defer func() { p.pending = saved }()

	var out []token.PPToken

	for {
		tok, expFile, expPos, ok := p.pull(src)
		if !ok {
			return out
		}

		p.expandOne(tok, expFile, expPos, src, func(t token.PPToken, _ source.FileID, _ source.Position) {
			out = append(out, t)
		})
	}
}

func anchorForTok(tok token.PPToken) diag.Anchor {
	return diag.Anchor{
		StartLine: tok.SpelledRange.Start.Line,
		StartChar: tok.SpelledRange.Start.Character,
		EndLine:   tok.SpelledRange.End.Line,
		EndChar:   tok.SpelledRange.End.Character,
	}
}

func (p *Preprocessor) skipLine(src ppSource) {
	for {
		tok, ef, ep, ok := p.pull(src)
		if !ok {
			return
		}

		if tok.IsEOF() || tok.FirstTokenOfLine {
			p.unreadOne(tok, ef, ep)
			return
		}
	}
}

func (p *Preprocessor) readDirectiveTail(src ppSource) []token.PPToken {
	var toks []token.PPToken

	for {
		tok, ef, ep, ok := p.pull(src)
		if !ok {
			return toks
		}

		if tok.IsEOF() || tok.FirstTokenOfLine {
			p.unreadOne(tok, ef, ep)
			return toks
		}

		toks = append(toks, tok)
	}
}

func (p *Preprocessor) handleDirective(src ppSource) {
	nameTok, _, _, ok := p.pull(src)
	if !ok || nameTok.IsEOF() {
		return
	}

	if nameTok.FirstTokenOfLine {
		// A lone '#' on its own line is the null directive; nameTok actually
		// belongs to the following line.
		p.unreadOne(nameTok, nameTok.SpelledFile, nameTok.SpelledRange.Start)
		return
	}

	switch nameTok.Text.String() {
	case "include":
		p.handleInclude(src, nameTok)
	case "define":
		p.handleDefine(src, nameTok)
	case "undef":
		p.handleUndef(src, nameTok)
	case "if":
		p.handleIf(src, nameTok)
	case "ifdef":
		p.handleIfdef(src, nameTok, false)
	case "ifndef":
		p.handleIfdef(src, nameTok, true)
	case "elif":
		p.handleElif(src, nameTok)
	case "else":
		p.handleElse(src, nameTok)
	case "endif":
		p.handleEndif(src, nameTok)
	default:
		p.diags.Errorf(anchorForTok(nameTok), "unknown preprocessor directive %q", nameTok.Text.String())
		p.skipLine(src)
	}
}

func (p *Preprocessor) handleInclude(src ppSource, directiveTok token.PPToken) {
	if fr := p.currentFrame(); fr != nil {
		fr.tokenizer.ExpectHeaderName()
	}

	headerTok, _, _, ok := p.pull(src)
	if !ok || headerTok.Klass != token.HeaderName {
		p.diags.Errorf(anchorForTok(directiveTok), "expected a header name after #include")
		p.skipLine(src)

		return
	}

	p.sink.OnIncludeDirective(headerTok)
	p.skipLine(src)

	if len(p.frames) > p.maxIncludeDepth {
		p.diags.Errorf(anchorForTok(headerTok), "#include nested too deeply (max %d)", p.maxIncludeDepth)
		return
	}

	text := headerTok.Text.String()
	quoted := strings.HasPrefix(text, "\"")
	name := strings.Trim(text, "\"<>")

	fromFile := p.currentFrame().file

	fileID, err := p.files.ResolveInclude(fromFile, name, quoted)
	if err != nil {
		p.diags.Errorf(anchorForTok(headerTok), "%s", err.Error())
		return
	}

	anchorFile, anchorPos := p.currentFrame().expandedPosition(directiveTok)

	if !p.pushFrame(fileID, false, anchorFile, anchorPos) {
		p.diags.Errorf(anchorForTok(headerTok), "cannot open include file %q", name)
		return
	}

	p.sink.OnEnterIncludedFile()
}

func (p *Preprocessor) handleDefine(src ppSource, directiveTok token.PPToken) {
	nameTok, _, _, ok := p.pull(src)
	if !ok || nameTok.FirstTokenOfLine || nameTok.Klass != token.Identifier {
		p.diags.Errorf(anchorForTok(directiveTok), "expected macro name after #define")
		p.skipLine(src)

		return
	}

	isFunctionLike := false

	var (
		params   []atomtable.AtomString
		paramTok []token.PPToken
	)

	if next, nf, np, nok := p.pull(src); nok && next.Klass == token.LeftParen && !next.HasLeadingWhitespace {
		isFunctionLike = true

		for {
			pt, _, _, pok := p.pull(src)
			if !pok || pt.IsEOF() || pt.FirstTokenOfLine {
				p.diags.Errorf(anchorForTok(nameTok), "unterminated macro parameter list")
				return
			}

			if pt.Klass == token.RightParen {
				break
			}

			if pt.Klass == token.Comma {
				continue
			}

			if pt.Klass != token.Identifier {
				p.diags.Errorf(anchorForTok(pt), "expected parameter name in macro definition")
				continue
			}

			params = append(params, pt.Text)
			paramTok = append(paramTok, pt)
		}
	} else if nok {
		p.unreadOne(next, nf, np)
	}

	replacement := p.readDirectiveTail(src)

	if old, exists := p.macros.lookup(nameTok.Text); exists && !sameDefinition(old, isFunctionLike, params, replacement) {
		p.diags.Warnf(anchorForTok(nameTok), "redefinition of macro %q", nameTok.Text.String())
	}

	p.macros.define(&MacroDefinition{
		Name:           nameTok.Text,
		IsFunctionLike: isFunctionLike,
		Params:         params,
		Replacement:    replacement,
	})

	p.sink.OnDefineDirective(nameTok, paramTok)
}

func sameDefinition(old *MacroDefinition, isFunctionLike bool, params []atomtable.AtomString, replacement []token.PPToken) bool {
	if old.IsFunctionLike != isFunctionLike || len(old.Params) != len(params) || len(old.Replacement) != len(replacement) {
		return false
	}

	for i := range params {
		if !old.Params[i].Equal(params[i]) {
			return false
		}
	}

	for i := range replacement {
		if old.Replacement[i].Klass != replacement[i].Klass || !old.Replacement[i].Text.Equal(replacement[i].Text) {
			return false
		}
	}

	return true
}

func (p *Preprocessor) handleUndef(src ppSource, directiveTok token.PPToken) {
	nameTok, _, _, ok := p.pull(src)
	if !ok || nameTok.Klass != token.Identifier {
		p.diags.Errorf(anchorForTok(directiveTok), "expected macro name after #undef")
		p.skipLine(src)

		return
	}

	p.macros.undef(nameTok.Text)
	p.sink.OnUndefDirective(nameTok)
	p.skipLine(src)
}

func (p *Preprocessor) handleIfdef(src ppSource, directiveTok token.PPToken, isNDef bool) {
	outerActive := p.condActive()

	nameTok, _, _, ok := p.pull(src)
	if !ok || nameTok.Klass != token.Identifier {
		p.diags.Errorf(anchorForTok(directiveTok), "expected macro name after #%s", directiveTok.Text.String())
		p.skipLine(src)
		p.pushCond(outerActive, false)

		return
	}

	p.sink.OnIfDefDirective(nameTok, isNDef)
	p.skipLine(src)

	defined := p.macros.isDefined(nameTok.Text)
	if isNDef {
		defined = !defined
	}

	p.pushCond(outerActive, defined)
}

func (p *Preprocessor) handleIf(src ppSource, directiveTok token.PPToken) {
	outerActive := p.condActive()
	tail := p.readDirectiveTail(src)

	cond := false
	if outerActive {
		cond = p.evalDirectiveTail(tail, directiveTok) != 0
	}

	p.pushCond(outerActive, cond)
}

func (p *Preprocessor) handleElif(src ppSource, directiveTok token.PPToken) {
	tail := p.readDirectiveTail(src)

	if len(p.cond) == 0 {
		p.diags.Errorf(anchorForTok(directiveTok), "#elif without #if")
		return
	}

	top := p.cond[len(p.cond)-1]
	if top.seenElse {
		p.diags.Errorf(anchorForTok(directiveTok), "#elif after #else")
		return
	}

	if top.seenActiveBranch || !top.outerActive {
		top.active = false
		return
	}

	cond := p.evalDirectiveTail(tail, directiveTok) != 0
	top.active = cond

	if cond {
		top.seenActiveBranch = true
	}
}

func (p *Preprocessor) handleElse(src ppSource, directiveTok token.PPToken) {
	p.skipLine(src)

	if len(p.cond) == 0 {
		p.diags.Errorf(anchorForTok(directiveTok), "#else without #if")
		return
	}

	top := p.cond[len(p.cond)-1]
	if top.seenElse {
		p.diags.Errorf(anchorForTok(directiveTok), "duplicate #else")
		return
	}

	top.seenElse = true

	if top.seenActiveBranch || !top.outerActive {
		top.active = false
	} else {
		top.active = true
		top.seenActiveBranch = true
	}
}

func (p *Preprocessor) handleEndif(src ppSource, directiveTok token.PPToken) {
	p.skipLine(src)

	if len(p.cond) == 0 {
		p.diags.Errorf(anchorForTok(directiveTok), "#endif without #if")
		return
	}

	p.cond = p.cond[:len(p.cond)-1]
}

// evalDirectiveTail resolves any "defined" operator uses against the current
// macro table (without macro-expanding their operand), macro-expands what
// remains, and evaluates the result as a constant integer expression.
func (p *Preprocessor) evalDirectiveTail(tail []token.PPToken, directiveTok token.PPToken) int64 {
	resolved := p.resolveDefinedOperator(tail)
	expanded := p.expandTokenList(resolved)

	return evalConstExpr(expanded, p.diags, anchorForTok(directiveTok))
}

func (p *Preprocessor) resolveDefinedOperator(tail []token.PPToken) []token.PPToken {
	var out []token.PPToken

	for i := 0; i < len(tail); i++ {
		t := tail[i]

		if t.Klass != token.Identifier || t.Text.String() != "defined" {
			out = append(out, t)
			continue
		}

		var name token.PPToken

		switch {
		case i+3 < len(tail) && tail[i+1].Klass == token.LeftParen && tail[i+2].Klass == token.Identifier && tail[i+3].Klass == token.RightParen:
			name = tail[i+2]
			i += 3
		case i+1 < len(tail) && tail[i+1].Klass == token.Identifier:
			name = tail[i+1]
			i++
		default:
			p.diags.Errorf(anchorForTok(t), "expected identifier after 'defined'")
			continue
		}

		lit := t
		lit.Klass = token.IntConstant

		if p.macros.isDefined(name.Text) {
			lit.Text = p.atoms.GetAtom("1")
		} else {
			lit.Text = p.atoms.GetAtom("0")
		}

		out = append(out, lit)
	}

	return out
}
