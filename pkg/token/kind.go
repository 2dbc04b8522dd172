// Package token defines the closed set of PP-token kinds, GLSL keywords,
// punctuation, and builtin scalar/vector/matrix/sampler type names as single
// schema tables, per spec section 9's "closed tag universe" design note:
// one enum, one exhaustive switch, no open inheritance. The Tokenizer,
// Preprocessor and Parser all dispatch on Kind rather than on raw text.
package token

// Kind is the closed set of PP-token/SyntaxToken kinds.
type Kind uint16

const (
	// EOF marks the end of a token stream.
	EOF Kind = iota
	// Unknown is emitted for a byte the tokenizer cannot classify, to
	// guarantee forward progress (spec section 4.4).
	Unknown
	// Identifier is any name not recognized as a keyword or type name.
	Identifier
	// TypeName is a builtin scalar/vector/matrix/sampler type keyword (e.g.
	// "vec3", "sampler2D"). User struct/interface-block names remain plain
	// Identifiers; the type checker, not the tokenizer, resolves those.
	TypeName
	// IntConstant, UintConstant, FloatConstant, DoubleConstant are numeric
	// literals, classified by suffix/format at tokenize time.
	IntConstant
	UintConstant
	FloatConstant
	DoubleConstant
	// BoolConstant covers the "true"/"false" literals.
	BoolConstant
	// HeaderName is a "..."-or-<...>-quoted #include argument, only produced
	// while the preprocessor is expecting one (spec section 4.4).
	HeaderName
	// PPIdentifier is used transiently inside #if expressions for names the
	// preprocessor could not resolve as a macro; it is never seen past the
	// preprocessor.
	PPIdentifier

	firstPunctuation
	LeftParen Kind = iota + firstPunctuation - 1
	RightParen
	LeftBracket
	RightBracket
	LeftBrace
	RightBrace
	Dot
	Comma
	Colon
	Semicolon
	Plus
	Dash
	Star
	Slash
	Percent
	Amp
	Bar
	Caret
	Bang
	Tilde
	Question
	Equal
	Less
	Greater
	PlusPlus
	MinusMinus
	LeftShift
	RightShift
	LessEqual
	GreaterEqual
	EqualEqual
	BangEqual
	AmpAmp
	BarBar
	CaretCaret
	PlusEqual
	MinusEqual
	StarEqual
	SlashEqual
	PercentEqual
	LeftShiftEqual
	RightShiftEqual
	AmpEqual
	BarEqual
	CaretEqual
	Hash
	HashHash
	lastPunctuation

	firstKeyword
	KwConst Kind = iota + firstKeyword - 1
	KwUniform
	KwBuffer
	KwShared
	KwAttribute
	KwVarying
	KwIn
	KwOut
	KwInout
	KwStruct
	KwVoid
	KwIf
	KwElse
	KwFor
	KwWhile
	KwDo
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwDiscard
	KwReturn
	KwPrecision
	KwHighp
	KwMediump
	KwLowp
	KwFlat
	KwSmooth
	KwNoperspective
	KwLayout
	KwInvariant
	KwPrecise
	KwCentroid
	KwPatch
	KwSubroutine
	lastKeyword
)

// String renders a Kind for diagnostics and debugging (spec section 9's
// dumpTokens option).
func (k Kind) String() string {
	if s, ok := punctuationText[k]; ok {
		return s
	}

	if s, ok := keywordText[k]; ok {
		return s
	}

	switch k {
	case EOF:
		return "<eof>"
	case Unknown:
		return "<unknown>"
	case Identifier:
		return "<identifier>"
	case TypeName:
		return "<type>"
	case IntConstant:
		return "<int>"
	case UintConstant:
		return "<uint>"
	case FloatConstant:
		return "<float>"
	case DoubleConstant:
		return "<double>"
	case BoolConstant:
		return "<bool>"
	case HeaderName:
		return "<header-name>"
	default:
		return "<?>"
	}
}

// IsPunctuation reports whether k is one of the fixed punctuator kinds.
func (k Kind) IsPunctuation() bool {
	return k > firstPunctuation && k < lastPunctuation
}

// IsKeyword reports whether k is one of the fixed (non-type) keyword kinds.
func (k Kind) IsKeyword() bool {
	return k > firstKeyword && k < lastKeyword
}

// PunctuationTable is the single schema table for punctuator text -> Kind.
// Entries are tried longest-match-first by the tokenizer (see
// pkg/lexer.sortedPunctuation), so "<<=" is recognized before "<<" before "<".
var PunctuationTable = []struct {
	Text string
	Kind Kind
}{
	{"<<=", LeftShiftEqual},
	{">>=", RightShiftEqual},
	{"==", EqualEqual},
	{"!=", BangEqual},
	{"<=", LessEqual},
	{">=", GreaterEqual},
	{"&&", AmpAmp},
	{"||", BarBar},
	{"^^", CaretCaret},
	{"++", PlusPlus},
	{"--", MinusMinus},
	{"<<", LeftShift},
	{">>", RightShift},
	{"+=", PlusEqual},
	{"-=", MinusEqual},
	{"*=", StarEqual},
	{"/=", SlashEqual},
	{"%=", PercentEqual},
	{"&=", AmpEqual},
	{"|=", BarEqual},
	{"^=", CaretEqual},
	{"##", HashHash},
	{"(", LeftParen},
	{")", RightParen},
	{"[", LeftBracket},
	{"]", RightBracket},
	{"{", LeftBrace},
	{"}", RightBrace},
	{".", Dot},
	{",", Comma},
	{":", Colon},
	{";", Semicolon},
	{"+", Plus},
	{"-", Dash},
	{"*", Star},
	{"/", Slash},
	{"%", Percent},
	{"&", Amp},
	{"|", Bar},
	{"^", Caret},
	{"!", Bang},
	{"~", Tilde},
	{"?", Question},
	{"=", Equal},
	{"<", Less},
	{">", Greater},
	{"#", Hash},
}

var punctuationText = func() map[Kind]string {
	m := make(map[Kind]string, len(PunctuationTable))
	for _, e := range PunctuationTable {
		m[e.Kind] = e.Text
	}

	return m
}()

// keywordTable is the single schema table for keyword text -> Kind, covering
// every keyword other than builtin type names (see BuiltinTypeNames) and the
// "true"/"false" literals (tokenized directly as BoolConstant).
var keywordTable = []struct {
	Text string
	Kind Kind
}{
	{"const", KwConst},
	{"uniform", KwUniform},
	{"buffer", KwBuffer},
	{"shared", KwShared},
	{"attribute", KwAttribute},
	{"varying", KwVarying},
	{"in", KwIn},
	{"out", KwOut},
	{"inout", KwInout},
	{"struct", KwStruct},
	{"void", KwVoid},
	{"if", KwIf},
	{"else", KwElse},
	{"for", KwFor},
	{"while", KwWhile},
	{"do", KwDo},
	{"switch", KwSwitch},
	{"case", KwCase},
	{"default", KwDefault},
	{"break", KwBreak},
	{"continue", KwContinue},
	{"discard", KwDiscard},
	{"return", KwReturn},
	{"precision", KwPrecision},
	{"highp", KwHighp},
	{"mediump", KwMediump},
	{"lowp", KwLowp},
	{"flat", KwFlat},
	{"smooth", KwSmooth},
	{"noperspective", KwNoperspective},
	{"layout", KwLayout},
	{"invariant", KwInvariant},
	{"precise", KwPrecise},
	{"centroid", KwCentroid},
	{"patch", KwPatch},
	{"subroutine", KwSubroutine},
}

var keywordText = func() map[Kind]string {
	m := make(map[Kind]string, len(keywordTable))
	for _, e := range keywordTable {
		m[e.Kind] = e.Text
	}

	return m
}()

// Keywords maps keyword spelling to Kind, for the tokenizer's identifier
// classification step.
var Keywords = func() map[string]Kind {
	m := make(map[string]Kind, len(keywordTable))
	for _, e := range keywordTable {
		m[e.Text] = e.Kind
	}

	return m
}()

// BuiltinTypeNames is the schema table of builtin scalar/vector/matrix/
// sampler type keywords recognized directly by the tokenizer as TypeName
// tokens (spec section 4.1's "array/struct interning" and section 4.9
// operate over these plus user struct/interface-block names).
var BuiltinTypeNames = map[string]bool{
	"bool": true, "int": true, "uint": true, "float": true, "double": true,
	"vec2": true, "vec3": true, "vec4": true,
	"ivec2": true, "ivec3": true, "ivec4": true,
	"uvec2": true, "uvec3": true, "uvec4": true,
	"bvec2": true, "bvec3": true, "bvec4": true,
	"dvec2": true, "dvec3": true, "dvec4": true,
	"mat2": true, "mat3": true, "mat4": true,
	"mat2x2": true, "mat2x3": true, "mat2x4": true,
	"mat3x2": true, "mat3x3": true, "mat3x4": true,
	"mat4x2": true, "mat4x3": true, "mat4x4": true,
	"sampler2D": true, "sampler3D": true, "samplerCube": true,
	"sampler2DArray": true, "samplerCubeArray": true,
	"sampler2DShadow": true, "sampler2DArrayShadow": true,
	"samplerCubeShadow": true,
}
