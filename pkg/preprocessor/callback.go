package preprocessor

import "github.com/shaderlang/glslfrontend/pkg/token"

// PPCallback is the sink a consumer (typically the language-server layer)
// registers to observe preprocessor events as they happen, in emission
// order. Grounded on the teacher's visitor-style consumer interfaces (e.g.
// pkg/corset/compiler's SyntaxError accumulation passed by reference rather
// than returned in bulk), adapted into a push interface per spec section
// 6's PPCallback contract.
type PPCallback interface {
	// OnIncludeDirective fires once per #include, with the header-name token
	// as written (quoted or angled), before the include is resolved.
	OnIncludeDirective(header token.PPToken)
	// OnDefineDirective fires once per #define, after the macro is recorded.
	// params is nil for an object-like macro.
	OnDefineDirective(name token.PPToken, params []token.PPToken)
	// OnUndefDirective fires once per #undef, regardless of whether name was
	// actually defined.
	OnUndefDirective(name token.PPToken)
	// OnIfDefDirective fires for #ifdef and #ifndef; isNDef distinguishes them.
	OnIfDefDirective(name token.PPToken, isNDef bool)
	// OnEnterIncludedFile/OnExitIncludedFile bracket the tokens produced while
	// processing one #include'd file, including any files it in turn includes.
	OnEnterIncludedFile()
	OnExitIncludedFile()
	// OnMacroExpansion fires once per macro use, naming the identifier token
	// that triggered the expansion.
	OnMacroExpansion(use token.PPToken)
	// OnYieldToken fires once per final token emitted to the expanded stream,
	// after all expansion and conditional filtering. Primarily internal
	// bookkeeping; optional for downstream consumers.
	OnYieldToken(tok token.PPToken)
}

// NopCallback implements PPCallback with no-op methods. Embed it in a partial
// sink to avoid implementing methods the consumer does not care about.
type NopCallback struct{}

func (NopCallback) OnIncludeDirective(token.PPToken)          {}
func (NopCallback) OnDefineDirective(token.PPToken, []token.PPToken) {}
func (NopCallback) OnUndefDirective(token.PPToken)            {}
func (NopCallback) OnIfDefDirective(token.PPToken, bool)      {}
func (NopCallback) OnEnterIncludedFile()                      {}
func (NopCallback) OnExitIncludedFile()                       {}
func (NopCallback) OnMacroExpansion(token.PPToken)            {}
func (NopCallback) OnYieldToken(token.PPToken)                {}
