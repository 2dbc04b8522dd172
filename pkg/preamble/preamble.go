// Package preamble embeds the predefined macro source a CompilerInvocation
// adopts ahead of user source, mirroring the teacher's own
// //go:embed stdlib.lisp convention (pkg/corset/compiler.go) one directory
// level down so the embedded text can carry its own doc comment instead of
// living inline in pkg/compiler.
package preamble

import _ "embed"

//go:embed stdlib.glsl
var Stdlib string
