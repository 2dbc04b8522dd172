// Command glslc is the standalone GLSL front-end binary: it tokenizes,
// preprocesses, parses and type-checks shader sources, reporting structured
// diagnostics without generating any target-specific code (pkg/compiler
// drives the pipeline; pkg/cmd builds the cobra command tree over it).
package main

import "github.com/shaderlang/glslfrontend/pkg/cmd"

func main() {
	cmd.Execute()
}
