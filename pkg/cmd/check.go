package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/shaderlang/glslfrontend/pkg/compiler"
	"github.com/spf13/cobra"
)

// checkCmd batch-validates one or more shader files, printing a one-line
// summary per file rather than compile's verbose per-diagnostic report.
// Grounded on the teacher's pkg/cmd/check.go (a separate subcommand from
// compile, accepting multiple input files and reporting pass/fail per
// file) with the trace/binary-file plumbing dropped: this frontend has no
// execution trace to check a constraint set against, only source text.
var checkCmd = &cobra.Command{
	Use:   "check [flags] shader_file...",
	Short: "check one or more shader files for diagnostics without printing them.",
	Long:  "Check compiles each given shader file and prints a pass/fail summary, exiting non-zero if any file produced an error diagnostic.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := compiler.CompilationConfig{
			MaxIncludeDepth: GetInt(cmd, "max-include-depth"),
			IncludePaths:    GetStringArray(cmd, "include"),
		}

		anyErrors := false

		for _, path := range args {
			text, err := os.ReadFile(path)
			if err != nil {
				fmt.Printf("%s: %s\n", path, err)
				anyErrors = true

				continue
			}

			log.WithField("path", path).Debug("checking shader file")

			result := compiler.CompileSourceFile(config, path, string(text))

			if result.Diags.HasErrors() {
				anyErrors = true
				log.WithFields(log.Fields{"path": path, "diagnostics": len(result.Diags.Items())}).Debug("check failed")
				fmt.Printf("%s: FAIL (%d diagnostics)\n", path, len(result.Diags.Items()))
			} else {
				fmt.Printf("%s: OK\n", path)
			}
		}

		if anyErrors {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Int("max-include-depth", 0, "maximum #include nesting depth (0 selects the default of 16)")
	checkCmd.Flags().StringArrayP("include", "I", []string{}, "add a directory to the #include search path")
}
