// Package cmd implements the glslc command-line tool: a cobra command tree
// over pkg/compiler, grounded on the teacher's pkg/cmd/root.go (a bare
// rootCmd with a --version flag and child commands registered in init,
// Execute called once from main).
package cmd

import (
	"fmt"
	"os"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Version is filled in by the release build via -ldflags; "go run"/"go
// install" builds fall back to runtime/debug.ReadBuildInfo.
var Version string

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "glslc",
	Short: "A standalone GLSL front end: preprocess, parse and type-check shader sources.",
	Long:  "glslc tokenizes, preprocesses, parses and type-checks GLSL shader source files, reporting diagnostics without generating any target-specific code.",
	Run: func(cmd *cobra.Command, args []string) {
		if v, _ := cmd.Flags().GetBool("version"); v {
			printVersion()
		}
	},
}

func printVersion() {
	fmt.Print("glslc ")

	switch {
	case Version != "":
		fmt.Print(Version)
	default:
		if info, ok := debug.ReadBuildInfo(); ok {
			fmt.Print(info.Main.Version)
		} else {
			fmt.Print("(unknown version)")
		}
	}

	fmt.Println()
}

// Execute runs the root command; it is called once from main.main.
func Execute() {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostic logging")
	rootCmd.Flags().Bool("version", false, "print version information")

	cobra.OnInitialize(func() {
		log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	})
}
