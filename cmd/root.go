package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// Exit codes. ExitCodeGeneral covers anything that never reaches
// composeerr (flag parsing, usage errors); the rest map 1:1 onto the six
// taxonomy kinds so scripts can branch on failure class without parsing
// error text.
const (
	ExitCodeSuccess = 0
	ExitCodeGeneral = 1

	ExitCodeInvalidInput        = 10
	ExitCodeSpecUnresolved      = 11
	ExitCodePackageFetch        = 12
	ExitCodeIntrospectionFailed = 13
	ExitCodeCompositionFailed   = 14
	ExitCodePersistenceFailed   = 15
)

// rootCmd is the base command for the wasmcp composition tool.
var rootCmd = &cobra.Command{
	Use:   "wasmcp",
	Short: "Compose WebAssembly MCP components into a single deployable component",
	Long: `wasmcp builds a single WASM component from a transport, an ordered
list of middleware components, and a terminal handler, following the
composition pipeline described in the wasmcp framework.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// SetVersion sets the version reported by the root command's --version.
// Subcommands do not read it: compose takes the framework release version
// from its own --version flag.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits the process with a code derived
// from the returned error's composeerr.Kind, if any.
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "wasmcp %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newComponentCmd())
	rootCmd.AddCommand(newProfileCmd())
}

func exitCodeFor(err error) int {
	var ce *composeerr.Error
	if !errors.As(err, &ce) {
		return ExitCodeGeneral
	}
	switch ce.Kind {
	case composeerr.KindInvalidInput:
		return ExitCodeInvalidInput
	case composeerr.KindSpecUnresolved:
		return ExitCodeSpecUnresolved
	case composeerr.KindPackageFetch:
		return ExitCodePackageFetch
	case composeerr.KindIntrospectionFailed:
		return ExitCodeIntrospectionFailed
	case composeerr.KindCompositionFailed:
		return ExitCodeCompositionFailed
	case composeerr.KindPersistenceFailed:
		return ExitCodePersistenceFailed
	default:
		return ExitCodeGeneral
	}
}
