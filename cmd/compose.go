package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wasmcp/wasmcp/internal/compose"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/store"
)

var (
	composeTransport  string
	composeVersion    string
	composeMiddleware []string
	composeTerminal   string
	composeOutput     string
	composeOverwrite  bool
	composeProfile    string
	composeConfigPath string
	composeCacheDir   string
)

func newComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Build a single component from a transport, middlewares, and a terminal handler",
		Long: `compose resolves each pipeline entry to a local artifact, wraps any
capability-only middleware with its matching protocol adapter, wires the
resulting graph innermost-to-outermost, and writes the encoded component
to --output.

Pipeline entries may be local paths, registered aliases, or registry
references (<namespace>:<package>@<version>). --profile loads a named
profile's middleware list and output path from the configuration store;
explicit flags still override them.`,
		RunE: runCompose,
	}

	cmd.Flags().StringVar(&composeTransport, "transport", "", `transport kind: "http" or "stdio"`)
	cmd.Flags().StringVar(&composeVersion, "version", "", "framework release version every dependency is pinned to")
	cmd.Flags().StringArrayVar(&composeMiddleware, "middleware", nil, "middleware component spec, repeatable, outermost first")
	cmd.Flags().StringVar(&composeTerminal, "terminal", "", "terminal handler spec (default: framework method-not-found handler)")
	cmd.Flags().StringVar(&composeOutput, "output", "", "output path for the encoded component")
	cmd.Flags().BoolVar(&composeOverwrite, "overwrite", false, "allow replacing an existing file at --output")
	cmd.Flags().StringVar(&composeProfile, "profile", "", "load middlewares and output from a named profile")
	cmd.Flags().StringVar(&composeConfigPath, "config-path", store.GetDefaultConfigPathOrPanic(), "configuration directory")
	cmd.Flags().StringVar(&composeCacheDir, "cache-dir", defaultCacheDir(), "dependency cache directory for fetched and wrapped artifacts")

	return cmd
}

func runCompose(cmd *cobra.Command, args []string) error {
	req := compose.Request{
		Transport:   composeTransport,
		Version:     composeVersion,
		Middlewares: composeMiddleware,
		Terminal:    composeTerminal,
		Output:      composeOutput,
		Overwrite:   composeOverwrite,
	}

	if composeProfile != "" {
		st := store.NewStore(composeConfigPath)
		resolved, err := st.ResolveProfile(composeProfile)
		if err != nil {
			return err
		}
		if len(req.Middlewares) == 0 {
			req.Middlewares = resolved.Components
		}
		if req.Output == "" {
			req.Output = resolved.Output
		}
	}

	if req.Output == "" {
		return composeerr.New(composeerr.KindInvalidInput, "output",
			"--output is required (directly or via --profile)")
	}

	result, err := compose.Compose(cmd.Context(), req, compose.Options{
		ConfigPath: composeConfigPath,
		CacheDir:   composeCacheDir,
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, result.OutputPath)
	for _, inst := range result.Instances {
		fmt.Fprintf(out, "  %s: %s\n", inst.Role, inst.Path)
	}
	return nil
}
