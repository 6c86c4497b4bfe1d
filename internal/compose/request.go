package compose

import "github.com/wasmcp/wasmcp/internal/graph"

// Request is the pipeline invocation contract's argument list.
type Request struct {
	// Transport is "http" or "stdio".
	Transport string
	// Version is the framework release version string every framework
	// dependency (transport, terminal, middleware adapters) is pinned to.
	Version string
	// Middlewares is the ordered, innermost-last list of user-supplied
	// component specs (local paths, aliases, or registry references).
	Middlewares []string
	// Terminal is a component spec overriding the default framework
	// method-not-found handler. Empty means use the default.
	Terminal string
	// Output is the destination path for the encoded component.
	Output string
	// Overwrite permits replacing an existing file at Output.
	Overwrite bool
}

// Result is Compose's successful outcome.
type Result struct {
	// OutputPath is the canonicalized absolute path the component was
	// written to.
	OutputPath string
	// Instances names every package the graph instantiated and the
	// pipeline role it played, for caller-facing diagnostics.
	Instances []graph.InstanceSummary
}

// Options configures the supporting infrastructure Compose builds for one
// call: where the configuration document lives and where fetched/wrapped
// artifacts are cached.
type Options struct {
	// ConfigPath is the directory holding config.toml. Defaults to
	// store.GetDefaultConfigPathOrPanic() if empty.
	ConfigPath string
	// CacheDir is the dependency cache directory for fetched and wrapped
	// artifacts. Required.
	CacheDir string
}
