package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/graph"
	"github.com/wasmcp/wasmcp/internal/introspect"
	"github.com/wasmcp/wasmcp/internal/pkgclient"
	"github.com/wasmcp/wasmcp/internal/resolve"
	"github.com/wasmcp/wasmcp/internal/store"
	"github.com/wasmcp/wasmcp/internal/validate"
	"github.com/wasmcp/wasmcp/internal/wrap"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// resolver is the subset of *resolve.Resolver the pipeline needs.
type resolver interface {
	Resolve(ctx context.Context, spec string) (component.Artifact, error)
	ResolveMany(ctx context.Context, specs []string) ([]component.Artifact, error)
}

// capabilityWrapper is the subset of *wrap.Wrapper the pipeline needs.
type capabilityWrapper interface {
	ResolveAll(ctx context.Context, paths []string, version string) ([]string, error)
}

// introspector matches internal/graph's unexported introspector interface
// structurally, so run can hand either a real *introspect.Introspector or a
// test fake straight to graph.BuildPipeline without graph exporting the
// interface's name.
type introspector interface {
	ImportsOf(artifact component.Artifact) (component.InterfaceSet, error)
	ExportsOf(artifact component.Artifact) (component.InterfaceSet, error)
}

// Compose runs the full pipeline invocation contract: validate the request,
// resolve every component spec to a local artifact, wrap any capability
// components into handlers, build and encode the composition graph, then
// atomically write the result to req.Output. It wires the concrete Spec
// Resolver, Package Client, Introspector, and Wrapper Engine and delegates
// the rest to run.
func Compose(ctx context.Context, req Request, opts Options) (Result, error) {
	if err := validate.Transport(req.Transport); err != nil {
		return Result{}, err
	}
	outputPath, err := validate.OutputPath(req.Output, req.Overwrite)
	if err != nil {
		return Result{}, err
	}
	if opts.CacheDir == "" {
		return Result{}, composeerr.New(composeerr.KindInvalidInput, "cache-dir",
			"Options.CacheDir is required")
	}
	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = store.GetDefaultConfigPathOrPanic()
	}
	if err := os.MkdirAll(opts.CacheDir, 0o755); err != nil {
		return Result{}, composeerr.Wrap(composeerr.KindPersistenceFailed, "mkdir", err,
			"failed to create cache directory "+opts.CacheDir)
	}

	st := store.NewStore(configPath)
	pc, err := pkgclient.New(pkgclient.Config{CacheDir: opts.CacheDir})
	if err != nil {
		return Result{}, err
	}
	res := resolve.New(st, pc)
	insp := introspect.New()
	wrapper := wrap.New(insp, res, opts.CacheDir)

	return run(ctx, req, outputPath, res, wrapper, insp)
}

// run implements the resolve -> wrap -> build -> encode -> write sequence
// over injected dependencies, independent of how Compose constructs them.
func run(ctx context.Context, req Request, outputPath string, res resolver, wrapper capabilityWrapper, insp introspector) (Result, error) {
	terminalSpec := req.Terminal
	if terminalSpec == "" {
		terminalSpec = defaultTerminalSpec(req.Version)
	}
	terminalArtifact, err := res.Resolve(ctx, terminalSpec)
	if err != nil {
		return Result{}, err
	}

	transportArtifact, err := res.Resolve(ctx, transportSpec(req.Transport, req.Version))
	if err != nil {
		return Result{}, err
	}

	// Registry-backed middleware specs are fetched concurrently through
	// ResolveMany; only the wrap/wire stages that follow genuinely need to
	// run in pipeline order.
	middlewareArtifacts, err := res.ResolveMany(ctx, req.Middlewares)
	if err != nil {
		return Result{}, err
	}
	middlewarePaths := make([]string, len(middlewareArtifacts))
	for i, a := range middlewareArtifacts {
		middlewarePaths[i] = a.Path
	}

	wrappedMiddlewares, err := wrapper.ResolveAll(ctx, middlewarePaths, req.Version)
	if err != nil {
		return Result{}, err
	}

	entries := make([]graph.MiddlewareEntry, len(wrappedMiddlewares))
	for i, path := range wrappedMiddlewares {
		entries[i] = graph.MiddlewareEntry{Path: path, Wrapped: path != middlewarePaths[i]}
	}

	g, summaries, err := graph.BuildPipeline(insp, graph.PipelineInput{
		Middlewares:   entries,
		Terminal:      terminalArtifact.Path,
		Transport:     transportArtifact.Path,
		TransportKind: req.Transport,
		Version:       req.Version,
	})
	if err != nil {
		return Result{}, err
	}

	encoded, err := g.Encode()
	if err != nil {
		return Result{}, err
	}

	if err := writeOutput(outputPath, encoded); err != nil {
		return Result{}, err
	}

	logging.Info("compose", "composed %d middleware(s) + %s transport -> %s",
		len(req.Middlewares), req.Transport, outputPath)
	return Result{OutputPath: outputPath, Instances: summaries}, nil
}

// writeOutput atomically writes data to path: a temp file in the same
// directory, then rename over the destination, mirroring internal/store's
// write-to-temp-then-rename idiom so a cancelled or failed compose never
// leaves a partial file at the declared output path.
func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "write", err,
			"failed to create temporary output file")
	}
	tmpPath := tmp.Name()
	removeTmp := true
	defer func() {
		if removeTmp {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "write", err,
			"failed to write encoded component")
	}
	if err := tmp.Close(); err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "write", err,
			"failed to flush encoded component")
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "rename", err,
			fmt.Sprintf("failed to atomically replace %s", path))
	}
	removeTmp = false
	return nil
}
