package compose

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/graph"
)

type fakeResolver map[string]component.Artifact

func (f fakeResolver) Resolve(ctx context.Context, spec string) (component.Artifact, error) {
	a, ok := f[spec]
	if !ok {
		return component.Artifact{}, composeerr.Newf(composeerr.KindSpecUnresolved, "not-found",
			"no fake artifact registered for spec %q", spec)
	}
	return a, nil
}

// ResolveMany resolves each spec sequentially, the same as the real
// resolver in the absence of any registry fetches, so tests can exercise
// run's call site without standing up a fetch-batching fake.
func (f fakeResolver) ResolveMany(ctx context.Context, specs []string) ([]component.Artifact, error) {
	results := make([]component.Artifact, len(specs))
	for i, spec := range specs {
		a, err := f.Resolve(ctx, spec)
		if err != nil {
			return nil, composeerr.AnnotateIndex(err, i)
		}
		results[i] = a
	}
	return results, nil
}

// passthroughWrapper returns its input paths unmodified, standing in for a
// wrap.Wrapper when a test doesn't exercise capability wrapping itself.
type passthroughWrapper struct{}

func (passthroughWrapper) ResolveAll(ctx context.Context, paths []string, version string) ([]string, error) {
	return paths, nil
}

type failingWrapper struct{ err error }

func (f failingWrapper) ResolveAll(ctx context.Context, paths []string, version string) ([]string, error) {
	return nil, f.err
}

type fakeIntrospector map[string]struct {
	imports component.InterfaceSet
	exports component.InterfaceSet
}

func (f fakeIntrospector) ImportsOf(artifact component.Artifact) (component.InterfaceSet, error) {
	return f[artifact.Path].imports, nil
}

func (f fakeIntrospector) ExportsOf(artifact component.Artifact) (component.InterfaceSet, error) {
	return f[artifact.Path].exports, nil
}

func writeFakeWasm(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("fake: "+name), 0o644))
	return path
}

func TestRunHTTPTransportWithOneMiddleware(t *testing.T) {
	dir := t.TempDir()
	version := "1.0.0"
	handlerIface := component.ServerHandlerInterface(version)

	terminalPath := writeFakeWasm(t, dir, "terminal.wasm")
	middlewarePath := writeFakeWasm(t, dir, "middleware.wasm")
	transportPath := writeFakeWasm(t, dir, "transport.wasm")
	outputPath := filepath.Join(dir, "out.wasm")

	res := fakeResolver{
		defaultTerminalSpec(version):   {Path: terminalPath},
		transportSpec("http", version): {Path: transportPath},
		"./middleware.wasm":             {Path: middlewarePath},
	}
	insp := fakeIntrospector{
		terminalPath:   {exports: component.NewInterfaceSet(handlerIface)},
		middlewarePath: {imports: component.NewInterfaceSet(handlerIface), exports: component.NewInterfaceSet(handlerIface)},
		transportPath:  {imports: component.NewInterfaceSet(handlerIface), exports: component.NewInterfaceSet(component.WASIHTTPHandler)},
	}

	req := Request{
		Transport:   "http",
		Version:     version,
		Middlewares: []string{"./middleware.wasm"},
		Output:      outputPath,
	}

	result, err := run(context.Background(), req, outputPath, res, passthroughWrapper{}, insp)
	require.NoError(t, err)
	require.Equal(t, outputPath, result.OutputPath)
	require.Equal(t, []graph.InstanceSummary{
		{Path: terminalPath, Role: graph.RoleTerminal},
		{Path: middlewarePath, Role: graph.RoleMiddleware},
		{Path: transportPath, Role: graph.RoleTransport},
	}, result.Instances)

	data, err := os.ReadFile(outputPath)
	require.NoError(t, err, "expected output file written")
	require.NotEmpty(t, data)
}

func TestRunEmptyMiddlewareListSucceeds(t *testing.T) {
	dir := t.TempDir()
	version := "1.0.0"
	handlerIface := component.ServerHandlerInterface(version)

	terminalPath := writeFakeWasm(t, dir, "terminal.wasm")
	transportPath := writeFakeWasm(t, dir, "transport.wasm")
	outputPath := filepath.Join(dir, "out.wasm")

	res := fakeResolver{
		defaultTerminalSpec(version):    {Path: terminalPath},
		transportSpec("stdio", version): {Path: transportPath},
	}
	insp := fakeIntrospector{
		terminalPath:  {exports: component.NewInterfaceSet(handlerIface)},
		transportPath: {imports: component.NewInterfaceSet(handlerIface), exports: component.NewInterfaceSet(component.WASICLIRun)},
	}

	req := Request{Transport: "stdio", Version: version, Output: outputPath}

	result, err := run(context.Background(), req, outputPath, res, passthroughWrapper{}, insp)
	require.NoError(t, err, "expected empty middleware list to succeed")
	require.Equal(t, []graph.InstanceSummary{
		{Path: terminalPath, Role: graph.RoleTerminal},
		{Path: transportPath, Role: graph.RoleTransport},
	}, result.Instances)
}

func TestRunPropagatesTerminalResolveError(t *testing.T) {
	res := fakeResolver{}
	insp := fakeIntrospector{}
	req := Request{Transport: "http", Version: "1.0.0", Output: "/tmp/out.wasm"}

	_, err := run(context.Background(), req, "/tmp/out.wasm", res, passthroughWrapper{}, insp)
	require.Error(t, err)
}

func TestRunAnnotatesFailingMiddlewareIndex(t *testing.T) {
	dir := t.TempDir()
	version := "1.0.0"
	terminalPath := writeFakeWasm(t, dir, "terminal.wasm")
	transportPath := writeFakeWasm(t, dir, "transport.wasm")

	res := fakeResolver{
		defaultTerminalSpec(version):   {Path: terminalPath},
		transportSpec("http", version): {Path: transportPath},
		// Neither middleware spec is registered, so resolution fails at the
		// first one, index 0.
	}
	insp := fakeIntrospector{}
	req := Request{
		Transport:   "http",
		Version:     version,
		Middlewares: []string{"./also-missing.wasm", "./good.wasm"},
		Output:      "/tmp/out.wasm",
	}

	_, err := run(context.Background(), req, "/tmp/out.wasm", res, passthroughWrapper{}, insp)
	require.Error(t, err)

	var ce *composeerr.Error
	require.True(t, errors.As(err, &ce), "expected *composeerr.Error, got %T", err)
	require.Equal(t, "0", ce.Context["component-index"])
}

func TestRunPropagatesWrapperFailure(t *testing.T) {
	dir := t.TempDir()
	version := "1.0.0"
	terminalPath := writeFakeWasm(t, dir, "terminal.wasm")
	transportPath := writeFakeWasm(t, dir, "transport.wasm")
	middlewarePath := writeFakeWasm(t, dir, "middleware.wasm")

	res := fakeResolver{
		defaultTerminalSpec(version):   {Path: terminalPath},
		transportSpec("http", version): {Path: transportPath},
		"./middleware.wasm":            {Path: middlewarePath},
	}
	insp := fakeIntrospector{}
	req := Request{
		Transport:   "http",
		Version:     version,
		Middlewares: []string{"./middleware.wasm"},
		Output:      "/tmp/out.wasm",
	}

	wantErr := composeerr.New(composeerr.KindCompositionFailed, "not-a-handler", "boom")
	_, err := run(context.Background(), req, "/tmp/out.wasm", res, failingWrapper{err: wantErr}, insp)
	require.ErrorIs(t, err, wantErr)
}
