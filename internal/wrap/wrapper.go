package wrap

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/graph"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// wrappedPrefix marks a temp file as a wrapper-engine product rather than a
// user-supplied or fetched package artifact.
const wrappedPrefix = ".wrapped-"

// roleFingerprint returns the short, filename-safe token identifying which
// capability role a wrapped artifact came from, e.g. "tools" for
// RoleToolsCapability. It strips Role.String()'s "-capability" suffix so the
// cached filename reads ".wrapped-tools-<uuid>.wasm" rather than a bare
// ".wrapped-<uuid>.wasm" that loses which adapter produced it.
func roleFingerprint(role Role) string {
	return strings.TrimSuffix(role.String(), "-capability")
}

// introspector is the subset of *introspect.Introspector the wrapper needs;
// it matches internal/graph's introspector interface exactly so a Wrapper's
// introspector can be handed straight to graph.New.
type introspector interface {
	ImportsOf(artifact component.Artifact) (component.InterfaceSet, error)
	ExportsOf(artifact component.Artifact) (component.InterfaceSet, error)
}

// resolver is the subset of *resolve.Resolver the wrapper needs to locate a
// middleware adapter through the same spec-resolution path as user-supplied
// pipeline entries.
type resolver interface {
	Resolve(ctx context.Context, spec string) (component.Artifact, error)
}

// Wrapper is the Wrapper Engine: it classifies a pipeline entry's role and,
// for a bare capability component, composes it with the matching middleware
// adapter into a handler component.
type Wrapper struct {
	introspector introspector
	resolver     resolver
	cacheDir     string
}

// New builds a Wrapper. cacheDir is the dependency cache directory wrapped
// artifacts are written into.
func New(insp introspector, r resolver, cacheDir string) *Wrapper {
	return &Wrapper{introspector: insp, resolver: r, cacheDir: cacheDir}
}

// Classify reports the Role a pipeline entry plays, given its artifact's
// exports at the pipeline version.
func (w *Wrapper) Classify(ctx context.Context, path, version string) (Role, error) {
	exports, err := w.introspector.ExportsOf(component.Artifact{Path: path})
	if err != nil {
		return RoleUnknown, err
	}
	return Classify(exports, version), nil
}

// Resolve returns path unchanged if it is already a handler, or the path to
// a freshly wrapped handler component if it is a recognized capability. It
// fails with CompositionFailed/"not-a-handler" if the artifact is neither.
func (w *Wrapper) Resolve(ctx context.Context, path, version string) (string, error) {
	role, err := w.Classify(ctx, path, version)
	if err != nil {
		return "", err
	}
	switch role {
	case RoleHandler:
		return path, nil
	case RoleUnknown:
		return "", composeerr.Newf(composeerr.KindCompositionFailed, "not-a-handler",
			"component %q exports neither the handler interface nor a recognized capability interface", path).
			WithContext("path", path)
	default:
		return w.wrap(ctx, path, role, version)
	}
}

// wrap composes the adapter matching role with the capability at
// capabilityPath into one handler component, writes it to the dependency
// cache, and returns its path.
func (w *Wrapper) wrap(ctx context.Context, capabilityPath string, role Role, version string) (string, error) {
	adapterName, capIface, ok := adapterFor(role, version)
	if !ok {
		return "", composeerr.Newf(composeerr.KindCompositionFailed, "not-a-handler",
			"no middleware adapter known for role %s", role)
	}

	adapterRef := component.FrameworkPackageRef(adapterName, version)
	adapterArtifact, err := w.resolver.Resolve(ctx, adapterRef.String())
	if err != nil {
		return "", err
	}

	g := graph.New(w.introspector)

	capPkg, err := g.AddPackage(capabilityPath)
	if err != nil {
		return "", err
	}
	capInst, err := g.Instantiate(capPkg)
	if err != nil {
		return "", err
	}
	capExport, err := g.AliasExport(capInst, capIface)
	if err != nil {
		return "", err
	}

	adapterPkg, err := g.AddPackage(adapterArtifact.Path)
	if err != nil {
		return "", err
	}
	adapterInst, err := g.Instantiate(adapterPkg)
	if err != nil {
		return "", err
	}
	if err := g.SetArgument(adapterInst, capIface, capExport); err != nil {
		return "", err
	}

	handlerIface := component.ServerHandlerInterface(version)
	handlerExport, err := g.AliasExport(adapterInst, handlerIface)
	if err != nil {
		return "", err
	}
	if err := g.ExportTerminal(handlerExport, handlerIface); err != nil {
		return "", err
	}

	encoded, err := g.Encode()
	if err != nil {
		return "", err
	}

	outPath := filepath.Join(w.cacheDir, wrappedPrefix+roleFingerprint(role)+"-"+uuid.NewString()+".wasm")
	if err := os.WriteFile(outPath, encoded, 0o644); err != nil {
		return "", composeerr.Wrap(composeerr.KindCompositionFailed, "write-wrapped", err,
			"failed to write wrapped component")
	}
	logging.Debug("wrap", "wrapped %s component %q as %q", role, capabilityPath, outPath)
	return outPath, nil
}
