package resolve

import (
	"context"
	"os"
	"path/filepath"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/internal/pkgclient"
	"github.com/wasmcp/wasmcp/internal/store"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// maxAliasDepth bounds alias-chain recursion against cyclic or runaway
// configuration.
const maxAliasDepth = 16

// packages fetches component binaries; store resolves aliases against the
// configuration document.
type packages interface {
	ResolveLatest(ctx context.Context, namespace, pkg string) (string, error)
	Fetch(ctx context.Context, namespace, pkg, version string) (string, error)
	FetchMany(ctx context.Context, refs []component.RegistryRef) (map[string]string, error)
}

type aliases interface {
	GetComponent(alias string) (string, bool, error)
}

// Resolver is the Spec Resolver: it turns a local path, a configured alias,
// or a registry reference into a local artifact path, following alias
// chains and fetching registry packages as needed.
type Resolver struct {
	store    aliases
	packages packages
}

// New builds a Resolver over a configuration store and a package client.
func New(s *store.Store, pc *pkgclient.Client) *Resolver {
	return &Resolver{store: s, packages: pc}
}

// Resolve maps spec to a canonical local artifact. Resolution is
// idempotent; its only side effects are network requests and cache writes
// made through the package client.
func (r *Resolver) Resolve(ctx context.Context, spec string) (component.Artifact, error) {
	return r.resolve(ctx, spec, spec, make(map[string]bool), 0)
}

// resolve walks spec's alias chain (if any) down to either a local path or
// a registry reference. originalSpec is the caller-supplied text, kept for
// error context across alias recursion; visited and depth guard against
// cyclic or runaway alias chains.
func (r *Resolver) resolve(ctx context.Context, spec, originalSpec string, visited map[string]bool, depth int) (component.Artifact, error) {
	ref, err := r.resolveRef(ctx, spec, originalSpec, visited, depth)
	if err != nil {
		return component.Artifact{}, err
	}
	if ref.artifact != nil {
		return *ref.artifact, nil
	}
	return r.fetchRef(ctx, ref.registryRef, originalSpec)
}

// resolvedRef is the outcome of walking one spec's alias chain: either a
// fully resolved local artifact, or a registry reference still needing a
// fetch. Exactly one field is set.
type resolvedRef struct {
	artifact    *component.Artifact
	registryRef component.RegistryRef
}

// resolveRef walks spec's alias chain to either a local artifact (done) or
// a registry reference (still needing a fetch), without performing that
// fetch itself. This split lets ResolveMany batch every pending fetch
// across many specs into a single bounded-concurrency call.
func (r *Resolver) resolveRef(ctx context.Context, spec, originalSpec string, visited map[string]bool, depth int) (resolvedRef, error) {
	if looksLocal(spec) {
		artifact, err := r.resolveLocal(spec, originalSpec)
		if err != nil {
			return resolvedRef{}, err
		}
		return resolvedRef{artifact: &artifact}, nil
	}

	if visited[spec] {
		return resolvedRef{}, composeerr.Newf(composeerr.KindSpecUnresolved, "cycle",
			"alias cycle detected at %q while resolving %q", spec, originalSpec).
			WithContext("spec", originalSpec).WithContext("alias", spec)
	}
	if depth > maxAliasDepth {
		return resolvedRef{}, composeerr.Newf(composeerr.KindSpecUnresolved, "alias-depth",
			"alias chain for %q exceeds max depth %d", originalSpec, maxAliasDepth).
			WithContext("spec", originalSpec)
	}

	target, found, err := r.store.GetComponent(spec)
	if err != nil {
		return resolvedRef{}, err
	}
	if found {
		visited[spec] = true
		logging.Debug("resolve", "alias %q -> %q", spec, target)
		return r.resolveRef(ctx, target, originalSpec, visited, depth+1)
	}

	namespace, pkg, version, ok := parseRegistryRef(spec)
	if !ok {
		return resolvedRef{}, composeerr.Newf(composeerr.KindSpecUnresolved, "unrecognized",
			"%q is neither a local path, a known alias, nor a registry reference", spec).
			WithContext("spec", originalSpec)
	}
	if version == "" {
		resolved, err := r.packages.ResolveLatest(ctx, namespace, pkg)
		if err != nil {
			return resolvedRef{}, err
		}
		version = resolved
	}
	return resolvedRef{registryRef: component.RegistryRef{Namespace: namespace, Package: pkg, Version: version}}, nil
}

// fetchRef performs the single-spec fetch for a registry reference already
// resolved by resolveRef.
func (r *Resolver) fetchRef(ctx context.Context, ref component.RegistryRef, originalSpec string) (component.Artifact, error) {
	path, err := r.packages.Fetch(ctx, ref.Namespace, ref.Package, ref.Version)
	if err != nil {
		return component.Artifact{}, err
	}
	return component.Artifact{Path: path}, nil
}

// resolveLocal canonicalizes spec with filepath.Abs then filepath.EvalSymlinks,
// so the returned artifact path and any later cache/dedup comparisons see
// the real file regardless of symlinks. Any error names originalSpec, the
// caller-supplied text, rather than the canonicalized path.
func (r *Resolver) resolveLocal(spec, originalSpec string) (component.Artifact, error) {
	abs, err := filepath.Abs(spec)
	if err != nil {
		return component.Artifact{}, composeerr.Wrap(composeerr.KindSpecUnresolved, "path-missing", err,
			"failed to canonicalize local path "+originalSpec)
	}
	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return component.Artifact{}, composeerr.Newf(composeerr.KindSpecUnresolved, "path-missing",
			"local component not found at %s", originalSpec).WithContext("path", originalSpec)
	}
	info, err := os.Stat(canonical)
	if err != nil || info.IsDir() {
		return component.Artifact{}, composeerr.Newf(composeerr.KindSpecUnresolved, "path-missing",
			"local component not found at %s", originalSpec).WithContext("path", originalSpec)
	}
	return component.Artifact{Path: canonical}, nil
}

// ResolveMany resolves every spec in specs, batching any registry fetches
// the alias chains bottom out in through the package client's bounded
// concurrent fetch rather than one request per spec. Per-spec alias
// resolution (cheap, and the only place that needs strict ordering for
// error attribution) still runs sequentially; only the network fetch step
// is parallelized. A failure while walking specs[i] is annotated with that
// index via composeerr.AnnotateIndex; a failure of the batched fetch is
// returned as FetchMany reports it, without an index.
func (r *Resolver) ResolveMany(ctx context.Context, specs []string) ([]component.Artifact, error) {
	results := make([]component.Artifact, len(specs))
	pending := make(map[string]component.RegistryRef) // ref.String() -> ref
	pendingIdx := make(map[int]string)                // index into results -> ref.String()

	for i, spec := range specs {
		ref, err := r.resolveRef(ctx, spec, spec, make(map[string]bool), 0)
		if err != nil {
			return nil, composeerr.AnnotateIndex(err, i)
		}
		if ref.artifact != nil {
			results[i] = *ref.artifact
			continue
		}
		key := ref.registryRef.String()
		pending[key] = ref.registryRef
		pendingIdx[i] = key
	}

	if len(pending) == 0 {
		return results, nil
	}

	refs := make([]component.RegistryRef, 0, len(pending))
	for _, ref := range pending {
		refs = append(refs, ref)
	}
	fetched, err := r.packages.FetchMany(ctx, refs)
	if err != nil {
		return nil, err
	}
	for i, key := range pendingIdx {
		results[i] = component.Artifact{Path: fetched[key]}
	}
	return results, nil
}
