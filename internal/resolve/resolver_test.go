package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
)

type fakeAliases map[string]string

func (f fakeAliases) GetComponent(alias string) (string, bool, error) {
	spec, ok := f[alias]
	return spec, ok, nil
}

type fakePackages struct {
	latest         map[string]string // "namespace:package" -> version
	fetch          map[string]string // "namespace:package@version" -> path
	fetchManyCalls int
}

func (f *fakePackages) ResolveLatest(ctx context.Context, namespace, pkg string) (string, error) {
	v, ok := f.latest[namespace+":"+pkg]
	if !ok {
		return "", composeerr.New(composeerr.KindPackageFetch, "no-versions", "no versions")
	}
	return v, nil
}

func (f *fakePackages) Fetch(ctx context.Context, namespace, pkg, version string) (string, error) {
	path, ok := f.fetch[namespace+":"+pkg+"@"+version]
	if !ok {
		return "", composeerr.New(composeerr.KindPackageFetch, "not-found", "not found")
	}
	return path, nil
}

func (f *fakePackages) FetchMany(ctx context.Context, refs []component.RegistryRef) (map[string]string, error) {
	f.fetchManyCalls++
	results := make(map[string]string, len(refs))
	for _, ref := range refs {
		path, err := f.Fetch(ctx, ref.Namespace, ref.Package, ref.Version)
		if err != nil {
			return nil, err
		}
		results[ref.String()] = path
	}
	return results, nil
}

func newTestResolver(a fakeAliases, p *fakePackages) *Resolver {
	return &Resolver{store: a, packages: p}
}

func TestResolveLocalPath(t *testing.T) {
	dir := t.TempDir()
	comp := filepath.Join(dir, "tool.wasm")
	if err := os.WriteFile(comp, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestResolver(fakeAliases{}, &fakePackages{})
	artifact, err := r.Resolve(context.Background(), comp)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if artifact.Path != comp {
		t.Fatalf("got %q, want %q", artifact.Path, comp)
	}
}

func TestResolveLocalPathMissing(t *testing.T) {
	r := newTestResolver(fakeAliases{}, &fakePackages{})
	_, err := r.Resolve(context.Background(), "./does-not-exist.wasm")
	if err == nil {
		t.Fatal("expected error")
	}
	kind, ok := composeerr.KindOf(err)
	if !ok || kind != composeerr.KindSpecUnresolved {
		t.Fatalf("expected KindSpecUnresolved, got %v", kind)
	}
}

func TestResolveAliasChain(t *testing.T) {
	dir := t.TempDir()
	comp := filepath.Join(dir, "tool.wasm")
	if err := os.WriteFile(comp, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	aliases := fakeAliases{"my-tools": "other-alias", "other-alias": comp}
	r := newTestResolver(aliases, &fakePackages{})
	artifact, err := r.Resolve(context.Background(), "my-tools")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if artifact.Path != comp {
		t.Fatalf("got %q, want %q", artifact.Path, comp)
	}
}

func TestResolveAliasCycle(t *testing.T) {
	aliases := fakeAliases{"a": "b", "b": "a"}
	r := newTestResolver(aliases, &fakePackages{})
	_, err := r.Resolve(context.Background(), "a")
	if err == nil {
		t.Fatal("expected cycle error")
	}
	kind, ok := composeerr.KindOf(err)
	if !ok || kind != composeerr.KindSpecUnresolved {
		t.Fatalf("expected KindSpecUnresolved, got %v", kind)
	}
}

func TestResolveAliasDepthLimit(t *testing.T) {
	aliases := fakeAliases{}
	prev := "leaf:pkg"
	for i := 0; i < 20; i++ {
		name := "alias" + string(rune('a'+i))
		aliases[name] = prev
		prev = name
	}
	r := newTestResolver(aliases, &fakePackages{})
	_, err := r.Resolve(context.Background(), prev)
	if err == nil {
		t.Fatal("expected depth error")
	}
}

func TestResolveRegistryReferenceWithVersion(t *testing.T) {
	pkgs := &fakePackages{fetch: map[string]string{"acme:tools@1.0.0": "/cache/acme_tools@1.0.0.wasm"}}
	r := newTestResolver(fakeAliases{}, pkgs)
	artifact, err := r.Resolve(context.Background(), "acme:tools@1.0.0")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if artifact.Path != "/cache/acme_tools@1.0.0.wasm" {
		t.Fatalf("got %q", artifact.Path)
	}
}

func TestResolveRegistryReferenceLatest(t *testing.T) {
	pkgs := &fakePackages{
		latest: map[string]string{"acme:tools": "2.3.0"},
		fetch:  map[string]string{"acme:tools@2.3.0": "/cache/acme_tools@2.3.0.wasm"},
	}
	r := newTestResolver(fakeAliases{}, pkgs)
	artifact, err := r.Resolve(context.Background(), "acme:tools")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if artifact.Path != "/cache/acme_tools@2.3.0.wasm" {
		t.Fatalf("got %q", artifact.Path)
	}
}

func TestResolveUnrecognizedSpec(t *testing.T) {
	r := newTestResolver(fakeAliases{}, &fakePackages{})
	_, err := r.Resolve(context.Background(), "not-an-alias-or-ref")
	if err == nil {
		t.Fatal("expected error")
	}
	kind, ok := composeerr.KindOf(err)
	if !ok || kind != composeerr.KindSpecUnresolved {
		t.Fatalf("expected KindSpecUnresolved, got %v", kind)
	}
}

func TestResolveManyBatchesRegistryFetches(t *testing.T) {
	dir := t.TempDir()
	comp := filepath.Join(dir, "tool.wasm")
	if err := os.WriteFile(comp, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	pkgs := &fakePackages{
		fetch: map[string]string{
			"acme:tools@1.0.0":     "/cache/acme_tools@1.0.0.wasm",
			"acme:resources@2.0.0": "/cache/acme_resources@2.0.0.wasm",
		},
	}
	r := newTestResolver(fakeAliases{}, pkgs)

	artifacts, err := r.ResolveMany(context.Background(), []string{
		comp, "acme:tools@1.0.0", "acme:resources@2.0.0",
	})
	if err != nil {
		t.Fatalf("ResolveMany: %v", err)
	}
	if pkgs.fetchManyCalls != 1 {
		t.Fatalf("expected exactly 1 FetchMany call, got %d", pkgs.fetchManyCalls)
	}
	want := []string{comp, "/cache/acme_tools@1.0.0.wasm", "/cache/acme_resources@2.0.0.wasm"}
	for i, w := range want {
		if artifacts[i].Path != w {
			t.Fatalf("artifact %d: got %q, want %q", i, artifacts[i].Path, w)
		}
	}
}

func TestResolveManyDedupesIdenticalRefs(t *testing.T) {
	pkgs := &fakePackages{fetch: map[string]string{"acme:tools@1.0.0": "/cache/acme_tools@1.0.0.wasm"}}
	r := newTestResolver(fakeAliases{}, pkgs)

	artifacts, err := r.ResolveMany(context.Background(), []string{"acme:tools@1.0.0", "acme:tools@1.0.0"})
	if err != nil {
		t.Fatalf("ResolveMany: %v", err)
	}
	if artifacts[0].Path != artifacts[1].Path {
		t.Fatalf("expected both entries to resolve to the same path, got %q and %q", artifacts[0].Path, artifacts[1].Path)
	}
}

func TestResolveManyAnnotatesFailingIndex(t *testing.T) {
	r := newTestResolver(fakeAliases{}, &fakePackages{})
	_, err := r.ResolveMany(context.Background(), []string{"acme:tools@1.0.0", "not-an-alias-or-ref"})
	if err == nil {
		t.Fatal("expected error")
	}
	kind, ok := composeerr.KindOf(err)
	if !ok || kind != composeerr.KindSpecUnresolved {
		t.Fatalf("expected KindSpecUnresolved, got %v", kind)
	}
	var ce *composeerr.Error
	if !errors.As(err, &ce) {
		t.Fatal("expected *composeerr.Error")
	}
	if ce.Context["component-index"] != "1" {
		t.Fatalf("expected component-index=1, got %q", ce.Context["component-index"])
	}
}
