package store

import (
	"path/filepath"
	"testing"

	"github.com/wasmcp/wasmcp/internal/composeerr"
)

func TestComponentRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SetComponent("my-tools", "./tools.wasm"); err != nil {
		t.Fatalf("SetComponent: %v", err)
	}

	// A fresh Store over the same directory should see the persisted write.
	s2 := NewStore(dir)
	spec, ok, err := s2.GetComponent("my-tools")
	if err != nil {
		t.Fatalf("GetComponent: %v", err)
	}
	if !ok || spec != "./tools.wasm" {
		t.Fatalf("GetComponent = %q, %v", spec, ok)
	}

	names, err := s2.ListComponents()
	if err != nil || len(names) != 1 || names[0] != "my-tools" {
		t.Fatalf("ListComponents = %v, %v", names, err)
	}

	if err := s2.RemoveComponent("my-tools"); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if _, ok, _ := s2.GetComponent("my-tools"); ok {
		t.Fatal("expected component removed")
	}
}

func TestMissingDocumentYieldsEmptyStore(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(filepath.Join(dir, "does-not-exist-yet"))

	names, err := s.ListComponents()
	if err != nil {
		t.Fatalf("ListComponents on missing doc: %v", err)
	}
	if len(names) != 0 {
		t.Fatalf("expected empty, got %v", names)
	}
}

func TestResolveProfileInheritance(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SetProfile("base", ProfileRecord{
		Components: []string{"a", "b"},
		Output:     "base-out.wasm",
	}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProfile("child", ProfileRecord{
		Base:       "base",
		Components: []string{"c"},
		Output:     "child-out.wasm",
	}); err != nil {
		t.Fatal(err)
	}

	resolved, err := s.ResolveProfile("child")
	if err != nil {
		t.Fatalf("ResolveProfile: %v", err)
	}
	want := []string{"a", "b", "c"}
	if len(resolved.Components) != len(want) {
		t.Fatalf("got %v, want %v", resolved.Components, want)
	}
	for i := range want {
		if resolved.Components[i] != want[i] {
			t.Fatalf("got %v, want %v", resolved.Components, want)
		}
	}
	if resolved.Output != "child-out.wasm" {
		t.Fatalf("expected child's own output, got %q", resolved.Output)
	}
}

func TestResolveProfileCycle(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	if err := s.SetProfile("a", ProfileRecord{Base: "b", Output: "a.wasm"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetProfile("b", ProfileRecord{Base: "a", Output: "b.wasm"}); err != nil {
		t.Fatal(err)
	}

	_, err := s.ResolveProfile("a")
	if err == nil {
		t.Fatal("expected cycle error")
	}
	kind, ok := composeerr.KindOf(err)
	if !ok || kind != composeerr.KindPersistenceFailed {
		t.Fatalf("expected KindPersistenceFailed, got %v", kind)
	}
}

func TestResolveProfileDepthLimit(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	// Build a chain of 10 profiles, each based on the previous one: longer
	// than maxProfileInheritanceDepth (8).
	prev := ""
	for i := 0; i < 10; i++ {
		name := "p" + string(rune('a'+i))
		if err := s.SetProfile(name, ProfileRecord{Base: prev, Output: name + ".wasm"}); err != nil {
			t.Fatal(err)
		}
		prev = name
	}

	_, err := s.ResolveProfile(prev)
	if err == nil {
		t.Fatal("expected depth-exceeded error")
	}
}
