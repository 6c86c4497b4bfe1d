package introspect

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sync"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// decodeFunc isolates the WIT-decoding step so tests can substitute a fake
// without needing a real component binary on disk.
type decodeFunc func(path string) (imports, exports component.InterfaceSet, err error)

type cacheEntry struct {
	imports component.InterfaceSet
	exports component.InterfaceSet
}

// Introspector recovers a component binary's import and export interface
// sets, memoizing results by content hash.
type Introspector struct {
	cache  sync.Map // sha256 hex digest -> cacheEntry
	decode decodeFunc
}

// New builds an Introspector backed by go.bytecodealliance.org/wit.
func New() *Introspector {
	return &Introspector{decode: decodeWorld}
}

func newWithDecoder(d decodeFunc) *Introspector {
	return &Introspector{decode: d}
}

func (i *Introspector) inspect(artifact component.Artifact) (cacheEntry, error) {
	hash, err := fileHash(artifact.Path)
	if err != nil {
		return cacheEntry{}, composeerr.Wrap(composeerr.KindIntrospectionFailed, "hash", err,
			"failed to hash component binary "+artifact.Path)
	}
	if v, ok := i.cache.Load(hash); ok {
		return v.(cacheEntry), nil
	}

	imports, exports, err := i.decode(artifact.Path)
	if err != nil {
		return cacheEntry{}, err
	}
	entry := cacheEntry{imports: imports, exports: exports}
	i.cache.Store(hash, entry)
	return entry, nil
}

// ExportsOf returns artifact's export interface set.
func (i *Introspector) ExportsOf(artifact component.Artifact) (component.InterfaceSet, error) {
	entry, err := i.inspect(artifact)
	if err != nil {
		return nil, err
	}
	return entry.exports, nil
}

// ImportsOf returns artifact's import interface set.
func (i *Introspector) ImportsOf(artifact component.Artifact) (component.InterfaceSet, error) {
	entry, err := i.inspect(artifact)
	if err != nil {
		return nil, err
	}
	return entry.imports, nil
}

// ImportsInterface reports whether artifact imports the exact interface
// name.
func (i *Introspector) ImportsInterface(artifact component.Artifact, name component.InterfaceName) (bool, error) {
	imports, err := i.ImportsOf(artifact)
	if err != nil {
		return false, err
	}
	return imports.Contains(name), nil
}

// FindExportByPrefix returns the first export (in sorted order) whose name
// starts with prefix.
func (i *Introspector) FindExportByPrefix(artifact component.Artifact, prefix string) (component.InterfaceName, bool, error) {
	exports, err := i.ExportsOf(artifact)
	if err != nil {
		return "", false, err
	}
	name, ok := exports.FindByPrefix(prefix)
	return name, ok, nil
}

func fileHash(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
