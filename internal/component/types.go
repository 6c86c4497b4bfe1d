package component

import "strings"

// InterfaceName is a fully qualified identifier of the form
// "<namespace>:<package>/<iface>@<version>". The BaseName is everything up
// to the "@"; two interface names are compatible for wiring iff their base
// names match and their version strings are string-equal. Versions are
// opaque to the engine: they are never parsed as semver here.
type InterfaceName string

// BaseName returns the portion of the interface name before "@", or the
// whole string if there is no version suffix.
func (n InterfaceName) BaseName() string {
	s := string(n)
	if i := strings.LastIndex(s, "@"); i >= 0 {
		return s[:i]
	}
	return s
}

// Version returns the portion of the interface name after "@", or "" if
// the name carries no version.
func (n InterfaceName) Version() string {
	s := string(n)
	if i := strings.LastIndex(s, "@"); i >= 0 {
		return s[i+1:]
	}
	return ""
}

// HasPackage reports whether the interface name has a "/" after its
// namespace, i.e. names a package-scoped interface rather than a bare
// implementation type. Interface names without a package are skipped by
// the introspector: they are implementation types, not protocol contracts.
func (n InterfaceName) HasPackage() bool {
	base := n.BaseName()
	colon := strings.Index(base, ":")
	if colon < 0 {
		return false
	}
	return strings.Contains(base[colon+1:], "/")
}

// CompatibleWith reports whether n and other can be wired together: equal
// base names and equal (string-compared) version strings.
func (n InterfaceName) CompatibleWith(other InterfaceName) bool {
	return n.BaseName() == other.BaseName() && n.Version() == other.Version()
}

func (n InterfaceName) String() string { return string(n) }

// InterfaceSet is a set of fully versioned interface names.
type InterfaceSet map[InterfaceName]struct{}

// NewInterfaceSet builds an InterfaceSet from a slice of names.
func NewInterfaceSet(names ...InterfaceName) InterfaceSet {
	s := make(InterfaceSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Contains reports whether name is in the set.
func (s InterfaceSet) Contains(name InterfaceName) bool {
	_, ok := s[name]
	return ok
}

// Sorted returns the set's members in lexicographic order, for
// deterministic iteration (logging, tests, diagnostics).
func (s InterfaceSet) Sorted() []InterfaceName {
	out := make([]InterfaceName, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// FindByPrefix returns the first member (in sorted order) whose full name
// starts with prefix, and true, or "" and false if none match.
func (s InterfaceSet) FindByPrefix(prefix string) (InterfaceName, bool) {
	for _, n := range s.Sorted() {
		if strings.HasPrefix(string(n), prefix) {
			return n, true
		}
	}
	return "", false
}

// Artifact is an immutable component binary on disk. Its identity is its
// canonical absolute path; its import/export interface sets are derived
// attributes, cached by the introspector on first inspection.
type Artifact struct {
	// Path is the canonical absolute path to the component binary.
	Path string
}

// SpecKind classifies a textual package spec.
type SpecKind int

const (
	// SpecKindLocal is a local filesystem path.
	SpecKindLocal SpecKind = iota
	// SpecKindAlias is a user-defined alias resolved through the
	// configuration store.
	SpecKindAlias
	// SpecKindRegistry is a "namespace:package[@version]" registry
	// reference.
	SpecKindRegistry
)

func (k SpecKind) String() string {
	switch k {
	case SpecKindLocal:
		return "local"
	case SpecKindAlias:
		return "alias"
	case SpecKindRegistry:
		return "registry"
	default:
		return "unknown"
	}
}

// RegistryRef is a parsed "namespace:package[@version]" registry
// reference. Version is empty when the spec did not include one, meaning
// "latest non-yanked".
type RegistryRef struct {
	Namespace string
	Package   string
	Version   string // "" means unresolved / latest
}

// String renders the reference back to spec text.
func (r RegistryRef) String() string {
	s := r.Namespace + ":" + r.Package
	if r.Version != "" {
		s += "@" + r.Version
	}
	return s
}

// CacheFilename returns the content-addressed cache filename for a
// resolved registry reference: "<ns>_<pkg>@<version>.wasm". Colons and
// slashes in the namespace/package (neither is expected to contain any,
// but defensively) are substituted with "_".
func (r RegistryRef) CacheFilename() string {
	sanitize := func(s string) string {
		s = strings.ReplaceAll(s, ":", "_")
		s = strings.ReplaceAll(s, "/", "_")
		return s
	}
	return sanitize(r.Namespace) + "_" + sanitize(r.Package) + "@" + r.Version + ".wasm"
}
