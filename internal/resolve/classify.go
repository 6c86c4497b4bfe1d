package resolve

import "strings"

// componentExtension is the file extension a local component artifact is
// expected to carry.
const componentExtension = ".wasm"

// looksLocal reports whether spec should be treated as a filesystem path
// rather than an alias or registry reference: it starts with "./", starts
// with "/", contains a path separator anywhere, or ends in the component
// extension.
func looksLocal(spec string) bool {
	if strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "/") {
		return true
	}
	if strings.Contains(spec, "/") {
		return true
	}
	return strings.HasSuffix(spec, componentExtension)
}

// parseRegistryRef splits "namespace:package[@version]" into its parts. ok
// is false if spec does not contain exactly one namespace/package
// separator.
func parseRegistryRef(spec string) (namespace, pkg, version string, ok bool) {
	rest := spec
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		version = rest[i+1:]
		rest = rest[:i]
	}
	colon := strings.Index(rest, ":")
	if colon < 0 {
		return "", "", "", false
	}
	namespace = rest[:colon]
	pkg = rest[colon+1:]
	if namespace == "" || pkg == "" {
		return "", "", "", false
	}
	return namespace, pkg, version, true
}
