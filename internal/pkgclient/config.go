package pkgclient

// defaultHosts is the hard-coded "global" config layer: a mapping of known
// framework namespaces to their public OCI host. A
// namespace absent from this table is resolved against a registry
// mirroring it directly, i.e. "host == namespace", which lets any
// namespace double as a fully qualified registry host (ghcr.io, docker.io,
// a private registry FQDN, ...).
var defaultHosts = map[string]string{
	"wasmcp": "ghcr.io/wasmcp",
}

// Config controls how a Client addresses a registry.
type Config struct {
	// Hosts overrides or extends defaultHosts. A nil map uses
	// defaultHosts unmodified.
	Hosts map[string]string
	// CacheDir is where fetched artifacts are written
	// ("<ns>_<pkg>@<version>.wasm" per component.RegistryRef.CacheFilename).
	CacheDir string
	// MaxConcurrentFetches bounds FetchMany's fan-out. Default: 8.
	MaxConcurrentFetches int
}

// hostFor resolves namespace to a registry host: its entry in cfg.Hosts,
// else its entry in defaultHosts, else the namespace itself.
func (c Config) hostFor(namespace string) string {
	if host, ok := c.Hosts[namespace]; ok {
		return host
	}
	if host, ok := defaultHosts[namespace]; ok {
		return host
	}
	return namespace
}

func (c Config) maxConcurrentFetches() int {
	if c.MaxConcurrentFetches > 0 {
		return c.MaxConcurrentFetches
	}
	return 8
}
