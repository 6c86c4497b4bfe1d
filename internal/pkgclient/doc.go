// Package pkgclient implements the Package Client: pulling OCI-packaged
// component binaries from a registry, resolving "latest" against the
// registry's tag list, and caching artifacts on disk under a
// content-addressable filename.
//
// The client layers one hard-coded "global" config (a mapping of the
// framework namespace to its known public OCI host) over ambient registry
// credentials resolved through the Docker credential-helper chain via
// oras.land/oras-go/v2/registry/remote/credentials -- the core itself never
// stores or prompts for credentials.
//
// Network failures are retryable at the caller's discretion; this client
// does not retry silently beyond the transport-level retry oras-go already
// applies to idempotent registry calls. Version-resolution failures and
// cache-write failures are terminal.
package pkgclient
