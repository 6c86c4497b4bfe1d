package pkgclient

import (
	"context"
	"encoding/json"
	"fmt"

	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"oras.land/oras-go/v2/content"
	"oras.land/oras-go/v2/registry/remote"
	"oras.land/oras-go/v2/registry/remote/auth"
	"oras.land/oras-go/v2/registry/remote/credentials"
	"oras.land/oras-go/v2/registry/remote/retry"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

// yankedAnnotation marks a manifest as withdrawn from "latest" resolution
// without deleting its tag: a published artifact stays fetchable by exact
// version, but latest-version resolution skips it. The key is repurposed
// from the image-spec's base-digest annotation, following this registry
// pack's existing yank convention rather than minting a new key.
const yankedAnnotation = "org.opencontainers.image.base.digest"
const yankedValue = "yanked"

// wasmMediaType is the media type a component binary layer is published
// under.
const wasmMediaType = "application/wasm"

// Client is the Package Client: resolves "latest" against a registry's tag
// list and fetches component binaries into the local cache.
type Client struct {
	cfg       Config
	credStore credentials.Store
	repoCache map[string]*remote.Repository
}

// New builds a Client. cfg.CacheDir must be set; credentials are resolved
// lazily from the ambient Docker credential-helper chain on first registry
// call, never stored or prompted for by the client itself.
func New(cfg Config) (*Client, error) {
	if cfg.CacheDir == "" {
		return nil, composeerr.New(composeerr.KindInvalidInput, "", "pkgclient: CacheDir is required")
	}
	store, err := credentials.NewStoreFromDocker(credentials.StoreOptions{})
	if err != nil {
		return nil, composeerr.Wrap(composeerr.KindPackageFetch, "credentials", err,
			"failed to open Docker credential store")
	}
	return &Client{cfg: cfg, credStore: store, repoCache: make(map[string]*remote.Repository)}, nil
}

func (c *Client) repository(namespace, pkg string) (*remote.Repository, error) {
	ref := fmt.Sprintf("%s/%s", c.cfg.hostFor(namespace), pkg)
	if repo, ok := c.repoCache[ref]; ok {
		return repo, nil
	}
	repo, err := remote.NewRepository(ref)
	if err != nil {
		return nil, composeerr.Wrap(composeerr.KindPackageFetch, "registry-address", err,
			fmt.Sprintf("invalid registry reference %q", ref))
	}
	repo.Client = &auth.Client{
		Client:     retry.DefaultClient,
		Cache:      auth.NewCache(),
		Credential: credentials.Credential(c.credStore),
	}
	c.repoCache[ref] = repo
	return repo, nil
}

// ResolveLatest returns the latest non-yanked version tag published for
// namespace:pkg, comparing candidate tags by plain string ordering: versions
// are opaque, never parsed as semver.
func (c *Client) ResolveLatest(ctx context.Context, namespace, pkg string) (string, error) {
	repo, err := c.repository(namespace, pkg)
	if err != nil {
		return "", err
	}

	var candidates []string
	err = repo.Tags(ctx, "", func(tags []string) error {
		for _, tag := range tags {
			yanked, err := c.tagIsYanked(ctx, repo, tag)
			if err != nil {
				return err
			}
			if !yanked {
				candidates = append(candidates, tag)
			}
		}
		return nil
	})
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "list-tags", err,
			fmt.Sprintf("failed to list tags for %s:%s", namespace, pkg)).
			WithContext("namespace", namespace).WithContext("package", pkg)
	}
	if len(candidates) == 0 {
		return "", composeerr.Newf(composeerr.KindPackageFetch, "no-versions",
			"no non-yanked versions published for %s:%s", namespace, pkg).
			WithContext("namespace", namespace).WithContext("package", pkg)
	}

	latest := candidates[0]
	for _, v := range candidates[1:] {
		if v > latest {
			latest = v
		}
	}
	return latest, nil
}

func (c *Client) tagIsYanked(ctx context.Context, repo *remote.Repository, tag string) (bool, error) {
	desc, err := repo.Resolve(ctx, tag)
	if err != nil {
		return false, composeerr.Wrap(composeerr.KindPackageFetch, "resolve-tag", err,
			fmt.Sprintf("failed to resolve tag %q", tag))
	}
	manifest, err := c.fetchManifest(ctx, repo, desc)
	if err != nil {
		return false, err
	}
	return manifest.Annotations[yankedAnnotation] == yankedValue, nil
}

func (c *Client) fetchManifest(ctx context.Context, repo *remote.Repository, desc ocispec.Descriptor) (ocispec.Manifest, error) {
	raw, err := content.FetchAll(ctx, repo, desc)
	if err != nil {
		return ocispec.Manifest{}, composeerr.Wrap(composeerr.KindPackageFetch, "fetch-manifest", err,
			"failed to fetch manifest")
	}
	var manifest ocispec.Manifest
	if err := json.Unmarshal(raw, &manifest); err != nil {
		return ocispec.Manifest{}, composeerr.Wrap(composeerr.KindPackageFetch, "decode-manifest", err,
			"failed to decode manifest")
	}
	return manifest, nil
}

// wasmLayer returns the single component-binary layer of a manifest, or an
// error if the manifest carries none: one wasm layer per published package
// version.
func wasmLayer(manifest ocispec.Manifest) (ocispec.Descriptor, error) {
	for _, l := range manifest.Layers {
		if l.MediaType == wasmMediaType {
			return l, nil
		}
	}
	return ocispec.Descriptor{}, composeerr.New(composeerr.KindPackageFetch, "no-wasm-layer",
		"manifest has no layer of media type "+wasmMediaType)
}

// Fetch returns the local path of namespace:pkg@version, fetching from the
// registry only if it is not already cached.
func (c *Client) Fetch(ctx context.Context, namespace, pkg, version string) (string, error) {
	if version == "" {
		return "", composeerr.New(composeerr.KindInvalidInput, "", "pkgclient.Fetch: version is required")
	}
	ref := component.RegistryRef{Namespace: namespace, Package: pkg, Version: version}
	if path, ok := c.cacheLookup(ref); ok {
		logging.Debug("pkgclient", "cache hit for %s", ref)
		return path, nil
	}

	repo, err := c.repository(namespace, pkg)
	if err != nil {
		return "", err
	}
	desc, err := repo.Resolve(ctx, version)
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "resolve-version", err,
			fmt.Sprintf("version %q not found for %s:%s", version, namespace, pkg)).
			WithContext("namespace", namespace).WithContext("package", pkg).WithContext("version", version)
	}
	manifest, err := c.fetchManifest(ctx, repo, desc)
	if err != nil {
		return "", err
	}
	layer, err := wasmLayer(manifest)
	if err != nil {
		return "", err
	}

	rc, err := repo.Fetch(ctx, layer)
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "fetch-blob", err,
			"failed to fetch component binary layer")
	}
	defer rc.Close()

	path, err := c.cacheStore(ref, rc)
	if err != nil {
		return "", err
	}
	logging.Info("pkgclient", "fetched %s -> %s", ref, path)
	return path, nil
}
