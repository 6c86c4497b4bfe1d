package pkgclient

import (
	"io"
	"os"
	"path/filepath"

	"github.com/wasmcp/wasmcp/internal/component"
	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// cachePath returns the absolute path a ref's artifact would live at.
func (c *Client) cachePath(ref component.RegistryRef) string {
	return filepath.Join(c.cfg.CacheDir, ref.CacheFilename())
}

// cacheLookup reports whether ref is already cached, returning its path.
func (c *Client) cacheLookup(ref component.RegistryRef) (string, bool) {
	path := c.cachePath(ref)
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return path, true
	}
	return "", false
}

// cacheStore writes the bytes read from src to ref's cache slot atomically:
// a temp file in the same directory, then rename over the final name, so a
// reader can never observe a partially written artifact.
func (c *Client) cacheStore(ref component.RegistryRef, src io.Reader) (string, error) {
	if err := os.MkdirAll(c.cfg.CacheDir, 0o755); err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "cache-mkdir", err,
			"failed to create package cache directory")
	}

	tmp, err := os.CreateTemp(c.cfg.CacheDir, ref.CacheFilename()+".tmp-*")
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "cache-write", err,
			"failed to create temporary cache file")
	}
	tmpPath := tmp.Name()
	removeTmp := true
	defer func() {
		if removeTmp {
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := io.Copy(tmp, src); err != nil {
		tmp.Close()
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "cache-write", err,
			"failed to write artifact to cache")
	}
	if err := tmp.Close(); err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "cache-write", err,
			"failed to flush cached artifact")
	}

	final := c.cachePath(ref)
	if err := os.Rename(tmpPath, final); err != nil {
		return "", composeerr.Wrap(composeerr.KindPackageFetch, "cache-write", err,
			"failed to atomically install cached artifact")
	}
	removeTmp = false
	return final, nil
}
