package cmd

import (
	"os"
	"path/filepath"
)

// defaultCacheDir returns the per-user dependency cache directory
// ("~/.cache/wasmcp"), used when --cache-dir is not given. It falls back
// to a ".wasmcp-cache" directory under the working directory if the
// user's cache directory cannot be determined, rather than panicking:
// unlike the configuration document, a missing cache directory is
// recoverable by just creating one.
func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".wasmcp-cache"
	}
	return filepath.Join(dir, "wasmcp")
}
