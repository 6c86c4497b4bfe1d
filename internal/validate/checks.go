package validate

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/wasmcp/wasmcp/internal/composeerr"
)

// ValidTransports is the enum the transport argument is constrained to.
var ValidTransports = []string{"http", "stdio"}

// Transport checks that transport is one of the recognized kinds.
func Transport(transport string) error {
	for _, t := range ValidTransports {
		if transport == t {
			return nil
		}
	}
	return composeerr.Newf(composeerr.KindInvalidInput, "transport",
		"transport %q is not one of %v", transport, ValidTransports).
		WithContext("transport", transport)
}

// OutputPath canonicalizes path against the current working directory and
// checks it is writable: path must not already exist unless overwrite is
// true, and its parent directory must exist. It returns the canonicalized
// absolute path.
func OutputPath(path string, overwrite bool) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindInvalidInput, "output-path", err,
			"failed to canonicalize output path "+path)
	}

	if _, err := os.Stat(abs); err == nil {
		if !overwrite {
			return "", composeerr.Newf(composeerr.KindInvalidInput, "output-exists",
				"output path %q already exists and overwrite is false", abs).
				WithContext("path", abs)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", composeerr.Wrap(composeerr.KindInvalidInput, "output-path", err,
			"failed to stat output path "+abs)
	}

	parent := filepath.Dir(abs)
	info, err := os.Stat(parent)
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindInvalidInput, "output-dir-missing", err,
			"output directory "+parent+" does not exist")
	}
	if !info.IsDir() {
		return "", composeerr.Newf(composeerr.KindInvalidInput, "output-dir-missing",
			"output parent %q is not a directory", parent).WithContext("path", parent)
	}

	probe, err := os.CreateTemp(parent, ".wasmcp-writable-*")
	if err != nil {
		return "", composeerr.Wrap(composeerr.KindInvalidInput, "output-dir-unwritable", err,
			"output directory "+parent+" is not writable")
	}
	probe.Close()
	os.Remove(probe.Name())

	return abs, nil
}
