package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/wasmcp/wasmcp/internal/composeerr"
	"github.com/wasmcp/wasmcp/pkg/logging"
)

const configFileName = "config.toml"

// GetDefaultConfigPathOrPanic returns the per-user configuration directory
// ("~/.config/wasmcp"), panicking if the user's home directory cannot be
// determined -- mirroring the teacher's GetDefaultConfigPathOrPanic, which
// treats "no home directory" as a programming-environment error rather
// than a recoverable one.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}
	return filepath.Join(homeDir, ".config", "wasmcp")
}

// readDocument reads and parses the TOML document at configPath/config.toml.
// A missing file is not an error: it yields an empty Document, matching
// the teacher's "no config.yaml found, using defaults" behavior.
func readDocument(configPath string) (Document, error) {
	doc := newDocument()
	file := filepath.Join(configPath, configFileName)

	data, err := os.ReadFile(file)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Debug("store", "no %s found at %s, using empty document", configFileName, configPath)
			return doc, nil
		}
		return Document{}, composeerr.Wrap(composeerr.KindPersistenceFailed, "read", err,
			fmt.Sprintf("failed to read configuration document at %s", file))
	}

	if err := toml.Unmarshal(data, &doc); err != nil {
		return Document{}, composeerr.Wrap(composeerr.KindPersistenceFailed, "parse", err,
			fmt.Sprintf("malformed configuration document at %s", file))
	}
	if doc.Components == nil {
		doc.Components = make(map[string]string)
	}
	if doc.Profiles == nil {
		doc.Profiles = make(map[string]ProfileRecord)
	}
	return doc, nil
}

// writeDocument atomically persists doc to configPath/config.toml: encode
// to a temp file in the same directory, then rename over the original, so
// a crash or concurrent writer never leaves a torn file in place.
func writeDocument(configPath string, doc Document) error {
	if err := os.MkdirAll(configPath, 0o755); err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "mkdir", err,
			fmt.Sprintf("failed to create configuration directory %s", configPath))
	}

	tmp, err := os.CreateTemp(configPath, configFileName+".tmp-*")
	if err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "write", err,
			"failed to create temporary configuration file")
	}
	tmpPath := tmp.Name()
	removeTmp := true
	defer func() {
		if removeTmp {
			_ = os.Remove(tmpPath)
		}
	}()

	enc := toml.NewEncoder(tmp)
	if err := enc.Encode(doc); err != nil {
		tmp.Close()
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "encode", err,
			"failed to encode configuration document")
	}
	if err := tmp.Close(); err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "write", err,
			"failed to flush temporary configuration file")
	}

	final := filepath.Join(configPath, configFileName)
	if err := os.Rename(tmpPath, final); err != nil {
		return composeerr.Wrap(composeerr.KindPersistenceFailed, "rename", err,
			fmt.Sprintf("failed to atomically replace %s", final))
	}
	removeTmp = false

	logging.Info("store", "persisted configuration document to %s", final)
	return nil
}
