package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/wasmcp/wasmcp/internal/composeerr"
)

func TestTransportAcceptsKnownKinds(t *testing.T) {
	for _, tr := range []string{"http", "stdio"} {
		if err := Transport(tr); err != nil {
			t.Errorf("Transport(%q): %v", tr, err)
		}
	}
}

func TestTransportRejectsUnknownKind(t *testing.T) {
	err := Transport("carrier-pigeon")
	if err == nil {
		t.Fatal("expected error")
	}
	if kind, _ := composeerr.KindOf(err); kind != composeerr.KindInvalidInput {
		t.Fatalf("expected KindInvalidInput, got %v", kind)
	}
}

func TestOutputPathCanonicalizesRelative(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	abs, err := OutputPath("out.wasm", false)
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(abs) {
		t.Fatalf("expected absolute path, got %q", abs)
	}
}

func TestOutputPathRejectsExistingWithoutOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wasm")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := OutputPath(path, false)
	if err == nil {
		t.Fatal("expected error for existing output without overwrite")
	}
}

func TestOutputPathAllowsExistingWithOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.wasm")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := OutputPath(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed, got %v", err)
	}
}

func TestOutputPathRejectsMissingParentDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "missing-parent", "out.wasm")

	_, err := OutputPath(path, false)
	if err == nil {
		t.Fatal("expected error for missing parent directory")
	}
}

func TestErrorsAggregatesMultipleFailures(t *testing.T) {
	var errs Errors
	errs.Add("transport", "must be http or stdio")
	errs.Add("output", "already exists")

	if !errs.HasErrors() {
		t.Fatal("expected HasErrors true")
	}
	err := errs.Err()
	if err == nil {
		t.Fatal("expected non-nil aggregated error")
	}
	if kind, _ := composeerr.KindOf(err); kind != composeerr.KindInvalidInput {
		t.Fatalf("expected KindInvalidInput, got %v", kind)
	}
}

func TestErrorsEmptyIsNil(t *testing.T) {
	var errs Errors
	if errs.Err() != nil {
		t.Fatal("expected nil error for empty Errors")
	}
}
