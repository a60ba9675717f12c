package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/pipeline"
)

func TestRunInspect(t *testing.T) {
	dir := t.TempDir()
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{
		ManifestPath: manifest,
		Formats:      []string{pipeline.FormatJSON},
	}
	output := filepath.Join(dir, "report.json")
	if err := c.runTypeset(context.Background(), manifest, opts, output, true); err != nil {
		t.Fatal(err)
	}

	if err := c.runInspect(output, true); err != nil {
		t.Errorf("runInspect() error: %v", err)
	}
}

func TestRunInspectMissingFile(t *testing.T) {
	c := New(io.Discard, LogInfo)

	err := c.runInspect(filepath.Join(t.TempDir(), "absent.json"), true)
	if err == nil {
		t.Fatal("runInspect() should fail for a missing file")
	}
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("error code = %v, want FILE_NOT_FOUND", errors.GetCode(err))
	}
}

func TestRunInspectBadDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte("not a document"), 0644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	if err := c.runInspect(path, true); err == nil {
		t.Fatal("runInspect() should fail for a malformed document")
	}
}
