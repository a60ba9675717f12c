package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/foliokit/folio/pkg/doc"
	"github.com/foliokit/folio/pkg/pipeline"
)

const testManifest = `
[document]
title = "Test Document"

[[block]]
kind = "heading"
level = 1
text = "Introduction"
label = "intro"

[[block]]
kind = "paragraph"
text = "Folio lays out manifests into pages and keeps doing so until references stop moving."

[[block]]
kind = "ref"
target = "intro"
`

// writeTestManifest writes the shared manifest fixture into dir.
func writeTestManifest(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "report.toml")
	if err := os.WriteFile(path, []byte(testManifest), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunTypeset(t *testing.T) {
	dir := t.TempDir()
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{
		ManifestPath: manifest,
		Formats:      []string{pipeline.FormatJSON},
	}
	output := filepath.Join(dir, "report.json")

	if err := c.runTypeset(context.Background(), manifest, opts, output, true); err != nil {
		t.Fatalf("runTypeset() error: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("reading artifact: %v", err)
	}
	document, err := doc.UnmarshalDocument(data)
	if err != nil {
		t.Fatalf("artifact is not a layout document: %v", err)
	}
	if len(document.Pages) == 0 {
		t.Error("typeset document should have pages")
	}
	if document.Title != "Test Document" {
		t.Errorf("document title = %q, want manifest title", document.Title)
	}
}

func TestRunTypesetMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)
	opts := pipeline.Options{
		ManifestPath: manifest,
		Formats:      []string{pipeline.FormatJSON, pipeline.FormatDOT},
	}

	if err := c.runTypeset(context.Background(), manifest, opts, "", true); err != nil {
		t.Fatalf("runTypeset() error: %v", err)
	}

	base := filepath.Join(dir, "report")
	for _, ext := range []string{".json", ".dot"} {
		if _, err := os.Stat(base + ext); err != nil {
			t.Errorf("expected artifact %s: %v", base+ext, err)
		}
	}
}

func TestTypesetCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	manifest := writeTestManifest(t, dir)
	output := filepath.Join(dir, "out.json")

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"typeset", manifest, "--no-cache", "-o", output})

	if err := root.Execute(); err != nil {
		t.Fatalf("typeset command error: %v", err)
	}
	if _, err := os.Stat(output); err != nil {
		t.Errorf("typeset should write %s: %v", output, err)
	}
}

func TestTypesetCommandRejectsBadFormat(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"typeset", manifest, "--no-cache", "-f", "pdf"})

	if err := root.Execute(); err == nil {
		t.Fatal("typeset should reject an unknown format")
	}
}

func TestAppendFormat(t *testing.T) {
	got := appendFormat([]string{"json"}, "svg")
	if len(got) != 2 || got[1] != "svg" {
		t.Errorf("appendFormat() = %v, want [json svg]", got)
	}

	got = appendFormat([]string{"json", "svg"}, "svg")
	if len(got) != 2 {
		t.Errorf("appendFormat() should not duplicate: %v", got)
	}
}

func TestBasePath(t *testing.T) {
	cases := []struct {
		name   string
		output string
		input  string
		want   string
	}{
		{"from input", "", "docs/report.toml", "docs/report"},
		{"output with format ext", "out/layout.json", "report.toml", "out/layout"},
		{"output without ext", "out/layout", "report.toml", "out/layout"},
		{"output with foreign ext", "out/layout.bak", "report.toml", "out/layout.bak"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := basePath(tc.output, tc.input); got != tc.want {
				t.Errorf("basePath(%q, %q) = %q, want %q", tc.output, tc.input, got, tc.want)
			}
		})
	}
}

func TestWriteArtifacts(t *testing.T) {
	dir := t.TempDir()
	artifacts := map[string][]byte{
		"json": []byte(`{}`),
		"dot":  []byte("digraph {}"),
	}

	t.Run("single format keeps explicit name", func(t *testing.T) {
		out := filepath.Join(dir, "custom.name")
		paths, err := writeArtifacts(artifacts, []string{"json"}, "report.toml", out)
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		if len(paths) != 1 || paths[0] != out {
			t.Errorf("paths = %v, want [%s]", paths, out)
		}
	})

	t.Run("multiple formats use base plus extension", func(t *testing.T) {
		input := filepath.Join(dir, "report.toml")
		paths, err := writeArtifacts(artifacts, []string{"json", "dot"}, input, "")
		if err != nil {
			t.Fatalf("writeArtifacts() error: %v", err)
		}
		want := []string{filepath.Join(dir, "report.json"), filepath.Join(dir, "report.dot")}
		for i := range want {
			if paths[i] != want[i] {
				t.Errorf("paths[%d] = %s, want %s", i, paths[i], want[i])
			}
			if _, err := os.Stat(want[i]); err != nil {
				t.Errorf("artifact %s not written: %v", want[i], err)
			}
		}
	})
}

func TestPathFor(t *testing.T) {
	paths := []string{"out/report.json", "out/report.svg"}
	if got := pathFor(paths, "svg"); got != "out/report.svg" {
		t.Errorf("pathFor(svg) = %q", got)
	}
	if got := pathFor(paths, "dot"); got != "" {
		t.Errorf("pathFor(dot) = %q, want empty", got)
	}
}
