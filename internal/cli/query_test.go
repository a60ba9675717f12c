package cli

import (
	"context"
	"io"
	"testing"

	"github.com/foliokit/folio/pkg/pipeline"
)

func TestParseSelector(t *testing.T) {
	cases := []struct {
		name    string
		arg     string
		wantKey string
		wantErr bool
	}{
		{"element", "heading", "elem:heading", false},
		{"label", "label:intro", "label:intro", false},
		{"invalid element", "not a name", "", true},
		{"empty label", "label:", "", true},
		{"empty", "", "", true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sel, err := parseSelector(tc.arg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseSelector(%q) should fail", tc.arg)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseSelector(%q) error: %v", tc.arg, err)
			}
			if sel.Key() != tc.wantKey {
				t.Errorf("parseSelector(%q).Key() = %q, want %q", tc.arg, sel.Key(), tc.wantKey)
			}
		})
	}
}

func TestRunQuery(t *testing.T) {
	dir := t.TempDir()
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)

	sel, err := parseSelector("label:intro")
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{ManifestPath: manifest}
	if err := c.runQuery(context.Background(), manifest, sel, opts, true); err != nil {
		t.Fatalf("runQuery() error: %v", err)
	}
}

func TestRunQueryNoMatches(t *testing.T) {
	dir := t.TempDir()
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)

	sel, err := parseSelector("outline")
	if err != nil {
		t.Fatal(err)
	}
	opts := pipeline.Options{ManifestPath: manifest}
	if err := c.runQuery(context.Background(), manifest, sel, opts, true); err != nil {
		t.Fatalf("runQuery() with no matches should not fail: %v", err)
	}
}

func TestQueryCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	manifest := writeTestManifest(t, dir)

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"query", manifest, "heading", "--no-cache"})

	if err := root.Execute(); err != nil {
		t.Fatalf("query command error: %v", err)
	}
}
