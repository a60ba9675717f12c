package cli

import (
	"context"
	"io"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", filepath.Join(t.TempDir(), "xdg"))

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %s, want a %s directory", dir, appName)
	}
	if !strings.Contains(dir, "xdg") {
		t.Errorf("cacheDir() = %s, should honor XDG_CACHE_HOME", dir)
	}
}

func TestCacheDirFallback(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if !strings.HasSuffix(dir, filepath.Join(".cache", appName)) {
		t.Errorf("cacheDir() = %s, want ~/.cache/%s", dir, appName)
	}
}

func TestRootCommand(t *testing.T) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()

	if root.Use != "folio" {
		t.Errorf("root.Use = %q, want %q", root.Use, "folio")
	}

	want := []string{"typeset", "query", "inspect", "preview", "cache", "completion"}
	for _, name := range want {
		found := false
		for _, sub := range root.Commands() {
			if sub.Name() == name {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("RootCommand() missing %q subcommand", name)
		}
	}
}

func TestParseFormats(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"default", "", []string{"json"}},
		{"single", "svg", []string{"svg"}},
		{"multiple", "json,svg,dot", []string{"json", "svg", "dot"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := parseFormats(tc.in)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseStyleOverrides(t *testing.T) {
	cases := []struct {
		name    string
		in      []string
		want    map[string]any
		wantErr bool
	}{
		{"empty", nil, nil, false},
		{"string value", []string{"font.family=serif"}, map[string]any{"font.family": "serif"}, false},
		{"numeric value", []string{"page.width=500"}, map[string]any{"page.width": 500.0}, false},
		{"boolean value", []string{"outline.compact=true"}, map[string]any{"outline.compact": true}, false},
		{"several", []string{"page.width=500", "page.margin=24.5"}, map[string]any{"page.width": 500.0, "page.margin": 24.5}, false},
		{"missing equals", []string{"page.width"}, nil, true},
		{"empty key", []string{"=5"}, nil, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseStyleOverrides(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("parseStyleOverrides(%v) should fail", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseStyleOverrides(%v) error: %v", tc.in, err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("parseStyleOverrides(%v) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestCoerceStyleValue(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"500", 500.0},
		{"24.5", 24.5},
		{"true", true},
		{"false", false},
		{"serif", "serif"},
	}

	for _, tc := range cases {
		if got := coerceStyleValue(tc.in); got != tc.want {
			t.Errorf("coerceStyleValue(%q) = %v (%T), want %v (%T)", tc.in, got, got, tc.want, tc.want)
		}
	}
}

func TestNewSpinnerNotInteractive(t *testing.T) {
	c := New(io.Discard, LogInfo)

	s := c.newSpinner(context.Background(), "working")
	if !s.silent {
		t.Error("spinner should be silent when the log writer is not a terminal")
	}
}

func TestNewSpinnerVerbose(t *testing.T) {
	c := New(io.Discard, LogDebug)

	s := c.newSpinner(context.Background(), "working")
	if !s.silent {
		t.Error("spinner should be silent under debug logging")
	}
}
