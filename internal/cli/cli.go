// Package cli implements the folio command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/foliokit/folio/pkg/buildinfo"
	"github.com/foliokit/folio/pkg/cache"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/observability"
	"github.com/foliokit/folio/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "folio"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// interactive reports whether the log writer is a terminal. Spinners
	// are suppressed otherwise.
	interactive bool

	cfg        *Config
	configOnce sync.Once
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
	if f, ok := w.(*os.File); ok {
		if fi, err := f.Stat(); err == nil {
			c.interactive = fi.Mode()&os.ModeCharDevice != 0
		}
	}
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Setup applies folio.toml and the verbose flag before a command runs.
// --verbose wins over any configured level. At debug level the cache
// logging hook is installed, since cache traffic is reported only
// through hooks.
func (c *CLI) Setup(verbose bool) {
	if verbose {
		c.SetLogLevel(log.DebugLevel)
	} else {
		c.SetLogLevel(c.config().LogLevel(c.Logger.GetLevel()))
	}
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetCacheHooks(observability.CacheLogHooks{Logger: c.Logger})
	}
}

// config returns the loaded configuration, falling back to defaults
// when folio.toml is broken.
func (c *CLI) config() *Config {
	c.configOnce.Do(func() {
		cfg, err := LoadConfig()
		if err != nil {
			c.Logger.Warn("ignoring config file", "err", err)
			cfg = &Config{}
			_ = cfg.ValidateAndSetDefaults()
		}
		c.cfg = cfg
	})
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Folio typesets document manifests with incremental relayout",
		Long:         `Folio is a CLI tool for typesetting document manifests: it lays out a content tree into pages, re-running layout until page-position queries stabilize, and exports the result as layout JSON or debug diagrams.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.typesetCommand())
	root.AddCommand(c.queryCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	backend, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(backend, nil, c.Logger), nil
}

// newCache builds the cache backend selected in folio.toml. The file
// backend quietly degrades to no caching when no directory is writable;
// redis and mongo report connection failures instead, since a
// configured shared cache that is down is worth knowing about.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.config()
	switch cfg.Cache.Backend {
	case CacheBackendNone:
		return cache.NewNullCache(), nil
	case CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.Cache.Redis)
	case CacheBackendMongo:
		return cache.NewMongoCache(ctx, cfg.Cache.Mongo)
	default:
		dir := cfg.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = cacheDir(); err != nil {
				return cache.NewNullCache(), nil
			}
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/folio/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Flag Parsing Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	return strings.Split(s, ",")
}

// parseStyleOverrides parses repeated --style key=value flags into a
// style map. Values that look like numbers or booleans are converted so
// they override the typed defaults rather than shadowing them as text.
func parseStyleOverrides(kvs []string) (map[string]any, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	styles := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "style override %q is not key=value", kv)
		}
		if err := errors.ValidateStyleKey(key); err != nil {
			return nil, err
		}
		styles[key] = coerceStyleValue(value)
	}
	return styles, nil
}

// coerceStyleValue converts a flag value to the richest type it parses as.
func coerceStyleValue(s string) any {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

// =============================================================================
// Spinner Factory
// =============================================================================

// newSpinner returns a spinner bound to ctx, silenced when the session
// is not interactive or when debug logging would interleave with the
// animation.
func (c *CLI) newSpinner(ctx context.Context, message string) *Spinner {
	s := newSpinnerWithContext(ctx, message)
	if !c.interactive || c.Logger.GetLevel() <= log.DebugLevel {
		s.silent = true
	}
	return s
}
