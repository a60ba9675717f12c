package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/foliokit/folio/pkg/cache"
	"github.com/foliokit/folio/pkg/errors"
	"github.com/foliokit/folio/pkg/pipeline"
)

// configName is the configuration file looked up in the working
// directory and under $XDG_CONFIG_HOME/folio/.
const configName = "folio.toml"

// Cache backends selectable in folio.toml.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
	CacheBackendMongo = "mongo"
	CacheBackendNone  = "none"
)

// =============================================================================
// Config - Optional folio.toml
// =============================================================================

// Config is the optional folio.toml configuration file. Everything in it
// has a working default; flags override file values.
type Config struct {
	Cache   CacheConfig   `toml:"cache"`
	Preview PreviewConfig `toml:"preview"`
	Log     LogConfig     `toml:"log"`
	Export  ExportConfig  `toml:"export"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// CacheConfig selects and configures the typeset cache backend.
type CacheConfig struct {
	// Backend is one of file, redis, mongo, or none. Defaults to file.
	Backend string `toml:"backend"`

	// Dir overrides the file backend's directory.
	Dir string `toml:"dir"`

	Redis cache.RedisConfig `toml:"redis"`
	Mongo cache.MongoConfig `toml:"mongo"`
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// Addr is the default listen address for folio preview.
	Addr string `toml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is the default log level when --verbose is not given.
	Level string `toml:"level"`
}

// ExportConfig sets default export options for folio typeset.
type ExportConfig struct {
	// Formats is the default artifact format list.
	Formats []string `toml:"formats"`

	// Detailed enables full span and style detail in exports.
	Detailed bool `toml:"detailed"`
}

// =============================================================================
// Loading
// =============================================================================

// LoadConfig reads folio.toml from the working directory or the XDG
// config directory. A missing file yields the defaults.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	path, ok := findConfig()
	if ok {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "config %s", path)
		}
	}
	if err := cfg.ValidateAndSetDefaults(); err != nil {
		if ok {
			return nil, errors.Wrap(errors.GetCode(err), err, "config %s", path)
		}
		return nil, err
	}
	return cfg, nil
}

// findConfig locates the configuration file: working directory first,
// then $XDG_CONFIG_HOME/folio/ (or ~/.config/folio/).
func findConfig() (string, bool) {
	if _, err := os.Stat(configName); err == nil {
		return configName, true
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", false
		}
		dir = filepath.Join(home, ".config")
	}
	path := filepath.Join(dir, appName, configName)
	if _, err := os.Stat(path); err == nil {
		return path, true
	}
	return "", false
}

// =============================================================================
// Config Methods
// =============================================================================

// ValidateAndSetDefaults checks fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (c *Config) ValidateAndSetDefaults() error {
	if c.validated {
		return nil
	}

	switch c.Cache.Backend {
	case "":
		c.Cache.Backend = CacheBackendFile
	case CacheBackendFile, CacheBackendRedis, CacheBackendMongo, CacheBackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheBackendRedis && c.Cache.Redis.Addr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend redis requires cache.redis.addr")
	}
	if c.Cache.Backend == CacheBackendMongo && c.Cache.Mongo.URI == "" {
		return errors.New(errors.ErrCodeInvalidInput, "cache backend mongo requires cache.mongo.uri")
	}

	if c.Log.Level != "" {
		if _, err := log.ParseLevel(c.Log.Level); err != nil {
			return errors.New(errors.ErrCodeInvalidInput, "unknown log level %q", c.Log.Level)
		}
	}

	if err := pipeline.ValidateFormats(c.Export.Formats); err != nil {
		return err
	}

	c.validated = true
	return nil
}

// LogLevel returns the configured log level, or fallback when unset.
func (c *Config) LogLevel(fallback log.Level) log.Level {
	if c.Log.Level == "" {
		return fallback
	}
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return fallback
	}
	return level
}
