package cli

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

const configFile = "config.toml"

// Config is the optional TOML config file. Zero values mean "not set";
// command-line flags override anything set here.
//
//	style = "blueprint"
//	formats = ["svg", "dxf"]
//	axis_policy = "reject"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":9090"
type Config struct {
	Style       string   `toml:"style"`
	Formats     []string `toml:"formats"`
	StrokeWidth float64  `toml:"stroke_width"`
	Margin      *float64 `toml:"margin"`
	Labels      bool     `toml:"labels"`
	AxisPolicy  string   `toml:"axis_policy"`
	Layer       string   `toml:"layer"`

	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
}

// CacheConfig selects and tunes the artifact cache.
type CacheConfig struct {
	Backend   string        `toml:"backend"` // file (default), redis, none
	TTL       time.Duration `toml:"ttl"`
	RedisAddr string        `toml:"redis_addr"`
}

// ServerConfig configures `hyperstairs serve`.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// defaultConfigPath returns $XDG_CONFIG_HOME/hyperstairs/config.toml.
func defaultConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// loadConfig reads the config file at path, or at the default location when
// path is empty. A missing file is only an error when explicit is set.
func loadConfig(path string, explicit bool) (Config, error) {
	var cfg Config
	if path == "" {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) && !explicit {
		return cfg, nil
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", path)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Style != "" {
		if err := pipeline.ValidateStyle(c.Style); err != nil {
			return err
		}
	}
	if err := pipeline.ValidateFormats(c.Formats); err != nil {
		return err
	}
	if c.AxisPolicy != "" {
		if err := pipeline.ValidateAxisPolicy(c.AxisPolicy); err != nil {
			return err
		}
	}
	if c.Layer != "" {
		if err := errors.ValidateLayer(c.Layer); err != nil {
			return err
		}
	}
	if c.StrokeWidth < 0 || (c.Margin != nil && *c.Margin < 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "stroke_width and margin cannot be negative")
	}

	backends := []string{"", backendFile, backendRedis, backendNone}
	if !slices.Contains(backends, c.Cache.Backend) {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend %q (must be one of: file, redis, none)", c.Cache.Backend)
	}
	if c.Cache.Backend == backendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.redis_addr is required for the redis backend")
	}
	if c.Cache.TTL < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl cannot be negative")
	}
	return nil
}

// apply copies set config values into opts. It never overwrites values
// opts already has.
func (c Config) apply(opts *pipeline.Options) {
	if opts.Style == "" {
		opts.Style = c.Style
	}
	if len(opts.Formats) == 0 {
		opts.Formats = slices.Clone(c.Formats)
	}
	if opts.StrokeWidth == 0 {
		opts.StrokeWidth = c.StrokeWidth
	}
	if opts.Margin == nil && c.Margin != nil {
		opts.Margin = pipeline.Margin(*c.Margin)
	}
	if !opts.Labels {
		opts.Labels = c.Labels
	}
	if opts.AxisPolicy == "" {
		opts.AxisPolicy = c.AxisPolicy
	}
	if opts.Layer == "" {
		opts.Layer = c.Layer
	}
}
