package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/hyperstairs/pkg/errors"
	"github.com/matzehuels/hyperstairs/pkg/pipeline"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
style = "blueprint"
formats = ["svg", "dxf"]
labels = true
axis_policy = "reject"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl = "24h"

[server]
addr = ":9090"
`)

	cfg, err := loadConfig(path, true)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Style != "blueprint" || len(cfg.Formats) != 2 || !cfg.Labels || cfg.AxisPolicy != pipeline.AxisReject {
		t.Errorf("top-level keys not decoded: %+v", cfg)
	}
	if cfg.Cache.Backend != backendRedis || cfg.Cache.RedisAddr != "localhost:6379" || cfg.Cache.TTL != 24*time.Hour {
		t.Errorf("cache table not decoded: %+v", cfg.Cache)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("server.addr = %q", cfg.Server.Addr)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	if _, err := loadConfig(path, false); err != nil {
		t.Errorf("implicit missing config: %v", err)
	}
	if _, err := loadConfig(path, true); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("explicit missing config: err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadConfigDefaultPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	if err := os.MkdirAll(filepath.Join(dir, appName), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, appName, configFile), []byte(`style = "blueprint"`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig("", false)
	if err != nil {
		t.Fatalf("loadConfig() error: %v", err)
	}
	if cfg.Style != "blueprint" {
		t.Errorf("style = %q, want blueprint", cfg.Style)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `style = `},
		{"unknown key", `colour = "red"`},
		{"bad style", `style = "neon"`},
		{"bad format", `formats = ["bmp"]`},
		{"bad axis policy", `axis_policy = "maybe"`},
		{"bad layer", `layer = "a/b"`},
		{"negative margin", `margin = -1.0`},
		{"bad backend", "[cache]\nbackend = \"memcached\""},
		{"redis without addr", "[cache]\nbackend = \"redis\""},
		{"negative ttl", "[cache]\nttl = \"-1h\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body), true)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Errorf("err = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestConfigApply(t *testing.T) {
	cfg := Config{Style: "blueprint", Formats: []string{"dxf"}, Margin: pipeline.Margin(5), Layer: "STAIRS"}

	opts := pipeline.Options{Style: "simple"}
	cfg.apply(&opts)

	if opts.Style != "simple" {
		t.Errorf("apply overwrote style: %q", opts.Style)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "dxf" {
		t.Errorf("formats = %v, want [dxf]", opts.Formats)
	}
	if opts.Margin == nil || *opts.Margin != 5 || opts.Layer != "STAIRS" {
		t.Errorf("margin/layer not applied: %+v", opts)
	}
}
