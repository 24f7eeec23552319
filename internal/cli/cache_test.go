package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/hyperstairs/pkg/cache"
)

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", "hyperstairs"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if want := filepath.Join("/tmp/xdg-cache", "hyperstairs"); dir != want {
		t.Errorf("cacheDir() = %q, want %q", dir, want)
	}
}

func TestClearCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	c, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	n, err := clearCache(ctx, dir)
	if err != nil {
		t.Fatalf("clearCache() error: %v", err)
	}
	if n != 3 {
		t.Errorf("clearCache() = %d, want 3", n)
	}
	if _, ok, _ := c.Get(ctx, "a"); ok {
		t.Error("entry survived clearCache")
	}
}

func TestClearCacheMissingDir(t *testing.T) {
	n, err := clearCache(context.Background(), filepath.Join(t.TempDir(), "missing"))
	if err != nil || n != 0 {
		t.Errorf("clearCache(missing) = %d, %v; want 0, nil", n, err)
	}
}
