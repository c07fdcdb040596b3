package cli

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/datacanvas/pkg/cache"
	"github.com/matzehuels/datacanvas/pkg/config"
)

func TestCachePath(t *testing.T) {
	home := t.TempDir()
	stdout, _, err := runCLIWithCacheHome(t, home, "cache", "path")
	if err != nil {
		t.Fatalf("cache path error: %v", err)
	}
	want := filepath.Join(home, appName)
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("cache path = %q, want %q", got, want)
	}
}

func TestCacheClear(t *testing.T) {
	home := t.TempDir()
	fc, err := cache.NewFileCache(filepath.Join(home, appName))
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	for _, k := range []string{"artifact:a", "artifact:b", "source:c"} {
		if err := fc.Set(ctx, k, []byte("x"), time.Hour); err != nil {
			t.Fatal(err)
		}
	}

	_, printed, err := runCLIWithCacheHome(t, home, "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(printed, "Cleared 3 cached entries") {
		t.Errorf("output = %q, want 3 cleared", printed)
	}
	if _, hit, _ := fc.Get(ctx, "artifact:a"); hit {
		t.Error("entry survived cache clear")
	}
}

func TestCacheClearEmpty(t *testing.T) {
	_, printed, err := runCLIWithCacheHome(t, t.TempDir(), "cache", "clear")
	if err != nil {
		t.Fatalf("cache clear error: %v", err)
	}
	if !strings.Contains(printed, "Cache is empty") {
		t.Errorf("output = %q, want empty notice", printed)
	}
}

func TestCacheKind(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if got := cacheKind(fc); !strings.HasPrefix(got, "file ") {
		t.Errorf("cacheKind(file) = %q", got)
	}
	if got := cacheKind(cache.NewNullCache()); got != "disabled" {
		t.Errorf("cacheKind(null) = %q, want disabled", got)
	}
}

func TestNewServerRunnerFallsBackWithoutRedis(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()

	c := New(io.Discard, LogInfo)
	runner := c.newServerRunner(context.Background(), cfg)
	defer runner.Close()
	if _, ok := runner.Cache.(*cache.FileCache); !ok {
		t.Errorf("cache = %T, want *cache.FileCache", runner.Cache)
	}
	if got := runner.Keyer.SourceKey("x"); !strings.HasPrefix(got, serverScope) {
		t.Errorf("SourceKey = %q, want %q prefix", got, serverScope)
	}
}

func runCLIWithCacheHome(t *testing.T, cacheHome string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", cacheHome)

	var out, ui strings.Builder
	c := New(io.Discard, LogInfo)
	c.SetOutput(&ui)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), ui.String(), err
}
