package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/datacanvas/pkg/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Grid.Columns != 2 || c.Grid.RowHeight != 500 || c.Grid.ColumnWidth != 400 || c.Grid.Margin != 50 {
		t.Errorf("Default grid = %+v, want 2/500/400/50", c.Grid)
	}
	if c.Layout.MeasuredNesting {
		t.Error("MeasuredNesting should default to false")
	}
	if c.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", c.Cache.TTL, DefaultCacheTTL)
	}
	if c.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", c.Server.Addr)
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[grid]
columns = 3
margin = 10

[layout]
measured_nesting = true

[cache]
ttl = "90m"
redis_addr = "localhost:6379"

[mongo]
uri = "mongodb://localhost:27017"
database = "crm"
collection = "people"
`)
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Grid.Columns != 3 {
		t.Errorf("Grid.Columns = %d, want 3", c.Grid.Columns)
	}
	if c.Grid.Margin != 10 {
		t.Errorf("Grid.Margin = %v, want 10", c.Grid.Margin)
	}
	if c.Grid.RowHeight != 500 {
		t.Errorf("Grid.RowHeight = %v, want default 500", c.Grid.RowHeight)
	}
	if !c.Layout.MeasuredNesting {
		t.Error("Layout.MeasuredNesting = false, want true")
	}
	if c.Cache.TTL.Duration != 90*time.Minute {
		t.Errorf("Cache.TTL = %v, want 90m", c.Cache.TTL)
	}
	if c.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache.RedisAddr = %q", c.Cache.RedisAddr)
	}
	if c.Mongo.Collection != "people" || c.Mongo.Limit != DefaultMongoLimit {
		t.Errorf("Mongo = %+v", c.Mongo)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"syntax", "[grid\ncolumns = 2", errors.ErrCodeInvalidInput},
		{"unknown key", "[grid]\nrows = 2\n", errors.ErrCodeInvalidInput},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("explicit missing path error = %v, want FILE_NOT_FOUND", err)
	}

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if c.Grid.Columns != DefaultColumns {
		t.Errorf("Grid.Columns = %d, want default", c.Grid.Columns)
	}
}

func TestLoadZeroMargin(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"explicit zero", "[grid]\nmargin = 0\n", 0},
		{"missing key", "[grid]\ncolumns = 4\n", DefaultMargin},
		{"negative", "[grid]\nmargin = -3\n", DefaultMargin},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Load(writeConfig(t, tt.body))
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if c.Grid.Margin != tt.want {
				t.Errorf("Grid.Margin = %v, want %v", c.Grid.Margin, tt.want)
			}
		})
	}
}

func TestPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	p, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, AppName, "config.toml"); p != want {
		t.Errorf("Path() = %q, want %q", p, want)
	}
}

func TestCacheDir(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", dir)
	c := Default()
	got, err := c.CacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, AppName); got != want {
		t.Errorf("CacheDir() = %q, want %q", got, want)
	}

	c.Cache.Dir = "/tmp/custom"
	if got, _ := c.CacheDir(); got != "/tmp/custom" {
		t.Errorf("CacheDir() with override = %q", got)
	}
}

func TestEncode(t *testing.T) {
	out, err := Default().Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	for _, want := range []string{"[grid]", "columns = 2", `ttl = "168h0m0s"`, `addr = ":8080"`} {
		if !strings.Contains(out, want) {
			t.Errorf("Encode() missing %q:\n%s", want, out)
		}
	}

	path := writeConfig(t, out)
	if _, err := Load(path); err != nil {
		t.Errorf("Load(Encode()) error: %v", err)
	}
}
