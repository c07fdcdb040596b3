// Package config loads datacanvas settings from a TOML file.
//
// The file lives at $XDG_CONFIG_HOME/datacanvas/config.toml (or
// ~/.config/datacanvas/config.toml). Every field is optional; missing values
// take the defaults below, and command-line flags override both.
//
//	[grid]
//	columns = 2
//	row_height = 500
//	column_width = 400
//	margin = 50
//
//	[layout]
//	measured_nesting = false
//
//	[cache]
//	ttl = "168h"
//	redis_addr = "localhost:6379"
//
//	[server]
//	addr = ":8080"
//
//	[mongo]
//	uri = "mongodb://localhost:27017"
//	database = "crm"
//	collection = "people"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/datacanvas/pkg/errors"
)

// AppName names the config and cache directories.
const AppName = "datacanvas"

// Defaults.
const (
	DefaultColumns     = 2
	DefaultRowHeight   = 500
	DefaultColumnWidth = 400
	DefaultMargin      = 50
	DefaultServerAddr  = ":8080"
	DefaultCacheTTL    = 7 * 24 * time.Hour
	DefaultMongoLimit  = 100
)

// Config is the root of config.toml.
type Config struct {
	Grid   Grid   `toml:"grid"`
	Layout Layout `toml:"layout"`
	Cache  Cache  `toml:"cache"`
	Server Server `toml:"server"`
	Mongo  Mongo  `toml:"mongo"`
}

// Grid places top-level records.
type Grid struct {
	Columns     int     `toml:"columns"`
	RowHeight   float64 `toml:"row_height"`
	ColumnWidth float64 `toml:"column_width"`
	Margin      float64 `toml:"margin"`
}

type Layout struct {
	MeasuredNesting bool `toml:"measured_nesting"`
}

type Cache struct {
	// Dir overrides the file cache location.
	Dir string `toml:"dir"`
	// TTL is a Go duration string such as "24h".
	TTL       Duration `toml:"ttl"`
	RedisAddr string   `toml:"redis_addr"`
}

type Server struct {
	Addr string `toml:"addr"`
}

type Mongo struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
	Limit      int64  `toml:"limit"`
}

// Duration decodes TOML strings like "90m".
type Duration struct{ time.Duration }

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns a Config with every default applied.
func Default() Config {
	c := Config{Grid: Grid{Margin: DefaultMargin}}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields. A zero margin is a valid setting, so only a
// negative one is replaced; Load starts from Default to tell it apart from a
// missing key.
func (c *Config) SetDefaults() {
	if c.Grid.Columns <= 0 {
		c.Grid.Columns = DefaultColumns
	}
	if c.Grid.RowHeight <= 0 {
		c.Grid.RowHeight = DefaultRowHeight
	}
	if c.Grid.ColumnWidth <= 0 {
		c.Grid.ColumnWidth = DefaultColumnWidth
	}
	if c.Grid.Margin < 0 {
		c.Grid.Margin = DefaultMargin
	}
	if c.Cache.TTL.Duration <= 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
	if c.Mongo.Limit <= 0 {
		c.Mongo.Limit = DefaultMongoLimit
	}
}

// Path returns the config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache location, honoring Cache.Dir and
// XDG_CACHE_HOME.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Load reads path. An empty path means the default location, and a missing
// default file yields the defaults.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if os.IsNotExist(err) && !explicit {
		return Default(), nil
	}
	if os.IsNotExist(err) {
		return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s not found", path)
	}
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidInput, "config %s: unknown key %s", path, undecoded[0])
	}
	c.SetDefaults()
	return c, nil
}

// Encode renders c as TOML.
func (c Config) Encode() (string, error) {
	var sb strings.Builder
	if err := toml.NewEncoder(&sb).Encode(c); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	return sb.String(), nil
}
