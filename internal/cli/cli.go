package cli

import (
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/datacanvas/pkg/buildinfo"
	"github.com/matzehuels/datacanvas/pkg/cache"
	"github.com/matzehuels/datacanvas/pkg/config"
	"github.com/matzehuels/datacanvas/pkg/observability"
	"github.com/matzehuels/datacanvas/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the binary name used in help text and completions.
	appName = config.AppName

	// redisPrefix namespaces datacanvas keys in a shared Redis.
	redisPrefix = "datacanvas:"

	// serverScope separates server artifacts from CLI artifacts in one cache.
	serverScope = "server:"
)

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

	out        printer
	configPath string
}

// New creates a CLI that logs to w. Command output goes to stdout.
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{
		Logger: newLogger(w, level),
		out:    printer{w: os.Stdout},
	}
	c.installHooks(level)
	return c
}

// SetOutput redirects command output.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = printer{w: w}
}

// SetLogLevel updates the logger's level. Debug level also traces pipeline,
// cache and server events.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.installHooks(level)
}

func (c *CLI) installHooks(level log.Level) {
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Install()
		return
	}
	observability.Reset()
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Datacanvas draws JSON, YAML and TOML records on a canvas",
		Long: `Datacanvas turns structured records into nested frames and labels laid out
on a grid, and writes the result as SVG, a JSON scene dump, Graphviz DOT or a
node-link diagram.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/datacanvas/config.toml)")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sampleCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

func (c *CLI) loadConfig() (config.Config, error) {
	return config.Load(c.configPath)
}

// newRunner creates a pipeline runner backed by the file cache.
func (c *CLI) newRunner(cfg config.Config, noCache bool) *pipeline.Runner {
	runner := pipeline.NewRunner(c.newFileCache(cfg, noCache), nil, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner
}

// newServerRunner prefers Redis when configured and falls back to the file
// cache when Redis cannot be reached.
func (c *CLI) newServerRunner(ctx context.Context, cfg config.Config) *pipeline.Runner {
	keyer := cache.NewScopedKeyer(nil, serverScope)

	var backend cache.Cache
	if cfg.Cache.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{Addr: cfg.Cache.RedisAddr, Prefix: redisPrefix})
		switch {
		case err == nil:
			c.Logger.Info("using redis cache", "addr", cfg.Cache.RedisAddr)
			backend = rc
		case errors.Is(err, cache.ErrUnavailable):
			c.Logger.Warn("redis unavailable, using file cache", "addr", cfg.Cache.RedisAddr, "err", err)
		default:
			c.Logger.Warn("redis setup failed, using file cache", "err", err)
		}
	}
	if backend == nil {
		backend = c.newFileCache(cfg, false)
	}

	runner := pipeline.NewRunner(backend, keyer, c.Logger)
	runner.TTL = cfg.Cache.TTL.Duration
	return runner
}

func (c *CLI) newFileCache(cfg config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	dir, err := cfg.CacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Warn("cache directory unusable, caching disabled", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}

// =============================================================================
// Options Helpers
// =============================================================================

// pipelineOptions seeds run options from the config file.
func pipelineOptions(cfg config.Config) pipeline.Options {
	return pipeline.Options{
		Grid: pipeline.Grid{
			Columns:     cfg.Grid.Columns,
			RowHeight:   cfg.Grid.RowHeight,
			ColumnWidth: cfg.Grid.ColumnWidth,
			Margin:      pipeline.MarginPtr(cfg.Grid.Margin),
		},
		MeasuredNesting: cfg.Layout.MeasuredNesting,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, f)
		}
	}
	return formats
}
