package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datacanvas/pkg/cache"
	"github.com/matzehuels/datacanvas/pkg/layout"
	"github.com/matzehuels/datacanvas/pkg/observability"
	"github.com/matzehuels/datacanvas/pkg/scene"
	"github.com/matzehuels/datacanvas/pkg/source"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// Runner executes pipeline stages with caching. It holds no per-run state, so
// one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// TTL overrides cache.ArtifactTTL when positive.
	TTL time.Duration
}

// NewRunner fills nil arguments with a NullCache, the default keyer and the
// default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Cacheable is implemented by sources whose records are worth caching, such as
// remote databases.
type Cacheable interface {
	CacheRecords() bool
}

// Load reads records from src. Sources implementing Cacheable are served from
// the cache unless opts.Refresh is set.
func (r *Runner) Load(ctx context.Context, src source.Source, opts Options) ([]value.Value, error) {
	hooks := observability.Pipeline()
	hooks.OnLoadStart(ctx, src.Name())
	start := time.Now()

	records, err := r.load(ctx, src, opts)
	hooks.OnLoadComplete(ctx, src.Name(), len(records), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("loaded records", "source", src.Name(), "records", len(records), "duration", time.Since(start))
	return records, nil
}

func (r *Runner) load(ctx context.Context, src source.Source, opts Options) ([]value.Value, error) {
	c, ok := src.(Cacheable)
	if !ok || !c.CacheRecords() {
		return src.Records(ctx)
	}

	key := r.Keyer.SourceKey(src.Name())
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if doc, err := value.Parse(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "source")
				return doc.Items(), nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "source")
	}

	records, err := src.Records(ctx)
	if err != nil {
		return nil, err
	}
	if data, err := value.NewArray(records...).MarshalJSON(); err == nil {
		if err := r.Cache.Set(ctx, key, data, cache.SourceTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "source", len(data))
		}
	}
	return records, nil
}

// Visualize clears sc and draws records on the grid, then fits the view.
// Null records leave their grid cell empty. A scene error other than an asset
// fault aborts the run.
func (r *Runner) Visualize(ctx context.Context, sc scene.Scene, records []value.Value, opts Options) (Stats, error) {
	r.applyLogger(&opts)
	opts.SetDefaults()

	hooks := observability.Pipeline()
	hooks.OnVisualizeStart(ctx, len(records))
	start := time.Now()

	stats, err := visualize(ctx, sc, records, opts)
	stats.Duration = time.Since(start)
	hooks.OnVisualizeComplete(ctx, stats.Nodes(), stats.Duration, err)
	if err != nil {
		return stats, err
	}

	r.Logger.Info("visualized records",
		"records", stats.Records,
		"containers", stats.Containers,
		"labels", stats.Labels,
		"images", stats.Images,
		"fallbacks", stats.Fallbacks,
		"duration", stats.Duration)
	return stats, nil
}

func visualize(ctx context.Context, sc scene.Scene, records []value.Value, opts Options) (Stats, error) {
	stats := Stats{Records: len(records)}
	if err := sc.ClearAll(); err != nil {
		return stats, fmt.Errorf("clear scene: %w", err)
	}

	engine := layout.New(sc, opts.EngineOptions()...)
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return addEngineStats(stats, engine.Stats()), err
		}
		x, y := opts.Grid.Position(i)
		if _, err := engine.Traverse(rec, "", x, y, 0); err != nil {
			return addEngineStats(stats, engine.Stats()), fmt.Errorf("record %d: %w", i, err)
		}
	}
	stats = addEngineStats(stats, engine.Stats())

	if err := sc.FitViewToContent(); err != nil {
		return stats, fmt.Errorf("fit view: %w", err)
	}
	return stats, nil
}

func addEngineStats(s Stats, e layout.Stats) Stats {
	s.Containers = e.Containers
	s.Labels = e.Labels
	s.Images = e.Images
	s.Fallbacks = e.Fallbacks
	return s
}

// Render visualizes records into an in-memory scene and serializes it in every
// requested format. When all formats are cached the scene is not built.
func (r *Runner) Render(ctx context.Context, records []value.Value, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	hash, err := RecordsHash(records)
	if err != nil {
		return nil, fmt.Errorf("hash records: %w", err)
	}
	result := &Result{RecordsHash: hash, Stats: Stats{Records: len(records)}}

	if !opts.Refresh {
		if artifacts, ok := r.cachedArtifacts(ctx, hash, opts); ok {
			observability.Cache().OnCacheHit(ctx, "artifact")
			r.Logger.Debug("artifacts from cache", "formats", opts.Formats, "hash", hash[:12])
			result.Artifacts = artifacts
			result.CacheHit = true
			return result, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	mem := scene.NewMemory()
	stats, err := r.Visualize(ctx, mem, records, opts)
	result.Stats = stats
	if err != nil {
		return nil, fmt.Errorf("visualize: %w", err)
	}
	result.Snapshot = mem.Snapshot()

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := RenderSnapshot(ctx, result.Snapshot, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts

	for format, data := range artifacts {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, r.artifactTTL()); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	r.Logger.Info("rendered outputs", "formats", opts.Formats, "duration", time.Since(start))
	return result, nil
}

func (r *Runner) cachedArtifacts(ctx context.Context, hash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(hash, opts.ArtifactKeyOpts(format))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			return nil, false
		}
		artifacts[format] = data
	}
	return artifacts, true
}

// RecordsHash hashes the canonical JSON of records. Key order is significant.
func RecordsHash(records []value.Value) (string, error) {
	data, err := value.NewArray(records...).MarshalJSON()
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.ArtifactTTL
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on opts if none is set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
