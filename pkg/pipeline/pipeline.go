// Package pipeline runs the load → visualize → render flow shared by the CLI
// and the HTTP server.
//
// # Stages
//
//  1. Load: read records from a [source.Source]
//  2. Visualize: place each record on a grid and draw it into a [scene.Scene]
//  3. Render: serialize the resulting snapshot as SVG, JSON, DOT or a
//     Graphviz node-link SVG
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	records, err := runner.Load(ctx, source.Sample(), pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Render(ctx, records, pipeline.Options{Formats: []string{"svg"}})
//	svg := result.Artifacts["svg"]
//
// Visualize can also drive any other Scene implementation directly:
//
//	stats, err := runner.Visualize(ctx, myScene, records, opts)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/datacanvas/pkg/cache"
	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/layout"
	"github.com/matzehuels/datacanvas/pkg/scene"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	DefaultColumns     = 2
	DefaultRowHeight   = 500.0
	DefaultColumnWidth = 400.0
	DefaultMargin      = 50.0
)

// Output formats.
const (
	FormatSVG      = "svg"
	FormatJSON     = "json"
	FormatDOT      = "dot"
	FormatNodelink = "nodelink"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:      true,
	FormatJSON:     true,
	FormatDOT:      true,
	FormatNodelink: true,
}

// Extension returns the file extension for format.
func Extension(format string) string {
	if format == FormatNodelink {
		return "nodelink.svg"
	}
	return format
}

// =============================================================================
// Grid
// =============================================================================

// Grid places top-level records in row-major order.
type Grid struct {
	Columns     int     `json:"columns,omitempty"`
	RowHeight   float64 `json:"row_height,omitempty"`
	ColumnWidth float64 `json:"column_width,omitempty"`
	// Margin is nil when unset. An explicit zero is kept.
	Margin *float64 `json:"margin,omitempty"`
}

// MarginPtr returns a Grid margin, for literals and flag values.
func MarginPtr(v float64) *float64 { return &v }

// SetDefaults fills zero fields and a missing or negative margin.
func (g *Grid) SetDefaults() {
	if g.Columns <= 0 {
		g.Columns = DefaultColumns
	}
	if g.RowHeight <= 0 {
		g.RowHeight = DefaultRowHeight
	}
	if g.ColumnWidth <= 0 {
		g.ColumnWidth = DefaultColumnWidth
	}
	if g.Margin == nil || *g.Margin < 0 {
		g.Margin = MarginPtr(DefaultMargin)
	}
}

func (g Grid) margin() float64 {
	if g.Margin == nil {
		return DefaultMargin
	}
	return *g.Margin
}

// Position returns the top-left corner of record i.
func (g Grid) Position(i int) (x, y float64) {
	row, col := i/g.Columns, i%g.Columns
	m := g.margin()
	return m + float64(col)*g.ColumnWidth, m + float64(row)*g.RowHeight
}

// =============================================================================
// Options
// =============================================================================

// Options configures a pipeline run. It decodes from API request bodies.
type Options struct {
	Grid            Grid     `json:"grid,omitempty"`
	MeasuredNesting bool     `json:"measured_nesting,omitempty"`
	Formats         []string `json:"formats,omitempty"`
	// Title is written into SVG output.
	Title string `json:"title,omitempty"`
	// Refresh bypasses cached artifacts and source records.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger    `json:"-"`
	IDs    scene.IDSource `json:"-"`
}

// Result is the output of Runner.Render.
type Result struct {
	// Snapshot is empty when every artifact came from the cache.
	Snapshot    scene.Snapshot
	RecordsHash string
	Artifacts   map[string][]byte
	Stats       Stats
	CacheHit    bool
}

// Stats summarizes a visualization.
type Stats struct {
	Records    int           `json:"records"`
	Containers int           `json:"containers"`
	Labels     int           `json:"labels"`
	Images     int           `json:"images"`
	Fallbacks  int           `json:"fallbacks"`
	Duration   time.Duration `json:"duration"`
}

// Nodes is the number of scene nodes drawn. Fallbacks are labels.
func (s Stats) Nodes() int { return s.Containers + s.Labels + s.Images }

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, json, dot, nodelink)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// SetDefaults fills the grid, formats and logger.
func (o *Options) SetDefaults() {
	o.Grid.SetDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks formats.
func (o *Options) Validate() error {
	o.SetDefaults()
	return ValidateFormats(o.Formats)
}

// EngineOptions returns the layout options implied by o.
func (o *Options) EngineOptions() []layout.Option {
	opts := []layout.Option{layout.WithLogger(o.Logger), layout.WithIDs(o.IDs)}
	if o.MeasuredNesting {
		opts = append(opts, layout.WithMeasuredNesting())
	}
	return opts
}

// ArtifactKeyOpts returns cache key options for one output format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:          format,
		Columns:         o.Grid.Columns,
		RowHeight:       o.Grid.RowHeight,
		ColumnWidth:     o.Grid.ColumnWidth,
		Margin:          o.Grid.margin(),
		MeasuredNesting: o.MeasuredNesting,
		Title:           o.Title,
	}
}
