package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/datacanvas/pkg/config"
	"github.com/matzehuels/datacanvas/pkg/pipeline"
	"github.com/matzehuels/datacanvas/pkg/source"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// defaultBase names outputs of sources without a file name.
const defaultBase = "canvas"

// errPickCanceled is returned when the record picker is closed without
// confirming.
var errPickCanceled = errors.New("record selection canceled")

// renderOpts holds the flags of the render command. Grid flags only override
// the config file when set.
type renderOpts struct {
	output      string
	formats     string
	inputFormat string
	title       string

	sample bool
	mongo  bool

	mongoURI        string
	mongoDatabase   string
	mongoCollection string
	mongoFilter     string
	mongoLimit      int64
	keepID          bool

	columns         int
	rowHeight       float64
	columnWidth     float64
	margin          float64
	measuredNesting bool

	noCache bool
	refresh bool
	pick    bool
	stdout  bool
}

func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [file|-]",
		Short: "Draw records as nested frames and write the outputs",
		Long: `Render reads records from a JSON, JSONL, YAML or TOML file, from stdin ("-"),
from a MongoDB collection (--mongo) or from the built-in sample (--sample), lays
them out on a grid and writes one file per requested format.

A top-level array yields one record per element; any other document is a
single record.`,
		Example: `  datacanvas render people.json
  datacanvas render people.yaml -f svg,json -o out/people
  cat people.jsonl | datacanvas render - -i jsonl --stdout
  datacanvas render --mongo --mongo-collection people --pick`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args, &opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path")
	f.StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), json, dot, nodelink (comma-separated)")
	f.StringVarP(&opts.inputFormat, "input-format", "i", "", "input format: json, jsonl, yaml, toml (default: from extension, json for stdin)")
	f.StringVar(&opts.title, "title", "", "title written into the SVG")
	f.BoolVar(&opts.sample, "sample", false, "render the built-in sample records")
	f.BoolVar(&opts.mongo, "mongo", false, "read records from MongoDB")
	f.StringVar(&opts.mongoURI, "mongo-uri", "", "MongoDB connection string (overrides config)")
	f.StringVar(&opts.mongoDatabase, "mongo-db", "", "MongoDB database (overrides config)")
	f.StringVar(&opts.mongoCollection, "mongo-collection", "", "MongoDB collection (overrides config)")
	f.StringVar(&opts.mongoFilter, "mongo-filter", "", `query filter as extended JSON, e.g. '{"age": {"$gt": 30}}'`)
	f.Int64Var(&opts.mongoLimit, "mongo-limit", 0, "maximum documents to read (overrides config)")
	f.BoolVar(&opts.keepID, "keep-id", false, "keep the _id field of MongoDB documents")
	f.IntVar(&opts.columns, "columns", config.DefaultColumns, "records per grid row")
	f.Float64Var(&opts.rowHeight, "row-height", config.DefaultRowHeight, "grid row height")
	f.Float64Var(&opts.columnWidth, "column-width", config.DefaultColumnWidth, "grid column width")
	f.Float64Var(&opts.margin, "margin", config.DefaultMargin, "grid margin")
	f.BoolVar(&opts.measuredNesting, "measured-nesting", false, "size nested frames by their content instead of a fixed offset")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	f.BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and records")
	f.BoolVar(&opts.pick, "pick", false, "choose records interactively before rendering")
	f.BoolVar(&opts.stdout, "stdout", false, "write the single requested format to stdout")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, args []string, opts *renderOpts) error {
	ctx := cmd.Context()

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	popts := pipelineOptions(cfg)
	applyRenderFlags(cmd, &popts, opts)
	if err := pipeline.ValidateFormats(popts.Formats); err != nil {
		return err
	}
	if opts.stdout && len(popts.Formats) != 1 {
		return fmt.Errorf("--stdout needs exactly one format, got %d", len(popts.Formats))
	}

	src, base, err := renderSource(cfg, args, opts, cmd.InOrStdin())
	if err != nil {
		return err
	}

	runner := c.newRunner(cfg, opts.noCache)
	defer runner.Close()

	prog := newProgress(c.Logger)
	spin := newSpinner(ctx, cmd.ErrOrStderr(), "Loading "+src.Name())
	spin.Start()
	records, err := runner.Load(ctx, src, popts)
	spin.Stop()
	if err != nil {
		return err
	}
	prog.done("Loaded records", "source", src.Name(), "records", len(records))
	if len(records) == 0 {
		c.out.warning("No records in %s", src.Name())
	}

	if opts.pick {
		if records, err = pickRecords(ctx, records); err != nil {
			return err
		}
	}

	result, err := runner.Render(ctx, records, popts)
	if err != nil {
		return err
	}

	if opts.stdout {
		_, err := cmd.OutOrStdout().Write(result.Artifacts[popts.Formats[0]])
		return err
	}

	paths := outputPaths(base, opts.output, popts.Formats)
	for _, format := range popts.Formats {
		if err := writeArtifact(paths[format], result.Artifacts[format]); err != nil {
			return err
		}
	}

	c.out.success("Rendered %s", src.Name())
	for _, format := range popts.Formats {
		c.out.file(paths[format])
	}
	c.out.stats(result.Stats, result.CacheHit)
	return nil
}

// applyRenderFlags layers explicitly set flags over config-derived options.
func applyRenderFlags(cmd *cobra.Command, popts *pipeline.Options, opts *renderOpts) {
	f := cmd.Flags()
	if f.Changed("columns") {
		popts.Grid.Columns = opts.columns
	}
	if f.Changed("row-height") {
		popts.Grid.RowHeight = opts.rowHeight
	}
	if f.Changed("column-width") {
		popts.Grid.ColumnWidth = opts.columnWidth
	}
	if f.Changed("margin") {
		popts.Grid.Margin = pipeline.MarginPtr(opts.margin)
	}
	if f.Changed("measured-nesting") {
		popts.MeasuredNesting = opts.measuredNesting
	}
	popts.Formats = parseFormats(opts.formats)
	popts.Title = opts.title
	popts.Refresh = opts.refresh
}

// renderSource resolves the record source and the base name for outputs.
func renderSource(cfg config.Config, args []string, opts *renderOpts, stdin io.Reader) (source.Source, string, error) {
	switch {
	case opts.sample && opts.mongo:
		return nil, "", errors.New("--sample and --mongo are mutually exclusive")
	case (opts.sample || opts.mongo) && len(args) > 0:
		return nil, "", fmt.Errorf("unexpected input %q with --sample or --mongo", args[0])
	case opts.sample:
		return source.Sample(), "sample", nil
	case opts.mongo:
		m, err := mongoSource(cfg, opts)
		if err != nil {
			return nil, "", err
		}
		return m, m.Collection, nil
	case len(args) == 0 || args[0] == "-":
		format := opts.inputFormat
		if format == "" {
			format = source.FormatJSON
		}
		return source.Reader{R: stdin, Format: format, Label: "stdin"}, defaultBase, nil
	}
	return source.File{Path: args[0], Format: opts.inputFormat}, basePath("", args[0]), nil
}

func mongoSource(cfg config.Config, opts *renderOpts) (source.Mongo, error) {
	m := source.Mongo{
		URI:        firstNonEmpty(opts.mongoURI, cfg.Mongo.URI),
		Database:   firstNonEmpty(opts.mongoDatabase, cfg.Mongo.Database),
		Collection: firstNonEmpty(opts.mongoCollection, cfg.Mongo.Collection),
		Limit:      cfg.Mongo.Limit,
		ExcludeID:  !opts.keepID,
	}
	if opts.mongoLimit > 0 {
		m.Limit = opts.mongoLimit
	}
	if opts.mongoFilter != "" {
		if err := bson.UnmarshalExtJSON([]byte(opts.mongoFilter), false, &m.Filter); err != nil {
			return source.Mongo{}, fmt.Errorf("invalid --mongo-filter: %w", err)
		}
	}
	return m, nil
}

// pickRecords runs the interactive record picker.
func pickRecords(ctx context.Context, records []value.Value) ([]value.Value, error) {
	if len(records) == 0 {
		return records, nil
	}
	p := tea.NewProgram(NewRecordListModel(records), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("record picker: %w", err)
	}
	m, ok := final.(RecordListModel)
	if !ok || m.Canceled || !m.Done {
		return nil, errPickCanceled
	}
	return m.Selection(), nil
}

// basePath derives the output base from an explicit output or the input path,
// stripping a known format extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	// nodelink before svg: "x.nodelink.svg" also ends in ".svg".
	for _, format := range []string{pipeline.FormatNodelink, pipeline.FormatSVG, pipeline.FormatJSON, pipeline.FormatDOT} {
		if ext := "." + pipeline.Extension(format); strings.HasSuffix(output, ext) {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// outputPaths maps each format to its file. A single format with an explicit
// output that has an extension is written to exactly that path.
func outputPaths(base, output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if output != "" && len(formats) == 1 && filepath.Ext(output) != "" {
		paths[formats[0]] = output
		return paths
	}
	if output != "" {
		base = basePath(output, "")
	}
	for _, format := range formats {
		paths[format] = base + "." + pipeline.Extension(format)
	}
	return paths
}

func writeArtifact(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
