package cli

import (
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/matzehuels/datacanvas/pkg/config"
	"github.com/matzehuels/datacanvas/pkg/pipeline"
	"github.com/matzehuels/datacanvas/pkg/source"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,json,dot", []string{"svg", "json", "dot"}},
		{"svg, nodelink,", []string{"svg", "nodelink"}},
	}

	for _, tt := range tests {
		got := parseFormats(tt.input)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "data/people.json", "data/people"},
		{"", "people.yaml", "people"},
		{"out/canvas.svg", "", "out/canvas"},
		{"out/canvas.nodelink.svg", "", "out/canvas"},
		{"out/canvas.dot", "", "out/canvas"},
		{"out/canvas", "", "out/canvas"},
		{"out/canvas.png", "", "out/canvas.png"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	tests := []struct {
		name    string
		base    string
		output  string
		formats []string
		want    map[string]string
	}{
		{
			name:    "derived from input",
			base:    "people",
			formats: []string{"svg", "nodelink"},
			want:    map[string]string{"svg": "people.svg", "nodelink": "people.nodelink.svg"},
		},
		{
			name:    "exact single output",
			base:    "people",
			output:  "render.svg",
			formats: []string{"svg"},
			want:    map[string]string{"svg": "render.svg"},
		},
		{
			name:    "output as base",
			base:    "people",
			output:  "out/render.svg",
			formats: []string{"svg", "json"},
			want:    map[string]string{"svg": "out/render.svg", "json": "out/render.json"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputPaths(tt.base, tt.output, tt.formats)
			if len(got) != len(tt.want) {
				t.Fatalf("outputPaths() = %v, want %v", got, tt.want)
			}
			for f, p := range tt.want {
				if got[f] != p {
					t.Errorf("outputPaths()[%q] = %q, want %q", f, got[f], p)
				}
			}
		})
	}
}

func TestRenderSource(t *testing.T) {
	cfg := config.Default()
	cfg.Mongo.URI = "mongodb://localhost:27017"
	cfg.Mongo.Database = "crm"
	cfg.Mongo.Collection = "people"

	tests := []struct {
		name     string
		args     []string
		opts     renderOpts
		wantName string
		wantBase string
	}{
		{"file", []string{"data/people.toml"}, renderOpts{}, "data/people.toml", "data/people"},
		{"stdin", []string{"-"}, renderOpts{}, "stdin", "canvas"},
		{"no args", nil, renderOpts{}, "stdin", "canvas"},
		{"sample", nil, renderOpts{sample: true}, "sample", "sample"},
		{"mongo from config", nil, renderOpts{mongo: true}, "mongo:crm.people", "people"},
		{"mongo flags win", nil, renderOpts{mongo: true, mongoCollection: "orders"}, "mongo:crm.orders", "orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, base, err := renderSource(cfg, tt.args, &tt.opts, strings.NewReader(""))
			if err != nil {
				t.Fatalf("renderSource() error: %v", err)
			}
			if src.Name() != tt.wantName {
				t.Errorf("Name() = %q, want %q", src.Name(), tt.wantName)
			}
			if base != tt.wantBase {
				t.Errorf("base = %q, want %q", base, tt.wantBase)
			}
		})
	}
}

func TestRenderSourceStdinFormat(t *testing.T) {
	src, _, err := renderSource(config.Default(), nil, &renderOpts{inputFormat: "yaml"}, strings.NewReader("a: 1\n"))
	if err != nil {
		t.Fatal(err)
	}
	r, ok := src.(source.Reader)
	if !ok {
		t.Fatalf("source = %T, want source.Reader", src)
	}
	if r.Format != source.FormatYAML {
		t.Errorf("Format = %q, want yaml", r.Format)
	}
}

func TestMongoSource(t *testing.T) {
	cfg := config.Default()
	m, err := mongoSource(cfg, &renderOpts{
		mongoURI:        "mongodb://db:27017",
		mongoDatabase:   "crm",
		mongoCollection: "people",
		mongoFilter:     `{"age": {"$gt": 30}}`,
		mongoLimit:      5,
	})
	if err != nil {
		t.Fatalf("mongoSource() error: %v", err)
	}
	if m.Limit != 5 {
		t.Errorf("Limit = %d, want 5", m.Limit)
	}
	if !m.ExcludeID {
		t.Error("ExcludeID = false, want true without --keep-id")
	}
	if len(m.Filter) != 1 || m.Filter[0].Key != "age" {
		t.Errorf("Filter = %v, want age filter", m.Filter)
	}

	m, err = mongoSource(cfg, &renderOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if m.Limit != config.DefaultMongoLimit {
		t.Errorf("Limit = %d, want config default %d", m.Limit, config.DefaultMongoLimit)
	}

	if _, err := mongoSource(cfg, &renderOpts{mongoFilter: "{not json"}); err == nil {
		t.Error("expected error for invalid filter")
	}
}

func TestApplyRenderFlags(t *testing.T) {
	cfg := config.Default()
	cfg.Grid.Columns = 3
	cfg.Layout.MeasuredNesting = true

	var opts renderOpts
	cmd := &cobra.Command{}
	cmd.Flags().IntVar(&opts.columns, "columns", config.DefaultColumns, "")
	cmd.Flags().Float64Var(&opts.margin, "margin", config.DefaultMargin, "")
	cmd.Flags().BoolVar(&opts.measuredNesting, "measured-nesting", false, "")
	if err := cmd.Flags().Parse([]string{"--margin", "10"}); err != nil {
		t.Fatal(err)
	}
	opts.formats = "json"

	popts := pipelineOptions(cfg)
	applyRenderFlags(cmd, &popts, &opts)

	if popts.Grid.Columns != 3 {
		t.Errorf("Columns = %d, want config value 3", popts.Grid.Columns)
	}
	if m := popts.Grid.Margin; m == nil || *m != 10 {
		t.Errorf("Margin = %v, want flag value 10", m)
	}
	if !popts.MeasuredNesting {
		t.Error("MeasuredNesting = false, want config value true")
	}
	if len(popts.Formats) != 1 || popts.Formats[0] != pipeline.FormatJSON {
		t.Errorf("Formats = %v, want [json]", popts.Formats)
	}
}

func TestApplyRenderFlagsZeroMargin(t *testing.T) {
	var opts renderOpts
	cmd := &cobra.Command{}
	cmd.Flags().Float64Var(&opts.margin, "margin", config.DefaultMargin, "")
	if err := cmd.Flags().Parse([]string{"--margin", "0"}); err != nil {
		t.Fatal(err)
	}

	popts := pipelineOptions(config.Default())
	applyRenderFlags(cmd, &popts, &opts)
	popts.SetDefaults()

	if x, y := popts.Grid.Position(0); x != 0 || y != 0 {
		t.Errorf("Position(0) = (%v,%v), want (0,0) for --margin 0", x, y)
	}
}
