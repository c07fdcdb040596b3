package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/datacanvas/pkg/render/sink"
	"github.com/matzehuels/datacanvas/pkg/scene"
)

// RenderSnapshot serializes snap in each of opts.Formats.
func RenderSnapshot(ctx context.Context, snap scene.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := renderFormat(ctx, snap, format, opts)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderFormat(ctx context.Context, snap scene.Snapshot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []sink.SVGOption
		if opts.Title != "" {
			svgOpts = append(svgOpts, sink.WithTitle(opts.Title))
		}
		return sink.RenderSVG(snap, svgOpts...), nil
	case FormatJSON:
		return sink.RenderJSON(snap)
	case FormatDOT:
		return []byte(sink.ToDOT(snap, sink.DOTOptions{})), nil
	case FormatNodelink:
		return sink.RenderNodelinkSVG(ctx, sink.ToDOT(snap, sink.DOTOptions{}))
	}
	return nil, fmt.Errorf("unsupported format: %s", format)
}
