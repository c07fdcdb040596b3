package source

import (
	"context"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// Source yields records to visualize.
type Source interface {
	// Name describes the source for logs.
	Name() string
	Records(ctx context.Context) ([]value.Value, error)
}

// Input formats.
const (
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
	FormatYAML  = "yaml"
	FormatTOML  = "toml"
)

// ValidFormats is the set of supported input formats.
var ValidFormats = map[string]bool{
	FormatJSON:  true,
	FormatJSONL: true,
	FormatYAML:  true,
	FormatTOML:  true,
}

// DetectFormat infers the input format from a file name.
func DetectFormat(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".jsonl", ".ndjson":
		return FormatJSONL, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer input format of %s (use .json, .jsonl, .yaml or .toml)", path)
}

// Split turns one decoded document into records.
func Split(doc value.Value) []value.Value {
	switch doc.Kind() {
	case value.Null:
		return nil
	case value.Array:
		return doc.Items()
	}
	return []value.Value{doc}
}

//go:embed sample.json
var sampleJSON []byte

type sample struct{}

// Sample returns the built-in demo dataset.
func Sample() Source { return sample{} }

func (sample) Name() string { return "sample" }

func (sample) Records(ctx context.Context) ([]value.Value, error) {
	doc, err := value.Parse(sampleJSON)
	if err != nil {
		return nil, fmt.Errorf("decode sample data: %w", err)
	}
	return Split(doc), nil
}

// SampleJSON returns the raw sample dataset.
func SampleJSON() []byte {
	out := make([]byte, len(sampleJSON))
	copy(out, sampleJSON)
	return out
}
