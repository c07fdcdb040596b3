package source

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// File reads records from a local file. Format is inferred from the extension
// when empty.
type File struct {
	Path   string
	Format string
}

func (f File) Name() string { return f.Path }

func (f File) Records(ctx context.Context) ([]value.Value, error) {
	if err := errors.ValidatePath(f.Path); err != nil {
		return nil, err
	}
	format := f.Format
	if format == "" {
		var err error
		if format, err = DetectFormat(f.Path); err != nil {
			return nil, err
		}
	}

	fh, err := os.Open(f.Path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s not found", f.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Path, err)
	}
	defer fh.Close()

	return Reader{R: fh, Format: format, Label: f.Path}.Records(ctx)
}

// Reader decodes records from R in the given Format.
type Reader struct {
	R      io.Reader
	Format string
	Label  string
}

func (r Reader) Name() string {
	if r.Label != "" {
		return r.Label
	}
	return "reader"
}

func (r Reader) Records(ctx context.Context) ([]value.Value, error) {
	if r.Format != "" {
		if err := errors.ValidateFormat(r.Format, ValidFormats); err != nil {
			return nil, err
		}
	}
	switch r.Format {
	case FormatJSONL:
		return decodeJSONL(r.R, r.Name())
	case FormatYAML:
		return decodeYAML(r.R, r.Name())
	case FormatTOML:
		return decodeTOML(r.R, r.Name())
	}
	doc, err := value.Decode(r.R)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode JSON from %s", r.Name())
	}
	return Split(doc), nil
}

// decodeJSONL reads one record per non-blank line.
func decodeJSONL(r io.Reader, name string) ([]value.Value, error) {
	var records []value.Value
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := bytes.TrimSpace(sc.Bytes())
		if len(text) == 0 {
			continue
		}
		v, err := value.Parse(text)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "%s:%d", name, line)
		}
		if !v.IsNull() {
			records = append(records, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return records, nil
}
