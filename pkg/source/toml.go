package source

import (
	"io"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// RecordsKey names the array of tables that holds records in a TOML document.
// A document without it is a single record.
const RecordsKey = "records"

// decodeTOML reads a TOML document. Table key order follows the order keys were
// defined in the file.
func decodeTOML(r io.Reader, name string) ([]value.Value, error) {
	var doc map[string]any
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode TOML from %s", name)
	}

	order := make(map[string]int)
	for i, k := range md.Keys() {
		path := tomlPath(k)
		if _, seen := order[path]; !seen {
			order[path] = i
		}
	}

	root, err := fromTOML(doc, "", order)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert TOML from %s", name)
	}
	if recs, ok := root.Get(RecordsKey); ok && root.Len() == 1 && recs.Kind() == value.Array {
		return recs.Items(), nil
	}
	return []value.Value{root}, nil
}

func tomlPath(k toml.Key) string {
	return strings.Join(k, "\x00")
}

func fromTOML(x any, path string, order map[string]int) (value.Value, error) {
	switch t := x.(type) {
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		child := func(k string) string {
			if path == "" {
				return k
			}
			return path + "\x00" + k
		}
		slices.SortFunc(keys, func(a, b string) int {
			ia, oka := order[child(a)]
			ib, okb := order[child(b)]
			switch {
			case oka && okb && ia != ib:
				return ia - ib
			case oka != okb:
				if oka {
					return -1
				}
				return 1
			}
			return strings.Compare(a, b)
		})
		members := make([]value.Member, len(keys))
		for i, k := range keys {
			v, err := fromTOML(t[k], child(k), order)
			if err != nil {
				return value.Value{}, err
			}
			members[i] = value.M(k, v)
		}
		return value.NewObject(members...), nil
	case []map[string]any:
		items := make([]value.Value, len(t))
		for i, m := range t {
			v, err := fromTOML(m, path, order)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewArray(items...), nil
	case []any:
		items := make([]value.Value, len(t))
		for i, item := range t {
			v, err := fromTOML(item, path, order)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewArray(items...), nil
	case interface{ String() string }:
		// Dates, times and local date-times render as their TOML text.
		if _, isValue := x.(value.Value); !isValue {
			return value.NewString(t.String()), nil
		}
	}
	return value.FromAny(x)
}
