package source

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/datacanvas/pkg/errors"
	"github.com/matzehuels/datacanvas/pkg/value"
)

// decodeYAML reads every document in r. A single document is split like JSON;
// a multi-document stream yields one record per document.
func decodeYAML(r io.Reader, name string) ([]value.Value, error) {
	dec := yaml.NewDecoder(r)
	var docs []value.Value
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode YAML from %s", name)
		}
		v, err := fromYAML(&node)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "convert YAML from %s", name)
		}
		docs = append(docs, v)
	}

	if len(docs) == 1 {
		return Split(docs[0]), nil
	}
	records := make([]value.Value, 0, len(docs))
	for _, d := range docs {
		if !d.IsNull() {
			records = append(records, d)
		}
	}
	return records, nil
}

// maxYAMLNodes bounds how many nodes one document may expand to once aliases
// are followed.
const maxYAMLNodes = 1 << 20

// yamlExpander converts a node tree, following aliases. Anchors being
// expanded are tracked so a self-referencing anchor fails instead of
// recursing forever.
type yamlExpander struct {
	active map[*yaml.Node]bool
	nodes  int
}

func fromYAML(n *yaml.Node) (value.Value, error) {
	x := &yamlExpander{active: make(map[*yaml.Node]bool)}
	return x.convert(n)
}

// convert keeps mapping order. A repeated mapping key keeps its first
// position and takes the last value.
func (x *yamlExpander) convert(n *yaml.Node) (value.Value, error) {
	if x.nodes++; x.nodes > maxYAMLNodes {
		return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "line %d: document expands to more than %d nodes", n.Line, maxYAMLNodes)
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.NewNull(), nil
		}
		return x.convert(n.Content[0])
	case yaml.AliasNode:
		if n.Alias == nil {
			return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "line %d: unknown anchor %q", n.Line, n.Value)
		}
		if x.active[n.Alias] {
			return value.Value{}, errors.New(errors.ErrCodeInvalidInput, "line %d: anchor %q contains itself", n.Line, n.Value)
		}
		x.active[n.Alias] = true
		defer delete(x.active, n.Alias)
		return x.convert(n.Alias)
	case yaml.SequenceNode:
		items := make([]value.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := x.convert(c)
			if err != nil {
				return value.Value{}, err
			}
			items[i] = v
		}
		return value.NewArray(items...), nil
	case yaml.MappingNode:
		members := make([]value.Member, 0, len(n.Content)/2)
		index := make(map[string]int, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			v, err := x.convert(n.Content[i+1])
			if err != nil {
				return value.Value{}, err
			}
			key := n.Content[i].Value
			if j, ok := index[key]; ok {
				members[j].Value = v
				continue
			}
			index[key] = len(members)
			members = append(members, value.M(key, v))
		}
		return value.NewObject(members...), nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	}
	return value.Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func yamlScalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return value.NewNull(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.NewBool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return value.Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return value.NewNumber(f), nil
	}
	return value.NewString(n.Value), nil
}
