package options

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML mapping of option keys to scalars and returns it as
// "key=value" items in key order, ready to be prepended to CLI options.
// figsize may also be written as a two-element list.
func LoadFile(path string) ([]string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]yaml.Node
	if err := yaml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		node := doc[k]
		v, err := nodeValue(&node)
		if err != nil {
			return nil, fmt.Errorf("%s: option %s: %w", path, k, err)
		}
		out = append(out, k+"="+v)
	}
	return out, nil
}

func nodeValue(n *yaml.Node) (string, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		return n.Value, nil
	case yaml.SequenceNode:
		parts := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			if c.Kind != yaml.ScalarNode {
				return "", fmt.Errorf("line %d: nested values are not supported", c.Line)
			}
			parts = append(parts, c.Value)
		}
		return "(" + strings.Join(parts, ", ") + ")", nil
	default:
		return "", fmt.Errorf("line %d: want a scalar or list, got kind %d", n.Line, n.Kind)
	}
}
