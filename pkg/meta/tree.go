// Package meta implements the free-form metadata tree attached to Arrays,
// Datasets and Tensors throughout this module. It is deliberately a thin
// wrapper over map[string]any so it round-trips through both JSON and YAML
// without a bespoke schema, mirroring the teacher's x/marshaller convention
// of moving `any`-shaped configuration through multiple wire encodings.
package meta

import (
	"fmt"
	"reflect"

	"gopkg.in/yaml.v3"
)

// Tree is a nested key/value metadata document. Values are any of the
// types produced by encoding/json or yaml.v3 unmarshalling: string,
// float64, bool, nil, []any, map[string]any.
type Tree map[string]any

// New returns an empty Tree.
func New() Tree { return Tree{} }

// Clone returns a shallow copy of t; nested maps/slices are not deep
// copied, matching the teacher's Configuration handling which treats
// metadata as copy-on-write at the top level only.
func (t Tree) Clone() Tree {
	if t == nil {
		return nil
	}
	out := make(Tree, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Equal reports whether t and o hold the same keys and values, including
// nested maps/slices, by deep comparison.
func (t Tree) Equal(o Tree) bool {
	return reflect.DeepEqual(map[string]any(t), map[string]any(o))
}

// Merge overlays src onto t, returning t. Keys in src overwrite keys in t.
func (t Tree) Merge(src Tree) Tree {
	for k, v := range src {
		t[k] = v
	}
	return t
}

// Has reports whether key is present.
func (t Tree) Has(key string) bool {
	_, ok := t[key]
	return ok
}

// GetString returns the string at key, or "" if absent or not a string.
func (t Tree) GetString(key string) string {
	v, ok := t[key].(string)
	if !ok {
		return ""
	}
	return v
}

// GetFloat returns the float64 at key, or 0 if absent or not numeric.
func (t Tree) GetFloat(key string) float64 {
	switch v := t[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	default:
		return 0
	}
}

// GetBool returns the bool at key, or false if absent or not a bool.
func (t Tree) GetBool(key string) bool {
	v, _ := t[key].(bool)
	return v
}

// Set stores value at key and returns t for chaining.
func (t Tree) Set(key string, value any) Tree {
	t[key] = value
	return t
}

// EncodeYAML renders t as a YAML document.
func (t Tree) EncodeYAML() ([]byte, error) {
	return yaml.Marshal(map[string]any(t))
}

// DecodeYAML parses the YAML document in data into a new Tree.
func DecodeYAML(data []byte) (Tree, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("meta: decode yaml: %w", err)
	}
	return Tree(raw), nil
}
