package docio

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// MapGet returns the value node for key in a mapping node, or nil if the
// key is absent or the node is not a mapping.
func MapGet(m *yaml.Node, key string) *yaml.Node {
	if m == nil || m.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			return m.Content[i+1]
		}
	}
	return nil
}

// MapSet assigns value to key in a mapping node, replacing an existing
// entry in place so key order is preserved, or appending a new entry.
func MapSet(m *yaml.Node, key string, value *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append(m.Content, ScalarString(key), value)
}

// MapSetFront behaves like MapSet but prepends a missing key instead of
// appending, for fields that belong at the top of a document.
func MapSetFront(m *yaml.Node, key string, value *yaml.Node) {
	if m == nil || m.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(m.Content); i += 2 {
		if m.Content[i].Value == key {
			m.Content[i+1] = value
			return
		}
	}
	m.Content = append([]*yaml.Node{ScalarString(key), value}, m.Content...)
}

// EnsureMap returns the mapping node under key, creating it if the key is
// absent or currently holds a non-mapping value. Used when navigating
// dotted paths that must create intermediate nesting.
func EnsureMap(m *yaml.Node, key string) *yaml.Node {
	if child := MapGet(m, key); child != nil && child.Kind == yaml.MappingNode {
		return child
	}
	child := NewMapping()
	MapSet(m, key, child)
	return child
}

// NewMapping returns an empty mapping node.
func NewMapping() *yaml.Node {
	return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
}

// ScalarString returns a string scalar node. The explicit tag keeps
// numeric-looking strings from being re-read as integers.
func ScalarString(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

// ScalarInt returns an integer scalar node.
func ScalarInt(v int) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(v)}
}

// ScalarBool returns a boolean scalar node.
func ScalarBool(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

// ScalarFloat returns a float scalar node.
func ScalarFloat(v float64) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: strconv.FormatFloat(v, 'g', -1, 64)}
}

// ScalarNull returns a null scalar node.
func ScalarNull() *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
}

// ScalarFrom converts a plain Go value into the matching scalar or
// sequence node. Unknown types fall back to their string form.
func ScalarFrom(v any) *yaml.Node {
	switch t := v.(type) {
	case nil:
		return ScalarNull()
	case string:
		return ScalarString(t)
	case bool:
		return ScalarBool(t)
	case int:
		return ScalarInt(t)
	case int64:
		return ScalarInt(int(t))
	case float64:
		return ScalarFloat(t)
	case []string:
		return SequenceStrings(t)
	default:
		return ScalarString(fmt.Sprintf("%v", t))
	}
}

// SequenceStrings returns a sequence node of string scalars.
func SequenceStrings(values []string) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, v := range values {
		seq.Content = append(seq.Content, ScalarString(v))
	}
	return seq
}

// NodeString reads a scalar node's value as a string.
func NodeString(n *yaml.Node) (string, bool) {
	if n == nil || n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return "", false
	}
	return n.Value, true
}

// NodeInt reads a scalar node's value as an integer.
func NodeInt(n *yaml.Node) (int, bool) {
	s, ok := NodeString(n)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// NodeStrings reads a sequence node's scalar elements as strings.
func NodeStrings(n *yaml.Node) []string {
	if n == nil || n.Kind != yaml.SequenceNode {
		return nil
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		if s, ok := NodeString(c); ok {
			out = append(out, s)
		}
	}
	return out
}
