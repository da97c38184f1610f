package configload

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// RawNode defers YAML decoding for fields that may be a scalar or a list
// (dataset, threshold, filter) until the caller knows which shape to
// expect, keeping the raw node around until the typed field it feeds is
// known.
type RawNode struct {
	node yaml.Node
	set  bool
}

// UnmarshalYAML stores the raw node for later interpretation.
func (r *RawNode) UnmarshalYAML(value *yaml.Node) error {
	r.node = *value
	r.set = true
	return nil
}

// IsZero reports whether the field was present in the document at all.
func (r RawNode) IsZero() bool { return !r.set }

// AsString decodes the node as a single scalar string.
func (r RawNode) AsString() (string, error) {
	if !r.set {
		return "", nil
	}
	if r.node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("expected a scalar value, got %v", r.node.Kind)
	}
	var s string
	if err := r.node.Decode(&s); err != nil {
		return "", err
	}
	return s, nil
}

// AsStringList decodes the node as either a single scalar (returned as a
// one-element slice) or a sequence of scalars.
func (r RawNode) AsStringList() ([]string, error) {
	if !r.set {
		return nil, nil
	}
	switch r.node.Kind {
	case yaml.ScalarNode:
		var s string
		if err := r.node.Decode(&s); err != nil {
			return nil, err
		}
		return []string{s}, nil
	case yaml.SequenceNode:
		var out []string
		if err := r.node.Decode(&out); err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a scalar or list, got %v", r.node.Kind)
	}
}

// AsThreshold decodes the node as either a single numeric scalar or an
// ordered [lo, hi] pair.
func (r RawNode) AsThreshold() (scalar *float64, pair [2]float64, isPair bool, err error) {
	if !r.set {
		return nil, pair, false, nil
	}
	switch r.node.Kind {
	case yaml.ScalarNode:
		var raw string
		if err := r.node.Decode(&raw); err != nil {
			return nil, pair, false, err
		}
		f, perr := strconv.ParseFloat(raw, 64)
		if perr != nil {
			return nil, pair, false, fmt.Errorf("threshold %q is not numeric: %w", raw, perr)
		}
		return &f, pair, false, nil
	case yaml.SequenceNode:
		var values []float64
		if err := r.node.Decode(&values); err != nil {
			return nil, pair, false, err
		}
		if len(values) != 2 {
			return nil, pair, false, fmt.Errorf("threshold list must have exactly 2 elements, got %d", len(values))
		}
		return nil, [2]float64{values[0], values[1]}, true, nil
	default:
		return nil, pair, false, fmt.Errorf("unsupported threshold shape %v", r.node.Kind)
	}
}
