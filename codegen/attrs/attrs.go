// Package attrs renders operator attribute values as Python source text.
//
// Tensor references embedded in attribute values are replaced with the
// generated name of the tensor when it is already defined. References to
// tensors without a generated name (forward references, external constants)
// render as the raw tensor name.
//
// Tuples and lists are expanded exactly one level deep: a container nested in
// a container is reported as an UnsupportedShapeError.
package attrs

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"goa.design/torchgen/graph"
)

type (
	// Resolver returns the generated name of a tensor if it is defined.
	Resolver interface {
		Resolve(tensor string) (string, bool)
	}

	// Inferrer renders attribute values against the symbols defined so far.
	Inferrer struct {
		symbols Resolver
	}

	// KV is a rendered keyword argument.
	KV struct {
		Key   string
		Value string
	}

	// UnsupportedShapeError is returned for attribute values nested deeper
	// than one container level.
	UnsupportedShapeError struct {
		// Container is the outer container kind ("tuple" or "list").
		Container string
		// Index is the position of the nested container.
		Index int
	}

	// EmptySequenceError is returned when a sequence that requires at least
	// one element is empty.
	EmptySequenceError struct {
		// What names the sequence (e.g. "inputs", "outputs").
		What string
		// Node is the name of the node being rendered, empty for graph
		// level sequences.
		Node string
	}
)

// New returns an inferrer reading tensor names from symbols.
func New(symbols Resolver) *Inferrer {
	return &Inferrer{symbols: symbols}
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported attribute shape: container nested in %s at index %d", e.Container, e.Index)
}

func (e *EmptySequenceError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("node %q: the %s of a module can not be empty", e.Node, e.What)
	}
	return fmt.Sprintf("the %s of a module can not be empty", e.What)
}

// Infer renders v as source text.
func (in *Inferrer) Infer(v graph.Value) (string, error) {
	switch v := v.(type) {
	case graph.Tuple:
		return in.sequence("tuple", "(", ")", v)
	case graph.List:
		return in.sequence("list", "[", "]", v)
	default:
		return in.scalar(v)
	}
}

// Collect renders the attributes of op listed in names, in that order.
// Names op does not define are skipped.
func (in *Inferrer) Collect(op *graph.Op, names []string) ([]KV, error) {
	kvs := make([]KV, 0, len(names))
	for _, name := range names {
		v, ok := op.Attr(name)
		if !ok {
			continue
		}
		s, err := in.Infer(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		kvs = append(kvs, KV{Key: name, Value: s})
	}
	return kvs, nil
}

func (in *Inferrer) sequence(kind, lbr, rbr string, items []graph.Value) (string, error) {
	parts := make([]string, len(items))
	for i, item := range items {
		switch item.(type) {
		case graph.Tuple, graph.List:
			return "", &UnsupportedShapeError{Container: kind, Index: i}
		}
		s, err := in.scalar(item)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return lbr + strings.Join(parts, ",") + rbr, nil
}

func (in *Inferrer) scalar(v graph.Value) (string, error) {
	switch v := v.(type) {
	case nil, graph.None:
		return "None", nil
	case graph.Bool:
		if v {
			return "True", nil
		}
		return "False", nil
	case graph.Int:
		return strconv.FormatInt(int64(v), 10), nil
	case graph.Float:
		return FormatFloat(float64(v)), nil
	case graph.Str:
		return Quote(string(v)), nil
	case graph.Expr:
		return string(v), nil
	case graph.TensorRef:
		if name, ok := in.symbols.Resolve(string(v)); ok {
			return name, nil
		}
		return string(v), nil
	default:
		return "", fmt.Errorf("unsupported attribute value %T", v)
	}
}

// JoinList joins positional items with ",". An empty list is an
// EmptySequenceError naming what.
func JoinList(items []string, what string) (string, error) {
	if len(items) == 0 {
		return "", &EmptySequenceError{What: what}
	}
	return strings.Join(items, ","), nil
}

// JoinKV renders keyword arguments as "k=v, k2=v2".
func JoinKV(kvs []KV) string {
	parts := make([]string, len(kvs))
	for i, kv := range kvs {
		parts[i] = kv.Key + "=" + kv.Value
	}
	return strings.Join(parts, ", ")
}

// FormatFloat renders f the way Python's repr does.
func FormatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "float('nan')"
	case math.IsInf(f, 1):
		return "float('inf')"
	case math.IsInf(f, -1):
		return "-float('inf')"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// Quote renders s as a Python string literal. Single quotes are used unless s
// contains a single quote and no double quote.
func Quote(s string) string {
	q := byte('\'')
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		q = '"'
	}
	var b strings.Builder
	b.WriteByte(q)
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte(q)
	return b.String()
}
