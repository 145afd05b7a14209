// Package optable maps graph operator types to the way the generators render
// them: a classification, the canonical PyTorch callee and the ordered names
// of the attributes the callee accepts.
package optable

import (
	"maps"
	"slices"

	"goa.design/torchgen/graph"
)

// Class identifies how an operator is rendered.
type Class string

const (
	// Unrecognized marks operator types absent from the table.
	Unrecognized Class = "unrecognized"
	// StatefulModule operators are constructed once in __init__ and called
	// in forward (e.g. torch.nn.Conv2d).
	StatefulModule Class = "stateful_module"
	// FreeFunction operators are plain function calls (e.g. torch.add).
	FreeFunction Class = "free_function"
	// MethodCall operators are methods called on their first input (e.g.
	// x.view(...)).
	MethodCall Class = "method_call"
	// Primitive operators are language builtins (e.g. int(...)).
	Primitive Class = "primitive"
)

// GenericAttrs is the attribute template placeholder of callees without a
// declared schema. Operators using it render the node's own attributes.
var GenericAttrs = []string{"args", "kwargs"}

type (
	// Entry describes how one operator type is rendered.
	Entry struct {
		// Class is the operator classification.
		Class Class
		// Callee is the canonical callee: a qualified name for modules and
		// functions, a method name for method calls.
		Callee string
		// Attrs lists the accepted attribute names in call order.
		Attrs []string
	}

	// Table is an immutable operator classification table.
	Table struct {
		entries map[string]Entry
	}
)

// New returns a table holding a copy of entries.
func New(entries map[string]Entry) *Table {
	t := &Table{entries: make(map[string]Entry, len(entries))}
	for typ, e := range entries {
		e.Attrs = slices.Clone(e.Attrs)
		t.entries[typ] = e
	}
	return t
}

// Lookup returns the entry of the given operator type. Types absent from the
// table yield an entry classified Unrecognized.
func (t *Table) Lookup(opType string) Entry {
	e, ok := t.entries[opType]
	if !ok {
		return Entry{Class: Unrecognized}
	}
	return e
}

// OpTypes returns the operator types known to the table in lexicographic
// order.
func (t *Table) OpTypes() []string {
	return slices.Sorted(maps.Keys(t.entries))
}

// AttrNames returns the names of the attributes to read from op, in render
// order. The entry template is used unless it is empty or the generic
// placeholder, in which case the operator's own attribute names are used.
// Names absent from op are kept: callers skip them when reading values.
func (e Entry) AttrNames(op *graph.Op) []string {
	if len(e.Attrs) == 0 || slices.Equal(e.Attrs, GenericAttrs) {
		return op.AttrNames()
	}
	return e.Attrs
}
