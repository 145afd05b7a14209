// Package symbols records the generated names of the tensors produced during a
// generation pass.
//
// The table is append-only: a tensor is defined exactly once, when its
// producing node is emitted, and every later consumer reads the same name.
// Looking up a tensor that was never defined means the graph is not in a
// single-pass-emittable order.
package symbols

import (
	"fmt"

	"goa.design/torchgen/codegen/naming"
	"goa.design/torchgen/graph"
)

type (
	// Table maps tensor names to generated reference names.
	Table struct {
		names map[string]string
		order []string
	}

	// MissingProducerError is returned when a consumed tensor has no
	// generated name yet.
	MissingProducerError struct {
		// Tensor is the name of the undefined tensor.
		Tensor string
		// Node is the name of the consuming node when known.
		Node string
	}

	// RedefinitionError is returned when a tensor is defined twice.
	RedefinitionError struct {
		// Tensor is the name of the tensor.
		Tensor string
		// Existing is the name recorded first.
		Existing string
	}
)

// New returns an empty table.
func New() *Table {
	return &Table{names: make(map[string]string)}
}

func (e *MissingProducerError) Error() string {
	if e.Node != "" {
		return fmt.Sprintf("node %q: tensor %q is consumed before it is produced", e.Node, e.Tensor)
	}
	return fmt.Sprintf("tensor %q is consumed before it is produced", e.Tensor)
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("tensor %q already defined as %s", e.Tensor, e.Existing)
}

// Define records name as the generated reference of tensor.
func (t *Table) Define(tensor, name string) error {
	if existing, ok := t.names[tensor]; ok {
		return &RedefinitionError{Tensor: tensor, Existing: existing}
	}
	t.names[tensor] = name
	t.order = append(t.order, tensor)
	return nil
}

// DefineOutputs allocates and records the output symbols of n in output
// order. A node with a single output gets an unsuffixed name, the outputs of
// a multi-output node carry their ordinal.
func (t *Table) DefineOutputs(n *graph.Node) ([]string, error) {
	names := naming.OutputNames(n.Index, len(n.Outputs))
	for i, out := range n.Outputs {
		if err := t.Define(out.Name, names[i]); err != nil {
			return nil, err
		}
	}
	return names, nil
}

// Lookup returns the generated name of tensor.
func (t *Table) Lookup(tensor string) (string, error) {
	name, ok := t.names[tensor]
	if !ok {
		return "", &MissingProducerError{Tensor: tensor}
	}
	return name, nil
}

// LookupInputs returns the generated names of the inputs of n in declared
// order.
func (t *Table) LookupInputs(n *graph.Node) ([]string, error) {
	names := make([]string, len(n.Inputs))
	for i, in := range n.Inputs {
		name, ok := t.names[in.Name]
		if !ok {
			return nil, &MissingProducerError{Tensor: in.Name, Node: n.Name}
		}
		names[i] = name
	}
	return names, nil
}

// Resolve returns the generated name of tensor if it is defined.
func (t *Table) Resolve(tensor string) (string, bool) {
	name, ok := t.names[tensor]
	return name, ok
}

// Len returns the number of defined tensors.
func (t *Table) Len() int {
	return len(t.order)
}

// Tensors returns the defined tensor names in definition order.
func (t *Table) Tensors() []string {
	return append([]string(nil), t.order...)
}
