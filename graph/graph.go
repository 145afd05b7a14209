package graph

import "fmt"

type (
	// Graph is a read-only computation graph. Nodes are stored in emission
	// order: every tensor a node consumes is produced by an earlier node or is
	// external to the graph.
	Graph struct {
		// Name is the graph name, used as the generated class identifier.
		Name string
		// Nodes lists the graph operations in emission order.
		Nodes []*Node
		// Outputs lists the terminal tensors in declared order.
		Outputs []*Tensor

		tensors map[string]*Tensor
	}

	// Node is one operation instance of the graph.
	Node struct {
		// Index is the stable node index used to derive generated names.
		Index int
		// Name is the node name as known by the upstream toolchain.
		Name string
		// Op describes the operator and its configuration.
		Op *Op
		// Inputs lists the consumed tensors in declared order.
		Inputs []*Tensor
		// Outputs lists the produced tensors in declared order.
		Outputs []*Tensor
	}

	// Tensor is a named value produced by exactly one node.
	Tensor struct {
		// Name is the stable tensor identity.
		Name string
		// Producer is the node that produces the tensor, nil for tensors
		// external to the graph.
		Producer *Node
	}

	// Op is an operator descriptor: a type tag and ordered configuration
	// attributes.
	Op struct {
		// Type is the operator type tag (e.g. "conv2d", "dense").
		Type string
		// Attrs lists the operator configuration in declared order.
		Attrs []*Attr
	}

	// Attr is a named operator configuration value.
	Attr struct {
		Name  string
		Value Value
	}
)

// New returns an empty graph with the given name.
func New(name string) *Graph {
	return &Graph{Name: name, tensors: make(map[string]*Tensor)}
}

// Tensor returns the tensor with the given name, creating an external
// (producer-less) tensor the first time a name is seen.
func (g *Graph) Tensor(name string) *Tensor {
	if g.tensors == nil {
		g.tensors = make(map[string]*Tensor)
	}
	if t, ok := g.tensors[name]; ok {
		return t
	}
	t := &Tensor{Name: name}
	g.tensors[name] = t
	return t
}

// Lookup returns the tensor with the given name if the graph references it.
func (g *Graph) Lookup(name string) (*Tensor, bool) {
	t, ok := g.tensors[name]
	return t, ok
}

// AddNode appends a node to the graph. The node index is the number of nodes
// already present. It fails when one of the outputs already has a producer.
func (g *Graph) AddNode(name string, op *Op, inputs, outputs []string) (*Node, error) {
	return g.AddNodeAt(len(g.Nodes), name, op, inputs, outputs)
}

// AddNodeAt appends a node with an explicit index. Indices must be unique
// within the graph.
func (g *Graph) AddNodeAt(index int, name string, op *Op, inputs, outputs []string) (*Node, error) {
	if op == nil {
		return nil, fmt.Errorf("node %q: missing operator", name)
	}
	for _, n := range g.Nodes {
		if n.Index == index {
			return nil, fmt.Errorf("node %q: index %d already used by node %q", name, index, n.Name)
		}
	}
	n := &Node{Index: index, Name: name, Op: op}
	for _, in := range inputs {
		n.Inputs = append(n.Inputs, g.Tensor(in))
	}
	for _, out := range outputs {
		t := g.Tensor(out)
		if t.Producer != nil {
			return nil, fmt.Errorf("node %q: tensor %q already produced by node %q", name, out, t.Producer.Name)
		}
		t.Producer = n
		n.Outputs = append(n.Outputs, t)
	}
	g.Nodes = append(g.Nodes, n)
	return n, nil
}

// SetOutputs declares the terminal tensors of the graph in order.
func (g *Graph) SetOutputs(names ...string) {
	g.Outputs = g.Outputs[:0]
	for _, name := range names {
		g.Outputs = append(g.Outputs, g.Tensor(name))
	}
}

// Attr returns the value of the named attribute.
func (op *Op) Attr(name string) (Value, bool) {
	for _, a := range op.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return nil, false
}

// AttrNames returns the attribute names in declared order.
func (op *Op) AttrNames() []string {
	names := make([]string, 0, len(op.Attrs))
	for _, a := range op.Attrs {
		names = append(names, a.Name)
	}
	return names
}

// NewOp builds an operator descriptor with the given ordered attributes.
func NewOp(typ string, attrs ...*Attr) *Op {
	return &Op{Type: typ, Attrs: attrs}
}

// A returns an attribute, a shorthand used when building graphs in code.
func A(name string, v Value) *Attr {
	return &Attr{Name: name, Value: v}
}
