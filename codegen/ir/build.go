package ir

import (
	"fmt"
	"slices"
)

// Builder accumulates the statements of a module in emission order.
type Builder struct {
	module *Module
	nodes  map[int]string
}

// NewBuilder returns a builder for a module with the given class name and
// variant. imports are rendered in the given order.
func NewBuilder(className, variant string, imports ...string) *Builder {
	return &Builder{
		module: &Module{
			ClassName: className,
			Variant:   variant,
			Imports:   slices.Clone(imports),
		},
		nodes: make(map[int]string),
	}
}

// Add records the statements emitted for one node. init may be nil for nodes
// that only have a use statement. Node indices must be unique.
func (b *Builder) Add(init, use *Statement) error {
	if use == nil {
		return fmt.Errorf("missing use statement")
	}
	if other, ok := b.nodes[use.Index]; ok {
		return fmt.Errorf("node %q: index %d already emitted by node %q", use.Node, use.Index, other)
	}
	b.nodes[use.Index] = use.Node
	if init != nil {
		b.module.Inits = append(b.module.Inits, init)
	}
	b.module.Forwards = append(b.module.Forwards, use)
	return nil
}

// Return sets the terminal symbols of the module.
func (b *Builder) Return(symbols ...string) {
	b.module.Returns = slices.Clone(symbols)
}

// Module returns the built module. The builder must not be used afterwards.
func (b *Builder) Module() *Module {
	return b.module
}
