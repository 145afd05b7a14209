package torchscript

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"goa.design/torchgen/codegen/attrs"
	"goa.design/torchgen/codegen/ir"
	"goa.design/torchgen/codegen/naming"
	"goa.design/torchgen/codegen/optable"
	"goa.design/torchgen/codegen/symbols"
	"goa.design/torchgen/graph"
)

const (
	// dispatchOverride is the dispatch path recorded for overridden nodes.
	dispatchOverride = "override"
	// receiverKeyword passes method receivers to submodules.
	receiverKeyword = "input"
)

type (
	// override renders the use statement of a node whose operator does not
	// follow the classification-driven pattern. output is the rendered
	// output list of the node, already defined in the symbol table.
	override func(e *emitter, n *graph.Node, output string) (string, error)

	// emitter holds the state of one generation pass.
	emitter struct {
		table     *optable.Table
		policy    *Policy
		overrides map[string]override
		symbols   *symbols.Table
		infer     *attrs.Inferrer
		// inputs counts the graph input nodes emitted so far.
		inputs int
	}

	// emission is the output of emitting one node.
	emission struct {
		init *ir.Statement
		use  *ir.Statement
		// path is the override marker or the operator classification.
		path string
	}
)

func newEmitter(table *optable.Table, policy *Policy) *emitter {
	syms := symbols.New()
	return &emitter{
		table:     table,
		policy:    policy,
		overrides: builtinOverrides,
		symbols:   syms,
		infer:     attrs.New(syms),
	}
}

// emit renders n. The outputs of n are defined in the symbol table before
// any statement is rendered.
func (e *emitter) emit(n *graph.Node) (*emission, error) {
	outs, err := e.symbols.DefineOutputs(n)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	output, err := joinList(outs, "outputs", n)
	if err != nil {
		return nil, err
	}

	if ov, ok := e.overrides[n.Op.Type]; ok {
		code, err := ov(e, n, output)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", n.Name, err)
		}
		return &emission{use: statement(n, code, ""), path: dispatchOverride}, nil
	}

	entry := e.table.Lookup(n.Op.Type)
	switch entry.Class {
	case optable.StatefulModule:
		return e.module(n, entry, output)
	case optable.FreeFunction, optable.MethodCall, optable.Primitive:
		if e.policy.Dispatch == Submodule {
			return e.submodule(n, entry, output)
		}
		return e.direct(n, entry, output)
	case optable.Unrecognized:
		return nil, &UnsupportedOpError{OpType: n.Op.Type, Node: n.Name}
	default:
		return nil, fmt.Errorf("node %q: unknown operator class %q", n.Name, entry.Class)
	}
}

// module renders a stateful module: constructed in __init__ with its
// attributes as keyword arguments and called on the node inputs in forward.
func (e *emitter) module(n *graph.Node, entry optable.Entry, output string) (*emission, error) {
	kvs, err := e.infer.Collect(n.Op, entry.AttrNames(n.Op))
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	callee, wrapped := e.policy.constructor(n.Op.Type, entry)
	args := attrs.JoinKV(kvs)
	if wrapped {
		args = joinArgs([]string{attrs.Quote(n.Op.Type)}, args)
	}
	inputs, err := e.symbols.LookupInputs(n)
	if err != nil {
		return nil, err
	}
	in, err := joinList(inputs, "inputs", n)
	if err != nil {
		return nil, err
	}
	attr := naming.Self + naming.ModuleName(n.Index)
	return &emission{
		init: statement(n, fmt.Sprintf("%s = %s(%s)", attr, callee, args), n.Name),
		use:  statement(n, fmt.Sprintf("%s = %s(%s)", output, attr, in), ""),
		path: string(entry.Class),
	}, nil
}

// direct renders a stateless operator as a direct call in forward.
func (e *emitter) direct(n *graph.Node, entry optable.Entry, output string) (*emission, error) {
	c, err := e.call(n, entry)
	if err != nil {
		return nil, err
	}
	callee := entry.Callee
	if entry.Class == optable.MethodCall {
		callee = c.receiver + "." + callee
	}
	code := fmt.Sprintf("%s = %s(%s)", output, callee, joinArgs(c.positional, c.keywords...))
	return &emission{use: statement(n, code, n.Name), path: string(entry.Class)}, nil
}

// submodule renders a stateless operator as a call to a submodule bound in
// __init__. Method receivers are passed as the "input" keyword argument.
func (e *emitter) submodule(n *graph.Node, entry optable.Entry, output string) (*emission, error) {
	c, err := e.call(n, entry)
	if err != nil {
		return nil, err
	}
	callee, wrapped := e.policy.constructor(n.Op.Type, entry)
	var ctor string
	if wrapped {
		ctor = attrs.Quote(n.Op.Type)
	}
	keywords := c.keywords
	if entry.Class == optable.MethodCall {
		keywords = append([]string{receiverKeyword + "=" + c.receiver}, keywords...)
	}
	attr := naming.Self + naming.ModuleName(n.Index)
	return &emission{
		init: statement(n, fmt.Sprintf("%s = %s(%s)", attr, callee, ctor), n.Name),
		use:  statement(n, fmt.Sprintf("%s = %s(%s)", output, attr, joinArgs(c.positional, keywords...)), ""),
		path: string(entry.Class),
	}, nil
}

// callSite holds the rendered arguments of a stateless operator call.
type callSite struct {
	// receiver is the first input of method calls.
	receiver string
	// positional lists the inputs no rendered attribute refers to.
	positional []string
	// keywords lists the rendered attributes as "k=v".
	keywords []string
}

// call renders the arguments of a stateless operator. Inputs referenced by a
// rendered attribute are passed through that attribute only; the others are
// passed positionally in declared order.
func (e *emitter) call(n *graph.Node, entry optable.Entry) (*callSite, error) {
	names := entry.AttrNames(n.Op)
	kvs, err := e.infer.Collect(n.Op, names)
	if err != nil {
		return nil, fmt.Errorf("node %q: %w", n.Name, err)
	}
	inputs, err := e.symbols.LookupInputs(n)
	if err != nil {
		return nil, err
	}
	c := &callSite{keywords: make([]string, len(kvs))}
	for i, kv := range kvs {
		c.keywords[i] = kv.Key + "=" + kv.Value
	}
	start := 0
	if entry.Class == optable.MethodCall {
		if len(inputs) == 0 {
			return nil, &attrs.EmptySequenceError{What: "inputs", Node: n.Name}
		}
		c.receiver = inputs[0]
		start = 1
	}
	referenced := referencedTensors(n.Op, names)
	for i := start; i < len(inputs); i++ {
		if referenced[n.Inputs[i].Name] {
			continue
		}
		c.positional = append(c.positional, inputs[i])
	}
	if err := e.checkSlots(n, entry, c, kvs); err != nil {
		return nil, err
	}
	return c, nil
}

// checkSlots fails when a keyword argument names one of the parameters the
// positional inputs fill. Parameters follow the declared attribute template;
// submodule method calls take the receiver as their leading "input" keyword.
// Callees with the generic template have no known parameter order and are
// only checked for the receiver keyword.
func (e *emitter) checkSlots(n *graph.Node, entry optable.Entry, c *callSite, kvs []attrs.KV) error {
	var params []string
	if len(entry.Attrs) > 0 && !slices.Equal(entry.Attrs, optable.GenericAttrs) {
		params = entry.Attrs
	}
	keywords := make([]string, 0, len(kvs)+1)
	if entry.Class == optable.MethodCall && e.policy.Dispatch == Submodule {
		params = append([]string{receiverKeyword}, params...)
		keywords = append(keywords, receiverKeyword)
	}
	for _, kv := range kvs {
		keywords = append(keywords, kv.Key)
	}
	filled := params[:min(len(c.positional), len(params))]
	for i, k := range keywords {
		if slices.Contains(filled, k) || slices.Contains(keywords[:i], k) {
			return &ArgumentConflictError{Node: n.Name, Param: k}
		}
	}
	return nil
}

// receiver returns the symbol of the first input of n.
func (e *emitter) receiver(n *graph.Node) (string, error) {
	inputs, err := e.symbols.LookupInputs(n)
	if err != nil {
		return "", err
	}
	if len(inputs) == 0 {
		return "", &attrs.EmptySequenceError{What: "inputs", Node: n.Name}
	}
	return inputs[0], nil
}

// referencedTensors returns the tensors referenced by the named attributes
// of op, directly or as container elements.
func referencedTensors(op *graph.Op, names []string) map[string]bool {
	refs := make(map[string]bool)
	var visit func(graph.Value)
	visit = func(v graph.Value) {
		switch v := v.(type) {
		case graph.TensorRef:
			refs[string(v)] = true
		case graph.Tuple:
			for _, item := range v {
				visit(item)
			}
		case graph.List:
			for _, item := range v {
				visit(item)
			}
		}
	}
	for _, name := range names {
		if v, ok := op.Attr(name); ok {
			visit(v)
		}
	}
	return refs
}

// joinList joins required symbols, reporting an empty list against n.
func joinList(items []string, what string, n *graph.Node) (string, error) {
	s, err := attrs.JoinList(items, what)
	if err != nil {
		var empty *attrs.EmptySequenceError
		if errors.As(err, &empty) {
			empty.Node = n.Name
		}
		return "", err
	}
	return s, nil
}

// joinArgs renders call arguments: positional arguments joined with ","
// followed by keyword arguments joined with ", ".
func joinArgs(positional []string, keywords ...string) string {
	parts := make([]string, 0, len(keywords)+1)
	if len(positional) > 0 {
		parts = append(parts, strings.Join(positional, ","))
	}
	for _, kw := range keywords {
		if kw != "" {
			parts = append(parts, kw)
		}
	}
	return strings.Join(parts, ", ")
}

func statement(n *graph.Node, code, comment string) *ir.Statement {
	return &ir.Statement{Node: n.Name, Index: n.Index, Code: code, Comment: comment}
}
