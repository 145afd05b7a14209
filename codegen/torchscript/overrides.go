package torchscript

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"goa.design/torchgen/graph"
)

// builtinOverrides lists the operator types rendered outside of the
// classification table. The set is closed.
var builtinOverrides = map[string]override{
	"input":        inputOverride,
	"const":        constOverride,
	"identity":     aliasOverride,
	"tuple_unpack": aliasOverride,
	"tuple":        tupleOverride,
	"list":         listOverride,
	"index":        indexOverride,
	"slice":        sliceOverride,
}

// OverrideOpTypes returns the operator types rendered by overrides in
// lexicographic order.
func OverrideOpTypes() []string {
	return slices.Sorted(maps.Keys(builtinOverrides))
}

// inputOverride binds a forward argument. The argument position is the
// "index" attribute when present, the number of input nodes emitted before
// otherwise.
func inputOverride(e *emitter, n *graph.Node, output string) (string, error) {
	pos := e.inputs
	if v, ok := n.Op.Attr("index"); ok {
		i, ok := v.(graph.Int)
		if !ok {
			return "", fmt.Errorf("input index must be an integer, got %T", v)
		}
		pos = int(i)
	}
	e.inputs++
	return fmt.Sprintf("%s = args[%d]", output, pos), nil
}

// constOverride materializes a constant tensor.
func constOverride(e *emitter, n *graph.Node, output string) (string, error) {
	kvs, err := e.infer.Collect(n.Op, []string{"data", "dtype", "device"})
	if err != nil {
		return "", err
	}
	args := make([]string, len(kvs))
	for i, kv := range kvs {
		args[i] = kv.Key + "=" + kv.Value
	}
	return fmt.Sprintf("%s = torch.tensor(%s)", output, strings.Join(args, ", ")), nil
}

// aliasOverride binds the outputs to the first input. With several outputs
// the input is unpacked.
func aliasOverride(e *emitter, n *graph.Node, output string) (string, error) {
	in, err := e.receiver(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = %s", output, in), nil
}

// tupleOverride packs the inputs into a tuple.
func tupleOverride(e *emitter, n *graph.Node, output string) (string, error) {
	inputs, err := e.symbols.LookupInputs(n)
	if err != nil {
		return "", err
	}
	items := strings.Join(inputs, ",")
	if len(inputs) == 1 {
		items += ","
	}
	return fmt.Sprintf("%s = (%s)", output, items), nil
}

// listOverride packs the inputs into a list.
func listOverride(e *emitter, n *graph.Node, output string) (string, error) {
	inputs, err := e.symbols.LookupInputs(n)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s = [%s]", output, strings.Join(inputs, ",")), nil
}

// indexOverride subscripts the first input with the "index" attribute.
func indexOverride(e *emitter, n *graph.Node, output string) (string, error) {
	in, err := e.receiver(n)
	if err != nil {
		return "", err
	}
	v, ok := n.Op.Attr("index")
	if !ok {
		return "", fmt.Errorf("missing index attribute")
	}
	idx, err := e.infer.Infer(v)
	if err != nil {
		return "", fmt.Errorf("attribute %q: %w", "index", err)
	}
	return fmt.Sprintf("%s = %s[%s]", output, in, idx), nil
}

// sliceOverride slices the first input along the "dim" attribute (0 when
// absent) with the optional "start", "end" and "step" attributes.
func sliceOverride(e *emitter, n *graph.Node, output string) (string, error) {
	in, err := e.receiver(n)
	if err != nil {
		return "", err
	}
	dim := 0
	if v, ok := n.Op.Attr("dim"); ok {
		d, ok := v.(graph.Int)
		if !ok || d < 0 {
			return "", fmt.Errorf("slice dim must be a non-negative integer, got %v", v)
		}
		dim = int(d)
	}
	bound := func(name string) (string, error) {
		v, ok := n.Op.Attr(name)
		if !ok {
			return "", nil
		}
		if _, none := v.(graph.None); none {
			return "", nil
		}
		s, err := e.infer.Infer(v)
		if err != nil {
			return "", fmt.Errorf("attribute %q: %w", name, err)
		}
		return s, nil
	}
	start, err := bound("start")
	if err != nil {
		return "", err
	}
	end, err := bound("end")
	if err != nil {
		return "", err
	}
	step, err := bound("step")
	if err != nil {
		return "", err
	}
	sl := start + ":" + end
	if step != "" {
		sl += ":" + step
	}
	return fmt.Sprintf("%s = %s[%s%s]", output, in, strings.Repeat(":,", dim), sl), nil
}
