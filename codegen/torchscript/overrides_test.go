package torchscript

import (
	"testing"

	"github.com/stretchr/testify/require"
	"goa.design/torchgen/codegen/optable"
	"goa.design/torchgen/graph"
)

// emitAll emits the nodes of g and returns the use statements.
func emitAll(t *testing.T, g *graph.Graph) []string {
	t.Helper()
	e := newEmitter(optable.Default(), Plain())
	lines := make([]string, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		em, err := e.emit(n)
		require.NoError(t, err)
		lines = append(lines, em.use.Line())
	}
	return lines
}

func TestInputOverride(t *testing.T) {
	g := graph.New("Net")
	addNode(t, g, "b", graph.NewOp("input", graph.A("index", graph.Int(1))), nil, []string{"b"})
	addNode(t, g, "a", graph.NewOp("input", graph.A("index", graph.Int(0))), nil, []string{"a"})
	addNode(t, g, "c", graph.NewOp("input"), nil, []string{"c"})
	require.Equal(t, []string{
		"self.output_module_0 = args[1]",
		"self.output_module_1 = args[0]",
		"self.output_module_2 = args[2]",
	}, emitAll(t, g))
}

func TestInputOverrideRejectsNonIntegerIndex(t *testing.T) {
	g := graph.New("Net")
	n := addNode(t, g, "x", graph.NewOp("input", graph.A("index", graph.Str("0"))), nil, []string{"x"})
	_, err := newEmitter(optable.Default(), Plain()).emit(n)
	require.ErrorContains(t, err, "input index must be an integer")
}

func TestTupleOverrideSingleElement(t *testing.T) {
	g := graph.New("Net")
	addNode(t, g, "x", graph.NewOp("input"), nil, []string{"x"})
	addNode(t, g, "t", graph.NewOp("tuple"), []string{"x"}, []string{"t"})
	lines := emitAll(t, g)
	require.Equal(t, "self.output_module_1 = (self.output_module_0,)", lines[1])
}

func TestSliceOverride(t *testing.T) {
	g := graph.New("Net")
	addNode(t, g, "x", graph.NewOp("input"), nil, []string{"x"})
	addNode(t, g, "s0", graph.NewOp("slice", graph.A("start", graph.Int(1))), []string{"x"}, []string{"s0"})
	addNode(t, g, "s1", graph.NewOp("slice",
		graph.A("dim", graph.Int(2)),
		graph.A("start", graph.None{}),
		graph.A("end", graph.Int(-1)),
		graph.A("step", graph.Int(2)),
	), []string{"x"}, []string{"s1"})
	lines := emitAll(t, g)
	require.Equal(t, "self.output_module_1 = self.output_module_0[1:]", lines[1])
	require.Equal(t, "self.output_module_2 = self.output_module_0[:,:,:-1:2]", lines[2])
}

func TestIndexOverrideRequiresIndex(t *testing.T) {
	g := graph.New("Net")
	addNode(t, g, "x", graph.NewOp("input"), nil, []string{"x"})
	n := addNode(t, g, "i", graph.NewOp("index"), []string{"x"}, []string{"i"})
	e := newEmitter(optable.Default(), Plain())
	_, err := e.emit(g.Nodes[0])
	require.NoError(t, err)
	_, err = e.emit(n)
	require.ErrorContains(t, err, "missing index attribute")
}

func TestOverrideOpTypesAreUnclassified(t *testing.T) {
	table := optable.Default()
	types := OverrideOpTypes()
	require.IsIncreasing(t, types)
	for _, typ := range types {
		require.Equalf(t, optable.Unrecognized, table.Lookup(typ).Class, "override %q shadows a classified operator", typ)
	}
}
