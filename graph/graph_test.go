package graph_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"goa.design/torchgen/graph"
)

func TestAddNode(t *testing.T) {
	g := graph.New("Net")
	relu, err := g.AddNode("relu", graph.NewOp("relu"), []string{"x"}, []string{"y"})
	require.NoError(t, err)
	add, err := g.AddNode("add", graph.NewOp("add"), []string{"y", "x"}, []string{"z"})
	require.NoError(t, err)

	require.Equal(t, 0, relu.Index)
	require.Equal(t, 1, add.Index)
	require.Same(t, relu.Outputs[0], add.Inputs[0])
	require.Same(t, relu, add.Inputs[0].Producer)

	x, ok := g.Lookup("x")
	require.True(t, ok)
	require.Nil(t, x.Producer)
	_, ok = g.Lookup("ghost")
	require.False(t, ok)
}

func TestAddNodeErrors(t *testing.T) {
	g := graph.New("Net")
	_, err := g.AddNodeAt(3, "a", graph.NewOp("relu"), nil, []string{"t0"})
	require.NoError(t, err)

	_, err = g.AddNodeAt(3, "b", graph.NewOp("relu"), nil, []string{"t1"})
	require.ErrorContains(t, err, `index 3 already used by node "a"`)

	_, err = g.AddNode("c", graph.NewOp("relu"), nil, []string{"t0"})
	require.ErrorContains(t, err, `tensor "t0" already produced by node "a"`)

	_, err = g.AddNode("d", nil, nil, nil)
	require.ErrorContains(t, err, "missing operator")
	require.Len(t, g.Nodes, 1)
}

func TestSetOutputs(t *testing.T) {
	g := graph.New("Net")
	_, err := g.AddNode("split", graph.NewOp("chunk"), []string{"x"}, []string{"a", "b"})
	require.NoError(t, err)
	g.SetOutputs("b", "a")
	require.Len(t, g.Outputs, 2)
	require.Equal(t, "b", g.Outputs[0].Name)
	require.Equal(t, "a", g.Outputs[1].Name)

	g.SetOutputs("a")
	require.Len(t, g.Outputs, 1)
}

func TestOpAttrs(t *testing.T) {
	op := graph.NewOp("conv2d",
		graph.A("out_channels", graph.Int(8)),
		graph.A("kernel_size", graph.Ints(3, 3)),
		graph.A("bias", graph.Bool(false)),
	)
	require.Equal(t, []string{"out_channels", "kernel_size", "bias"}, op.AttrNames())

	v, ok := op.Attr("kernel_size")
	require.True(t, ok)
	require.Equal(t, graph.Tuple{graph.Int(3), graph.Int(3)}, v)

	_, ok = op.Attr("padding")
	require.False(t, ok)
}
