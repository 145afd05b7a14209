package graph_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"goa.design/torchgen/graph"
)

const residualDoc = `
name: ResNet
outputs: [t3, t2]
nodes:
  - name: x
    op: input
    outputs: [t0]
  - name: conv
    op: conv2d
    inputs: [t0]
    outputs: [t1]
    attrs:
      out_channels: 8
      kernel_size: {tuple: [3, 3]}
      padding: [1, 1]
      bias: false
      eps: 1.0e-5
      padding_mode: zeros
      mode: {str: "7"}
      dtype: {expr: torch.float32}
      groups: ~
  - name: add
    index: 7
    op: add
    inputs: [t1, t0]
    outputs: [t2]
    attrs:
      other: {tensor: t0}
  - name: view
    op: reshape
    inputs: [t2]
    outputs: [t3]
    attrs:
      shape: {list: [-1, {tensor: t1}]}
`

func TestDecode(t *testing.T) {
	g, err := graph.Decode([]byte(residualDoc))
	require.NoError(t, err)
	require.Equal(t, "ResNet", g.Name)
	require.Len(t, g.Nodes, 4)

	conv := g.Nodes[1]
	require.Equal(t, 1, conv.Index)
	require.Equal(t, "conv2d", conv.Op.Type)
	require.Equal(t,
		[]string{"out_channels", "kernel_size", "padding", "bias", "eps", "padding_mode", "mode", "dtype", "groups"},
		conv.Op.AttrNames())
	want := map[string]graph.Value{
		"out_channels": graph.Int(8),
		"kernel_size":  graph.Tuple{graph.Int(3), graph.Int(3)},
		"padding":      graph.List{graph.Int(1), graph.Int(1)},
		"bias":         graph.Bool(false),
		"eps":          graph.Float(1e-5),
		"padding_mode": graph.Str("zeros"),
		"mode":         graph.Str("7"),
		"dtype":        graph.Expr("torch.float32"),
		"groups":       graph.None{},
	}
	for name, v := range want {
		got, ok := conv.Op.Attr(name)
		require.True(t, ok, name)
		require.Equal(t, v, got, name)
	}

	add := g.Nodes[2]
	require.Equal(t, 7, add.Index)
	other, _ := add.Op.Attr("other")
	require.Equal(t, graph.TensorRef("t0"), other)

	shape, _ := g.Nodes[3].Op.Attr("shape")
	require.Equal(t, graph.List{graph.Int(-1), graph.TensorRef("t1")}, shape)

	require.Len(t, g.Outputs, 2)
	require.Equal(t, "t3", g.Outputs[0].Name)
	require.Same(t, g.Nodes[3], g.Outputs[0].Producer)
}

func TestDecodeAlias(t *testing.T) {
	g, err := graph.Decode([]byte(`
name: Net
outputs: [b]
nodes:
  - name: a
    op: conv2d
    outputs: [a]
    attrs:
      kernel_size: &k {tuple: [1, 1]}
  - name: b
    op: conv2d
    inputs: [a]
    outputs: [b]
    attrs:
      kernel_size: *k
`))
	require.NoError(t, err)
	v, ok := g.Nodes[1].Op.Attr("kernel_size")
	require.True(t, ok)
	require.Equal(t, graph.Ints(1, 1), v)
}

func TestDecodeErrors(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want string
	}{
		{"missing name", "nodes: []", "invalid graph document"},
		{"unknown field", "name: Net\nnodes: []\nversion: 2", "invalid graph document"},
		{"node without op", "name: Net\nnodes: [{name: a}]", "invalid graph document"},
		{"negative index", "name: Net\nnodes: [{name: a, op: relu, index: -1}]", "invalid graph document"},
		{"malformed yaml", "name: [", "decode graph"},
		{"duplicate index", "name: Net\nnodes: [{name: a, op: relu, index: 0}, {name: b, op: relu, index: 0}]", "index 0 already used"},
		{"double producer", "name: Net\nnodes: [{name: a, op: relu, outputs: [t]}, {name: b, op: relu, outputs: [t]}]", `tensor "t" already produced`},
		{"dangling output", "name: Net\noutputs: [t9]\nnodes: [{name: a, op: relu, outputs: [t0]}]", `graph output "t9" is not produced`},
		{"dangling input", "name: Net\nnodes: [{name: a, op: relu, inputs: [x], outputs: [t0]}]", `node "a": input tensor "x" is not produced`},
		{"unknown tag", "name: Net\nnodes: [{name: a, op: relu, attrs: {v: {set: [1]}}}]", `unknown value tag "set"`},
		{"ambiguous tag", "name: Net\nnodes: [{name: a, op: relu, attrs: {v: {str: a, expr: b}}}]", "exactly one key"},
		{"sequence tensor", "name: Net\nnodes: [{name: a, op: index, attrs: {index: {tensor: [a, b]}}}]", "tensor must be a non-null scalar"},
		{"mapping tensor", "name: Net\nnodes: [{name: a, op: index, attrs: {index: {tensor: {x: 1}}}}]", "tensor must be a non-null scalar"},
		{"null tensor", "name: Net\nnodes: [{name: a, op: index, attrs: {index: {tensor: ~}}}]", "tensor must be a non-null scalar"},
		{"sequence expr", "name: Net\nnodes: [{name: a, op: to, attrs: {dtype: {expr: [torch.float32]}}}]", "expr must be a non-null scalar"},
		{"null str", "name: Net\nnodes: [{name: a, op: pad, attrs: {mode: {str: null}}}]", "str must be a non-null scalar"},
		{"scalar tuple", "name: Net\nnodes: [{name: a, op: relu, attrs: {v: {tuple: 3}}}]", "tuple must be a sequence"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := graph.Decode([]byte(tc.doc))
			require.ErrorContains(t, err, tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "net.yaml")
	require.NoError(t, os.WriteFile(path, []byte(residualDoc), 0o600))
	g, err := graph.Load(path)
	require.NoError(t, err)
	require.Equal(t, "ResNet", g.Name)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nodes: []"), 0o600))
	_, err = graph.Load(bad)
	require.ErrorContains(t, err, bad)

	_, err = graph.Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorContains(t, err, "read graph")
}

func TestDecodeNonFiniteFloats(t *testing.T) {
	g, err := graph.Decode([]byte(`
name: Net
outputs: [t1]
nodes:
  - name: x
    op: input
    outputs: [t0]
  - name: clip
    op: hardtanh
    inputs: [t0]
    outputs: [t1]
    attrs:
      min_val: -.inf
      max_val: .inf
      fill: {tuple: [.nan, 1.5]}
`))
	require.NoError(t, err)
	op := g.Nodes[1].Op

	lo, ok := op.Attr("min_val")
	require.True(t, ok)
	require.Equal(t, graph.Float(math.Inf(-1)), lo)
	hi, _ := op.Attr("max_val")
	require.Equal(t, graph.Float(math.Inf(1)), hi)

	fill, _ := op.Attr("fill")
	items, ok := fill.(graph.Tuple)
	require.True(t, ok)
	require.Len(t, items, 2)
	nan, ok := items[0].(graph.Float)
	require.True(t, ok)
	require.True(t, math.IsNaN(float64(nan)))
	require.Equal(t, graph.Float(1.5), items[1])
}
