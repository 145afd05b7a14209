// Package testscenarios holds the graphs shared by the torchscript golden
// tests and cmd/regolden.
package testscenarios

import (
	"fmt"

	"goa.design/torchgen/graph"
)

type (
	// Scenario is a named graph rendered with one or more variants.
	Scenario struct {
		// Name is the golden directory name.
		Name string
		// Graph builds a fresh graph.
		Graph func() *graph.Graph
		// Variants lists the policies the scenario is rendered with.
		Variants []string
	}

	// node describes one node added by build.
	node struct {
		name    string
		op      *graph.Op
		inputs  []string
		outputs []string
	}
)

// All returns every scenario with a golden file.
func All() []Scenario {
	return []Scenario{
		{Name: "linear_activation", Graph: LinearActivation, Variants: []string{"plain", "quant"}},
		{Name: "residual_block", Graph: ResidualBlock, Variants: []string{"plain", "quant"}},
		{Name: "recurrent", Graph: Recurrent, Variants: []string{"plain", "quant"}},
		{Name: "plumbing", Graph: Plumbing, Variants: []string{"plain"}},
	}
}

// GoldenName returns the golden file name of a variant.
func GoldenName(variant string) string {
	return variant + ".py.golden"
}

// LinearActivation is a graph input feeding a linear layer followed by a
// sigmoid activation.
func LinearActivation() *graph.Graph {
	return build("Net", []string{"t2"},
		node{"x", graph.NewOp("input"), nil, []string{"t0"}},
		node{"dense_0", graph.NewOp("dense",
			graph.A("in_features", graph.Int(4)),
			graph.A("out_features", graph.Int(2)),
		), []string{"t0"}, []string{"t1"}},
		node{"act", graph.NewOp("sigmoid"), []string{"t1"}, []string{"t2"}},
	)
}

// ResidualBlock mixes modules, functions with tensor attributes, a
// multi-output method call and two terminal tensors.
func ResidualBlock() *graph.Graph {
	return build("ResBlock", []string{"t7", "t8"},
		node{"data", graph.NewOp("input"), nil, []string{"t0"}},
		node{"conv", graph.NewOp("conv2d",
			graph.A("bias", graph.Bool(true)),
			graph.A("in_channels", graph.Int(3)),
			graph.A("out_channels", graph.Int(8)),
			graph.A("kernel_size", graph.Ints(3, 3)),
			graph.A("stride", graph.Ints(1, 1)),
			graph.A("padding", graph.Ints(1, 1)),
		), []string{"t0"}, []string{"t1"}},
		node{"relu", graph.NewOp("relu", graph.A("inplace", graph.Bool(false))), []string{"t1"}, []string{"t2"}},
		node{"skip", graph.NewOp("add",
			graph.A("input", graph.TensorRef("t2")),
			graph.A("other", graph.TensorRef("t1")),
			graph.A("alpha", graph.Int(1)),
		), []string{"t2", "t1"}, []string{"t3"}},
		node{"split", graph.NewOp("chunk",
			graph.A("chunks", graph.Int(2)),
			graph.A("dim", graph.Int(1)),
		), []string{"t3"}, []string{"t4", "t5"}},
		node{"merge", graph.NewOp("cat",
			graph.A("tensors", graph.List{graph.TensorRef("t5"), graph.TensorRef("t4")}),
			graph.A("dim", graph.Int(1)),
		), []string{"t5", "t4"}, []string{"t6"}},
		node{"flat", graph.NewOp("flatten", graph.A("start_dim", graph.Int(1))), []string{"t6"}, []string{"t7"}},
		node{"shape", graph.NewOp("size", graph.A("dim", graph.Int(0))), []string{"t7"}, []string{"t8"}},
	)
}

// Recurrent is a GRU layer, a stateful module without quantized replacement.
func Recurrent() *graph.Graph {
	return build("Seq", []string{"t1"},
		node{"x", graph.NewOp("input"), nil, []string{"t0"}},
		node{"rnn", graph.NewOp("gru",
			graph.A("input_size", graph.Int(16)),
			graph.A("hidden_size", graph.Int(32)),
			graph.A("batch_first", graph.Bool(true)),
		), []string{"t0"}, []string{"t1", "t2"}},
	)
}

// Plumbing exercises the operators rendered by overrides.
func Plumbing() *graph.Graph {
	return build("Plumbing", []string{"t9", "t6"},
		node{"a", graph.NewOp("input"), nil, []string{"t0"}},
		node{"b", graph.NewOp("input"), nil, []string{"t1"}},
		node{"w", graph.NewOp("const",
			graph.A("data", graph.List{graph.Float(1), graph.Float(2)}),
			graph.A("dtype", graph.Expr("torch.float32")),
			graph.A("device", graph.Str("cpu")),
		), nil, []string{"t2"}},
		node{"pair", graph.NewOp("tuple"), []string{"t0", "t2"}, []string{"t3"}},
		node{"first", graph.NewOp("index", graph.A("index", graph.Int(0))), []string{"t3"}, []string{"t4"}},
		node{"unpack", graph.NewOp("tuple_unpack"), []string{"t3"}, []string{"t5", "t6"}},
		node{"crop", graph.NewOp("slice",
			graph.A("dim", graph.Int(1)),
			graph.A("start", graph.Int(0)),
			graph.A("end", graph.Int(2)),
		), []string{"t1"}, []string{"t7"}},
		node{"same", graph.NewOp("identity"), []string{"t7"}, []string{"t8"}},
		node{"bag", graph.NewOp("list"), []string{"t4", "t8"}, []string{"t9"}},
	)
}

func build(name string, outputs []string, nodes ...node) *graph.Graph {
	g := graph.New(name)
	for _, n := range nodes {
		if _, err := g.AddNode(n.name, n.op, n.inputs, n.outputs); err != nil {
			panic(fmt.Sprintf("scenario %s: %v", name, err))
		}
	}
	g.SetOutputs(outputs...)
	return g
}
