package attrs_test

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/require"
	"goa.design/torchgen/codegen/attrs"
	"goa.design/torchgen/codegen/symbols"
	"goa.design/torchgen/graph"
)

func newInferrer(t *testing.T, defined map[string]string) *attrs.Inferrer {
	t.Helper()
	table := symbols.New()
	for tensor, name := range defined {
		require.NoError(t, table.Define(tensor, name))
	}
	return attrs.New(table)
}

func TestInferScalars(t *testing.T) {
	in := newInferrer(t, nil)
	cases := []struct {
		name  string
		value graph.Value
		want  string
	}{
		{"none", graph.None{}, "None"},
		{"nil", nil, "None"},
		{"true", graph.Bool(true), "True"},
		{"false", graph.Bool(false), "False"},
		{"int", graph.Int(-3), "-3"},
		{"float whole", graph.Float(1), "1.0"},
		{"float fraction", graph.Float(0.1), "0.1"},
		{"float small", graph.Float(1e-5), "1e-05"},
		{"float large", graph.Float(1e16), "1e+16"},
		{"string", graph.Str("zeros"), "'zeros'"},
		{"string with quote", graph.Str("it's"), `"it's"`},
		{"expr", graph.Expr("torch.float32"), "torch.float32"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := in.Infer(tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestInferTensorRef(t *testing.T) {
	in := newInferrer(t, map[string]string{"a": "self.output_module_0"})

	got, err := in.Infer(graph.TensorRef("a"))
	require.NoError(t, err)
	require.Equal(t, "self.output_module_0", got)

	got, err = in.Infer(graph.TensorRef("weights"))
	require.NoError(t, err)
	require.Equal(t, "weights", got, "undefined tensors fall back to their raw name")
}

func TestInferTupleWithTensorRef(t *testing.T) {
	in := newInferrer(t, map[string]string{"tensorRefA": "self.module_0"})
	got, err := in.Infer(graph.Tuple{graph.TensorRef("tensorRefA"), graph.Int(3)})
	require.NoError(t, err)
	require.Equal(t, "(self.module_0,3)", got)
}

func TestInferSequences(t *testing.T) {
	in := newInferrer(t, nil)
	cases := []struct {
		name  string
		value graph.Value
		want  string
	}{
		{"list", graph.List{graph.Int(1), graph.Int(2)}, "[1,2]"},
		{"single tuple", graph.Tuple{graph.Int(7)}, "(7)"},
		{"single list", graph.List{graph.Str("x")}, "['x']"},
		{"empty tuple", graph.Tuple{}, "()"},
		{"empty list", graph.List{}, "[]"},
		{"mixed", graph.Tuple{graph.Bool(true), graph.None{}, graph.Float(0.5)}, "(True,None,0.5)"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := in.Infer(tc.value)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestInferNestedContainerFails(t *testing.T) {
	in := newInferrer(t, nil)
	_, err := in.Infer(graph.List{graph.Int(1), graph.Tuple{graph.Int(2)}})
	var shape *attrs.UnsupportedShapeError
	require.ErrorAs(t, err, &shape)
	require.Equal(t, "list", shape.Container)
	require.Equal(t, 1, shape.Index)
}

func TestCollectSkipsMissing(t *testing.T) {
	in := newInferrer(t, map[string]string{"x": "self.output_module_0"})
	op := graph.NewOp("add",
		graph.A("other", graph.Int(2)),
		graph.A("input", graph.TensorRef("x")),
	)
	kvs, err := in.Collect(op, []string{"input", "other", "alpha"})
	require.NoError(t, err)
	require.Equal(t, []attrs.KV{
		{Key: "input", Value: "self.output_module_0"},
		{Key: "other", Value: "2"},
	}, kvs)
	require.Equal(t, "input=self.output_module_0, other=2", attrs.JoinKV(kvs))
}

func TestCollectWrapsAttributeErrors(t *testing.T) {
	in := newInferrer(t, nil)
	op := graph.NewOp("pad", graph.A("pad", graph.List{graph.List{}}))
	_, err := in.Collect(op, []string{"pad"})
	require.ErrorContains(t, err, `attribute "pad"`)
	var shape *attrs.UnsupportedShapeError
	require.ErrorAs(t, err, &shape)
}

func TestJoinList(t *testing.T) {
	s, err := attrs.JoinList([]string{"a"}, "inputs")
	require.NoError(t, err)
	require.Equal(t, "a", s)

	s, err = attrs.JoinList([]string{"a", "b"}, "inputs")
	require.NoError(t, err)
	require.Equal(t, "a,b", s)

	_, err = attrs.JoinList(nil, "outputs")
	var empty *attrs.EmptySequenceError
	require.ErrorAs(t, err, &empty)
	require.Equal(t, "outputs", empty.What)
}

func TestFormatFloatSpecials(t *testing.T) {
	require.Equal(t, "float('nan')", attrs.FormatFloat(math.NaN()))
	require.Equal(t, "float('inf')", attrs.FormatFloat(math.Inf(1)))
	require.Equal(t, "-float('inf')", attrs.FormatFloat(math.Inf(-1)))
	require.Equal(t, "0.0", attrs.FormatFloat(0))
	require.Equal(t, "-2.5", attrs.FormatFloat(-2.5))
}

func TestQuoteEscapes(t *testing.T) {
	require.Equal(t, `'a\nb'`, attrs.Quote("a\nb"))
	require.Equal(t, `'back\\slash'`, attrs.Quote(`back\slash`))
	require.Equal(t, `'both \' and "'`, attrs.Quote(`both ' and "`))
}

// TestInferIntTupleProperty verifies that integer tuples render as their
// comma-joined elements between parentheses.
func TestInferIntTupleProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)
	in := attrs.New(symbols.New())

	properties.Property("tuple of ints renders element-wise", prop.ForAll(
		func(vs []int64) bool {
			got, err := in.Infer(graph.Ints(vs...))
			if err != nil {
				return false
			}
			parts := make([]string, len(vs))
			for i, v := range vs {
				parts[i] = strconv.FormatInt(v, 10)
			}
			return got == "("+strings.Join(parts, ",")+")"
		},
		gen.SliceOf(gen.Int64()),
	))

	properties.Property("defined tensors are always substituted", prop.ForAll(
		func(n int) bool {
			table := symbols.New()
			items := make(graph.List, n)
			want := make([]string, n)
			for i := range n {
				tensor := "t" + strconv.Itoa(i)
				name := "self.output_module_" + strconv.Itoa(i)
				if err := table.Define(tensor, name); err != nil {
					return false
				}
				items[i] = graph.TensorRef(tensor)
				want[i] = name
			}
			got, err := attrs.New(table).Infer(items)
			return err == nil && got == "["+strings.Join(want, ",")+"]"
		},
		gen.IntRange(0, 8),
	))

	properties.TestingRun(t)
}
