package graph

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

type (
	// document is the YAML form of a graph.
	document struct {
		Name    string         `yaml:"name"`
		Outputs []string       `yaml:"outputs"`
		Nodes   []nodeDocument `yaml:"nodes"`
	}

	// nodeDocument is the YAML form of a node. Attrs is kept as a raw node so
	// attribute order survives decoding.
	nodeDocument struct {
		Index   *int      `yaml:"index"`
		Name    string    `yaml:"name"`
		Op      string    `yaml:"op"`
		Inputs  []string  `yaml:"inputs"`
		Outputs []string  `yaml:"outputs"`
		Attrs   yaml.Node `yaml:"attrs"`
	}
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "graph.schema.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	var schemaDoc any
	if err := json.Unmarshal(schemaJSON, &schemaDoc); err != nil {
		return nil, fmt.Errorf("unmarshal graph schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, schemaDoc); err != nil {
		return nil, fmt.Errorf("add graph schema resource: %w", err)
	}
	return c.Compile(schemaURL)
})

// Load reads and decodes the graph document at path.
func Load(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read graph: %w", err)
	}
	g, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Decode validates the YAML graph document against the graph schema and
// builds the graph it describes. Tensors consumed or returned without a
// producer are rejected.
func Decode(data []byte) (*Graph, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode graph: %w", err)
	}
	g := New(doc.Name)
	for i, nd := range doc.Nodes {
		attrs, err := decodeAttrs(&nd.Attrs)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", nd.Name, err)
		}
		index := i
		if nd.Index != nil {
			index = *nd.Index
		}
		if _, err := g.AddNodeAt(index, nd.Name, NewOp(nd.Op, attrs...), nd.Inputs, nd.Outputs); err != nil {
			return nil, err
		}
	}
	for _, n := range g.Nodes {
		for _, in := range n.Inputs {
			if in.Producer == nil {
				return nil, fmt.Errorf("node %q: input tensor %q is not produced by any node", n.Name, in.Name)
			}
		}
	}
	for _, name := range doc.Outputs {
		t, ok := g.Lookup(name)
		if !ok || t.Producer == nil {
			return nil, fmt.Errorf("graph output %q is not produced by any node", name)
		}
	}
	g.SetOutputs(doc.Outputs...)
	return g, nil
}

// Validate checks the YAML graph document against the embedded JSON schema.
func Validate(data []byte) error {
	schema, err := compiledSchema()
	if err != nil {
		return err
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode graph: %w", err)
	}
	// Round trip through JSON so the validator sees JSON-native types.
	js, err := json.Marshal(jsonCompatible(raw))
	if err != nil {
		return fmt.Errorf("graph document is not JSON compatible: %w", err)
	}
	var inst any
	if err := json.Unmarshal(js, &inst); err != nil {
		return fmt.Errorf("graph document is not JSON compatible: %w", err)
	}
	if err := schema.Validate(inst); err != nil {
		return fmt.Errorf("invalid graph document: %w", err)
	}
	return nil
}

// jsonCompatible replaces the non-finite floats of v, which JSON cannot
// encode, with their YAML spelling. Attribute values are not constrained by
// the schema so the substitution does not change the validation outcome.
func jsonCompatible(v any) any {
	switch v := v.(type) {
	case map[string]any:
		for k, item := range v {
			v[k] = jsonCompatible(item)
		}
	case []any:
		for i, item := range v {
			v[i] = jsonCompatible(item)
		}
	case float64:
		switch {
		case math.IsNaN(v):
			return ".nan"
		case math.IsInf(v, 1):
			return ".inf"
		case math.IsInf(v, -1):
			return "-.inf"
		}
	}
	return v
}

func decodeAttrs(n *yaml.Node) ([]*Attr, error) {
	if n.Kind == 0 || n.Tag == "!!null" {
		return nil, nil
	}
	if n.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("attrs must be a mapping")
	}
	attrs := make([]*Attr, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		name := n.Content[i].Value
		v, err := decodeValue(n.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", name, err)
		}
		attrs = append(attrs, &Attr{Name: name, Value: v})
	}
	return attrs, nil
}

func decodeValue(n *yaml.Node) (Value, error) {
	switch n.Kind {
	case yaml.AliasNode:
		return decodeValue(n.Alias)
	case yaml.ScalarNode:
		return decodeScalar(n)
	case yaml.SequenceNode:
		return decodeSeq(n.Content, func(vs []Value) Value { return List(vs) })
	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return nil, fmt.Errorf("line %d: tagged value must have exactly one key", n.Line)
		}
		key, val := n.Content[0].Value, n.Content[1]
		if val.Kind == yaml.AliasNode {
			val = val.Alias
		}
		switch key {
		case "tensor", "expr", "str":
			if val.Kind != yaml.ScalarNode || val.ShortTag() == "!!null" {
				return nil, fmt.Errorf("line %d: %s must be a non-null scalar", val.Line, key)
			}
		}
		switch key {
		case "tensor":
			return TensorRef(val.Value), nil
		case "expr":
			return Expr(val.Value), nil
		case "str":
			return Str(val.Value), nil
		case "tuple", "list":
			if val.Kind != yaml.SequenceNode {
				return nil, fmt.Errorf("line %d: %s must be a sequence", val.Line, key)
			}
			if key == "tuple" {
				return decodeSeq(val.Content, func(vs []Value) Value { return Tuple(vs) })
			}
			return decodeSeq(val.Content, func(vs []Value) Value { return List(vs) })
		default:
			return nil, fmt.Errorf("line %d: unknown value tag %q", n.Line, key)
		}
	default:
		return nil, fmt.Errorf("line %d: unsupported attribute value", n.Line)
	}
}

func decodeSeq(items []*yaml.Node, build func([]Value) Value) (Value, error) {
	vs := make([]Value, 0, len(items))
	for _, item := range items {
		v, err := decodeValue(item)
		if err != nil {
			return nil, err
		}
		vs = append(vs, v)
	}
	return build(vs), nil
}

func decodeScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return None{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}
		return Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return Float(f), nil
	default:
		return Str(n.Value), nil
	}
}
