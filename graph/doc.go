// Package graph defines the computation-graph representation consumed by the
// PyTorch source generators.
//
// A Graph is an ordered list of nodes. Each node carries an operator
// descriptor (type tag plus ordered attributes) and the tensors it consumes
// and produces. Graphs are decoded from YAML documents validated against an
// embedded JSON schema, or built in code with New and AddNode.
//
// Attribute values form a closed set of types (see Value). Tensor references
// embedded in attributes are substituted with generated names at generation
// time.
package graph
