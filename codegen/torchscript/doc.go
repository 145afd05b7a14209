// Package torchscript generates the Python source of a torch.nn.Module from a
// computation graph.
//
// A generation pass walks the graph nodes in order and emits, for each node,
// an optional initializer statement (rendered in __init__) and a use
// statement (rendered in forward). How a node is emitted depends on the
// operator classification table and on the emission Policy: the plain
// policy calls stateless operators directly while the quantization-aware
// policy binds every operator to a submodule so that each operation can be
// observed by the quantization runtime. A small closed set of operator types
// (graph inputs, constants, tuple plumbing, indexing) is rendered by
// dedicated override functions that take precedence over classification.
//
// Generation is done in memory into an ir.Module which is then rendered
// through goa codegen section templates. Write replaces the destination
// atomically so that a failed pass never leaves a partial file behind.
package torchscript
