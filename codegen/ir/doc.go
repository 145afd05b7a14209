// Package ir provides a stable, deterministic intermediate representation (IR)
// of a generated PyTorch module, used as the sole input to the torchscript
// section templates.
//
// The IR is produced by the emitter from a computation graph and exists to
// decouple template rendering from graph traversal: every name, import and
// statement is resolved before any text is rendered, and the IR serializes
// to the same JSON for the same graph.
package ir
