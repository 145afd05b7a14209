package ir

import "strings"

type (
	// Module is the generator-facing representation of one generated
	// torch.nn.Module subclass. Slices are ordered as they are rendered.
	Module struct {
		// ClassName is the generated class identifier.
		ClassName string `json:"class_name"`
		// Variant names the emission policy that produced the module.
		Variant string `json:"variant"`
		// Imports lists the import lines following the preamble.
		Imports []string `json:"imports"`
		// Inits lists the statements of __init__ following the super call.
		Inits []*Statement `json:"inits"`
		// Forwards lists the statements of forward preceding the return.
		Forwards []*Statement `json:"forwards"`
		// Returns lists the symbols of the terminal tensors in declared
		// order.
		Returns []string `json:"returns"`
	}

	// Statement is one generated source line.
	Statement struct {
		// Node is the name of the graph node the statement renders.
		Node string `json:"node"`
		// Index is the index of the graph node.
		Index int `json:"index"`
		// Code is the statement source without indentation.
		Code string `json:"code"`
		// Comment is rendered as a trailing "#" comment when not empty.
		Comment string `json:"comment,omitempty"`
	}
)

// Line returns the statement as rendered in the module body.
func (s *Statement) Line() string {
	if s.Comment == "" {
		return s.Code
	}
	return s.Code + " #" + s.Comment
}

// ReturnList returns the comma-joined terminal symbols.
func (m *Module) ReturnList() string {
	return strings.Join(m.Returns, ",")
}
