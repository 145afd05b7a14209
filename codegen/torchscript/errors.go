package torchscript

import "fmt"

// UnsupportedOpError is returned when a node operator is neither classified
// nor handled by an override.
type UnsupportedOpError struct {
	// OpType is the operator type tag.
	OpType string
	// Node is the name of the node.
	Node string
}

func (e *UnsupportedOpError) Error() string {
	return fmt.Sprintf("unsupported operator %q in node %q", e.OpType, e.Node)
}

// ArgumentConflictError is returned when a rendered keyword argument names a
// parameter already filled by a positional input.
type ArgumentConflictError struct {
	// Node is the name of the node.
	Node string
	// Param is the parameter bound twice.
	Param string
}

func (e *ArgumentConflictError) Error() string {
	return fmt.Sprintf("node %q: argument %q is passed both positionally and by keyword", e.Node, e.Param)
}
