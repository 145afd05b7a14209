package graph

// Value is a raw operator attribute value. The set of implementations is
// closed: None, Bool, Int, Float, Str, Expr, TensorRef, Tuple and List.
type Value interface {
	isValue()
}

type (
	// None is the absent value.
	None struct{}
	// Bool is a boolean scalar.
	Bool bool
	// Int is an integer scalar.
	Int int64
	// Float is a floating point scalar.
	Float float64
	// Str is a string literal. It renders quoted.
	Str string
	// Expr is a source expression (e.g. "torch.float32") rendered verbatim.
	Expr string
	// TensorRef references a graph tensor by name.
	TensorRef string
	// Tuple is an ordered, parenthesized sequence of values.
	Tuple []Value
	// List is an ordered, bracketed sequence of values.
	List []Value
)

func (None) isValue()      {}
func (Bool) isValue()      {}
func (Int) isValue()       {}
func (Float) isValue()     {}
func (Str) isValue()       {}
func (Expr) isValue()      {}
func (TensorRef) isValue() {}
func (Tuple) isValue()     {}
func (List) isValue()      {}

// Ints is a convenience constructor for a tuple of integers.
func Ints(vs ...int64) Tuple {
	t := make(Tuple, len(vs))
	for i, v := range vs {
		t[i] = Int(v)
	}
	return t
}
