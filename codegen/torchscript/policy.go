package torchscript

import (
	"fmt"
	"maps"

	"goa.design/torchgen/codegen/optable"
)

// Variant names.
const (
	// VariantPlain renders a plain PyTorch module.
	VariantPlain = "plain"
	// VariantQuant renders a quantization-aware module.
	VariantQuant = "quant"
)

// FrameworkImport is the first import of every generated module.
const FrameworkImport = "import torch"

// Dispatch selects how classified stateless operators are rendered.
type Dispatch string

const (
	// DirectCall renders free functions, method calls and primitives as
	// direct calls in forward.
	DirectCall Dispatch = "direct"
	// Submodule binds every operator to a submodule constructed in
	// __init__ and calls the submodule in forward.
	Submodule Dispatch = "submodule"
)

// Policy is the strategy distinguishing the emission variants. The
// traversal, symbol allocation and header shape are shared; only the
// constructor and call-site choices below vary.
type Policy struct {
	// Name is the variant name recorded in the module IR and telemetry.
	Name string
	// Imports lists the imports rendered after FrameworkImport.
	Imports []string
	// Dispatch selects how stateless operators are called.
	Dispatch Dispatch
	// Replacements maps operator types to the callee constructing their
	// submodule, taking precedence over the classification table callee.
	Replacements map[string]string
	// Fallback, when set, constructs submodules of operator types without a
	// replacement. The operator type is passed as the first argument.
	Fallback string
}

// Plain returns the plain PyTorch policy.
func Plain() *Policy {
	return &Policy{Name: VariantPlain, Dispatch: DirectCall}
}

// Quant returns the quantization-aware policy. modules are merged over the
// default quantization replacement table.
func Quant(modules map[string]string) *Policy {
	replacements := optable.DefaultQuantModules()
	maps.Copy(replacements, modules)
	return &Policy{
		Name:         VariantQuant,
		Imports:      []string{optable.QuantRuntimeImport},
		Dispatch:     Submodule,
		Replacements: replacements,
		Fallback:     optable.QuantFallbackModule,
	}
}

// NewPolicy returns the policy of the named variant.
func NewPolicy(variant string) (*Policy, error) {
	switch variant {
	case VariantPlain, "":
		return Plain(), nil
	case VariantQuant:
		return Quant(nil), nil
	default:
		return nil, fmt.Errorf("unknown variant %q, expected %q or %q", variant, VariantPlain, VariantQuant)
	}
}

// imports returns the import lines of the generated module.
func (p *Policy) imports() []string {
	return append([]string{FrameworkImport}, p.Imports...)
}

// constructor returns the callee constructing the submodule of an operator
// and whether it is the generic fallback wrapper.
func (p *Policy) constructor(opType string, e optable.Entry) (string, bool) {
	if callee, ok := p.Replacements[opType]; ok {
		return callee, false
	}
	if p.Fallback != "" {
		return p.Fallback, true
	}
	return e.Callee, false
}
