package abi

import (
	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

// Variant selects which side of the component boundary a binding serves.
type Variant uint8

const (
	// GuestImport: the component calls a function the host provides.
	GuestImport Variant = iota
	// GuestExport: the host calls a function the component provides.
	GuestExport
)

func (v Variant) String() string {
	if v == GuestExport {
		return "export"
	}
	return "import"
}

// LiftLower selects the direction of a call binding.
type LiftLower uint8

const (
	// LowerArgsLiftResults is the caller side: host values in, core call, host values out.
	LowerArgsLiftResults LiftLower = iota
	// LiftArgsLowerResults is the callee side: core values in, host call, core values out.
	LiftArgsLowerResults
)

// Param is a named function parameter.
type Param struct {
	Type wit.Type
	Name string
}

// Func is a component-level function type.
type Func struct {
	Name    string
	Params  []Param
	Results []wit.Type
}

// ParamTypes returns the parameter types in order.
func (f *Func) ParamTypes() []wit.Type {
	types := make([]wit.Type, len(f.Params))
	for i, p := range f.Params {
		types[i] = p.Type
	}
	return types
}

// Signature is the core wasm signature of a component function.
type Signature struct {
	Params  []api.ValueType
	Results []api.ValueType

	// IndirectParams: parameters are spilled to memory and passed as one pointer.
	IndirectParams bool
	// Retptr: results travel through memory. For GuestImport the caller passes
	// the pointer as the last parameter; for GuestExport the callee returns it.
	Retptr bool
}

// SignatureOf computes the core signature of fn for the given variant.
func SignatureOf(fn *Func, variant Variant) *Signature {
	sig := &Signature{
		Params:  layout.FlattenAll(fn.ParamTypes()),
		Results: layout.FlattenAll(fn.Results),
	}

	if len(sig.Params) > layout.MaxFlatParams {
		sig.Params = []api.ValueType{api.ValueTypeI32}
		sig.IndirectParams = true
	}

	if len(sig.Results) > layout.MaxFlatResults {
		sig.Retptr = true
		switch variant {
		case GuestImport:
			sig.Params = append(sig.Params, api.ValueTypeI32)
			sig.Results = nil
		case GuestExport:
			sig.Results = []api.ValueType{api.ValueTypeI32}
		}
	}

	return sig
}
