// Package rt holds the runtime helpers called by marshalling code.
//
// Each helper corresponds to one ir.Op and takes the active *Context first.
// Generated Go source calls them directly (rt.I32Load(cx, addr, uint32(4)));
// package eval reaches them through Lookup.
//
// Host values follow the model in package value. Core values are int32,
// int64, float32 and float64. Helpers taking a dynamic operand accept any
// and report a type mismatch when the operand has the wrong Go type.
//
// # Trusted Variants
//
// Helpers with a Trusted suffix skip the wire-format validation of their
// checked counterpart. They are selected when the instruction producer is
// trusted to emit only well-formed values.
package rt
