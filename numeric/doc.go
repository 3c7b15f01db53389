// Package numeric is the numeric coercion library used by the canonical ABI
// marshaller and the code it generates.
//
// # Contents
//
//   - lower.go: host value to fixed-width integer, exact two's-complement wraparound
//   - lift.go: wire value range checks for narrow integers, bool and char
//   - bits.go: float/int bit reinterpretation and i32/i64 width changes
//   - helpers.go: alignment, overflow-checked arithmetic, NaN canonicalization
//
// Lowering never fails on range: a host value is truncated toward zero (for
// floats) and then reduced modulo 2^width. Lifting is the opposite: a wire
// value outside the target range is a producer bug and is reported as a
// wire format violation.
package numeric
