// Package abi defines the Canonical ABI instruction set and the producer that
// emits it.
//
// An instruction stream is a stack program. Every Instruction declares its
// operand arity through Arity; instructions that consume nested blocks also
// implement BlockConsumer. Blocks are opened with PushBlock and closed with
// FinishBlock, and the consumer that follows takes them in order.
//
// The Generator builds streams for single types (LowerFlat, LiftFlat,
// LowerToMemory, LiftFromMemory) and for whole function calls (Call). It
// tracks a shadow of the operand stack so that Pick and Roll depths are
// always exact.
//
// SignatureOf computes the core wasm signature of a component function,
// spilling parameters and results to memory past the flat limits.
package abi
