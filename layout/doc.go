// Package layout computes canonical ABI layout metadata for WIT types: byte
// size, alignment, field and payload offsets, discriminant width, and the
// flattened core value types used when a value travels in wasm locals.
//
// Calculator caches results per *wit.TypeDef and is not safe for concurrent
// use. Flatten and Join are pure.
package layout
