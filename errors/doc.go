// Package errors provides structured error types for the canonical ABI module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, Go/WIT type names, and cause chain.
//
// Three kinds carry the module's failure taxonomy:
//
//	KindWireFormat  bad discriminant, boolean, flags padding, code point
//	KindHandle      freed/forged/zero-rep handle, borrow outliving its scope
//	KindAllocation  allocation size overflow
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseLower, errors.KindTypeMismatch).
//		Path("user", "age").
//		GoType("string").
//		WitType("u32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InvalidDiscriminant(errors.PhaseLift, path, 2, 2)
//	err := errors.Handle(7, "slot is free")
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on kind alone.
package errors
