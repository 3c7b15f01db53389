// Package gentest holds bindings produced by canongen so that tests compile
// and run generated code rather than evaluating it.
//
// gentest.go is the output of
//
//	canongen -sig 'scale: func(x: u32) -> u32; greet: func(name: string) -> u32;' -pkg gentest
//
// and is checked against the generator by the bindgen tests.
package gentest
