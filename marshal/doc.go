// Package marshal interprets abi instruction streams and emits ir programs.
//
// The Interpreter keeps an operand stack of ir expressions and a stack of
// open blocks. Straight-line instructions append three-address statements
// to the innermost block, binding each fallible runtime call to a fresh
// temporary. Block consumers (lists, variants, options, results) turn their
// finished blocks into loops and switches.
//
// Every instruction is checked against its declared arity, so a malformed
// stream fails with a stack or block imbalance error instead of producing
// code that references missing operands.
//
// In trusted mode the emitted program skips bool, char, narrow integer,
// flags padding, enum ordinal, UTF-8 and discriminant validation.
package marshal
