// Package canonabi implements the WebAssembly Component Model Canonical ABI
// as a code generator and a handle-table runtime.
//
// The Canonical ABI converts typed interface values between the linear-memory
// wire representation and host values. Lowering goes host → wire, lifting
// goes wire → host. This module drives both directions from an abstract
// instruction stream and also tracks resource handles across call boundaries.
//
// # Architecture Overview
//
//	canonabi/        Root package with core Memory and Allocator interfaces
//	├── abi/         Instruction set, core signatures, instruction stream producer
//	├── layout/      Size, alignment, offsets and flat types for WIT types
//	├── marshal/     Value marshaller: interprets instructions into an ir.Func
//	├── ir/          Emitted statements/expressions and the Go source printer
//	├── rt/          Runtime helpers the emitted code calls
//	├── eval/        Executes an ir.Func against linear memory
//	├── resource/    Bit-packed handle tables, call scopes, transfers
//	├── numeric/     Width/sign coercion and bit reinterpretation
//	├── value/       Host representation of WIT values
//	├── memory/      Slice-backed memory, bump allocator, wazero adapters
//	├── bindgen/     Producer + marshaller orchestration, signature parsing
//	├── errors/      Structured error types
//	└── cmd/canongen CLI and interactive browser for generated code
//
// # Quick Start
//
//	fn := &abi.Func{
//	    Name:    "greet",
//	    Params:  []abi.Param{{Name: "name", Type: wit.String{}}},
//	    Results: []wit.Type{wit.String{}},
//	}
//
//	b, err := bindgen.Generate(fn, abi.GuestExport, bindgen.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	src, _ := b.Source()
//	fmt.Println(src)
//
// # Wire Layout
//
// Scalars are stored little-endian at natural width. Flags pack 32 per word.
// Variants, options and results store a discriminant (minimum width for the
// case count) followed by the payload at the most-aligned case's alignment.
// Records store fields in declared order at natural alignment. Resource
// handles are a single 32-bit table index.
//
// # Thread Safety
//
// Marshalling is single-threaded and synchronous. Resource tables are mutated
// in place and must be owned by one component instance; access from several
// goroutines must be serialized by the caller.
package canonabi
