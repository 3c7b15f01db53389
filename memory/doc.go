// Package memory provides linear memory implementations.
//
// # Slice-backed Memory
//
// Buffer is a growable little-endian byte slice, useful for tests and for
// running marshalling code without a wasm engine:
//
//	buf := memory.NewBuffer(64 * 1024)
//	alloc := memory.NewBumpAllocator(buf, 8)
//
// # wazero Adapters
//
// Wrap adapts a wazero api.Memory, WrapRealloc uses the guest's exported
// cabi_realloc as the allocator, and WrapFunction turns an exported core
// function into a callable taking and returning core values:
//
//	mem := memory.Wrap(mod.ExportedMemory("memory"))
//	alloc := memory.WrapRealloc(ctx, mod.ExportedFunction("cabi_realloc"))
//	cx.Guest["run"] = memory.WrapFunction(mod.ExportedFunction("run"))
package memory
