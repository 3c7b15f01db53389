package bindgen_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/bindgen"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/memory"
	"github.com/wippyai/canon-abi/resource"
	"github.com/wippyai/canon-abi/rt"
	"github.com/wippyai/canon-abi/value"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// idWASM exports "memory" and "id": (i32) -> i32 returning its argument.
var idWASM = []byte{
	0x00, 0x61, 0x73, 0x6d,
	0x01, 0x00, 0x00, 0x00,
	0x01, 0x06, 0x01, 0x60, 0x01, 0x7f, 0x01, 0x7f,
	0x03, 0x02, 0x01, 0x00,
	0x05, 0x03, 0x01, 0x00, 0x01,
	0x07, 0x0f, 0x02,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x02, 0x69, 0x64, 0x00, 0x00,
	0x0a, 0x06, 0x01, 0x04, 0x00, 0x20, 0x00, 0x0b,
}

const filesWIT = `
interface files {
	resource file;

	id: func(x: u32) -> u32;
	greet: func(name: string) -> string;
	open: func(path: string) -> own<file>;
	consume: func(f: own<file>) -> u32;
	read: func(f: borrow<file>) -> u32;
}`

func parse(t *testing.T) map[string]*abi.Func {
	t.Helper()
	funcs, err := bindgen.ParseFunctions(filesWIT)
	if err != nil {
		t.Fatal(err)
	}
	byName := make(map[string]*abi.Func, len(funcs))
	for _, f := range funcs {
		byName[f.Name] = f
	}
	return byName
}

func generate(t *testing.T, fn *abi.Func, variant abi.Variant) *bindgen.Binding {
	t.Helper()
	b, err := bindgen.Generate(fn, variant, bindgen.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Source(); err != nil {
		t.Fatalf("source: %v", err)
	}
	return b
}

func newContext() (*rt.Context, *memory.Buffer) {
	buf := memory.NewBuffer(1 << 12)
	return rt.NewContext(context.Background(), buf, memory.NewBumpAllocator(buf, 1024)), buf
}

func TestExportThroughWazero(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	mod, err := r.Instantiate(ctx, idWASM)
	if err != nil {
		t.Fatal(err)
	}

	mem := memory.Wrap(mod.Memory())
	cx := rt.NewContext(ctx, mem, memory.NewBumpAllocator(mem, 1024))
	cx.Guest["id"] = memory.WrapFunction(mod.ExportedFunction("id"))

	b := generate(t, parse(t)["id"], abi.GuestExport)
	out, err := b.Call(ctx, cx, uint32(0xFFFF_FFF0))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 || out[0] != uint32(0xFFFF_FFF0) {
		t.Errorf("got %#v", out)
	}
	if d := cx.Calls.Depth(); d != 0 {
		t.Errorf("call depth = %d", d)
	}
}

func TestImportStringThroughRetptr(t *testing.T) {
	cx, buf := newContext()
	cx.Host["greet"] = func(ctx context.Context, args []any) ([]any, error) {
		return []any{"hello " + args[0].(string)}, nil
	}

	b := generate(t, parse(t)["greet"], abi.GuestImport)
	if !b.Signature.Retptr || len(b.Signature.Params) != 3 {
		t.Fatalf("signature = %+v", b.Signature)
	}

	if err := buf.Write(16, []byte("wasm")); err != nil {
		t.Fatal(err)
	}
	out, err := b.Call(context.Background(), cx, int32(16), int32(4), int32(64))
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Errorf("returned %d values, want 0", len(out))
	}

	ptr, _ := buf.ReadU32(64)
	n, _ := buf.ReadU32(68)
	data, err := buf.Read(ptr, n)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello wasm" {
		t.Errorf("wrote %q", data)
	}
}

func TestImportRejectsInvalidUTF8(t *testing.T) {
	cx, buf := newContext()
	cx.Host["greet"] = func(ctx context.Context, args []any) ([]any, error) {
		t.Error("host called with invalid input")
		return nil, nil
	}
	if err := buf.Write(16, []byte{0xff, 0xfe}); err != nil {
		t.Fatal(err)
	}

	b := generate(t, parse(t)["greet"], abi.GuestImport)
	_, err := b.Call(context.Background(), cx, int32(16), int32(2), int32(64))
	if !errors.IsKind(err, errors.KindWireFormat) {
		t.Fatalf("err = %v, want wire format violation", err)
	}
}

func TestOwnHandleTransfer(t *testing.T) {
	cx, buf := newContext()
	funcs := parse(t)

	var closed []uint32
	cx.Resources.SetDestructor("file", func(rep uint32) { closed = append(closed, rep) })
	cx.Host["open"] = func(ctx context.Context, args []any) ([]any, error) {
		if args[0] != "/tmp/a" {
			t.Errorf("path = %v", args[0])
		}
		return []any{value.Resource{Rep: 42}}, nil
	}
	var got value.Resource
	cx.Host["consume"] = func(ctx context.Context, args []any) ([]any, error) {
		got = args[0].(value.Resource)
		return []any{uint32(1)}, nil
	}

	if err := buf.Write(16, []byte("/tmp/a")); err != nil {
		t.Fatal(err)
	}
	out, err := generate(t, funcs["open"], abi.GuestImport).Call(context.Background(), cx, int32(16), int32(6))
	if err != nil {
		t.Fatal(err)
	}
	h := out[0].(int32)

	table := cx.Resources.Table("file")
	e, err := table.Get(resource.Handle(h))
	if err != nil {
		t.Fatal(err)
	}
	if !e.Own || e.Rep != 42 {
		t.Errorf("entry = %+v", e)
	}

	out, err = generate(t, funcs["consume"], abi.GuestImport).Call(context.Background(), cx, h)
	if err != nil {
		t.Fatal(err)
	}
	if out[0] != int32(1) {
		t.Errorf("consume returned %#v", out[0])
	}
	if got.Rep != 42 {
		t.Errorf("host received rep %d", got.Rep)
	}
	if table.Len() != 0 {
		t.Errorf("%d handles left after the own was lifted", table.Len())
	}
	if len(closed) != 0 {
		t.Error("lifting an own ran the destructor")
	}

	if _, err := generate(t, funcs["consume"], abi.GuestImport).Call(context.Background(), cx, h); !errors.IsKind(err, errors.KindHandle) {
		t.Errorf("reusing a moved handle: err = %v", err)
	}
}

func TestBorrowScope(t *testing.T) {
	tests := []struct {
		name string
		drop bool
		kind errors.Kind
		left int
	}{
		{"dropped by the guest", true, "", 0},
		{"leaked by the guest", false, errors.KindHandle, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.DebugLevel)
			cx, _ := newContext()
			unsubscribe := cx.Resources.Subscribe(resource.NewLogObserver(zap.New(core)))
			defer unsubscribe()

			cx.Guest["read"] = func(ctx context.Context, args []any) ([]any, error) {
				h := resource.Handle(args[0].(int32))
				e, err := cx.Resources.Table("file").Get(h)
				if err != nil {
					return nil, err
				}
				if tt.drop {
					if _, err := cx.Resources.Table("file").Remove(h); err != nil {
						return nil, err
					}
				}
				return []any{int32(e.Rep)}, nil
			}

			b := generate(t, parse(t)["read"], abi.GuestExport)
			out, err := b.Call(context.Background(), cx, value.Resource{Rep: 7})
			if tt.kind != "" {
				if !errors.IsKind(err, tt.kind) {
					t.Fatalf("err = %v, want %s", err, tt.kind)
				}
			} else {
				if err != nil {
					t.Fatal(err)
				}
				if out[0] != uint32(7) {
					t.Errorf("got %#v", out[0])
				}
			}

			if d := cx.Calls.Depth(); d != 0 {
				t.Errorf("call depth = %d", d)
			}
			// a leaked borrow stays in the table for the caller to inspect
			if n := cx.Resources.Table("file").Len(); n != tt.left {
				t.Errorf("%d borrows left, want %d", n, tt.left)
			}
			if logs.Len() == 0 {
				t.Error("no resource events logged")
			}
		})
	}
}

func TestSourceAndFile(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	bindgen.SetLogger(zap.New(core))
	defer bindgen.SetLogger(zap.NewNop())

	funcs, err := bindgen.ParseFunctions(filesWIT)
	if err != nil {
		t.Fatal(err)
	}
	bindings, err := bindgen.GenerateAll(funcs, abi.GuestExport, bindgen.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("generated binding").Len() != len(funcs) {
		t.Errorf("logged %d generations, want %d", logs.Len(), len(funcs))
	}

	src, err := bindings[0].Source()
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"func CallId(cx *rt.Context, a0 any) (results []any, err error) {",
		`rt.CallWasm(cx, "id"`,
		"rt.EnterCall(cx)",
		"rt.ExitCall(cx)",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("source missing %q:\n%s", want, src)
		}
	}

	file, err := bindgen.File("files", bindings...)
	if err != nil {
		t.Fatalf("%v\n%s", err, file)
	}
	for _, want := range []string{
		"package files",
		`import "github.com/wippyai/canon-abi/rt"`,
		"func CallGreet(",
		"func CallRead(",
	} {
		if !strings.Contains(string(file), want) {
			t.Errorf("file missing %q", want)
		}
	}

	listing := bindings[0].Listing()
	if !strings.Contains(listing, "CallWasm") {
		t.Errorf("listing:\n%s", listing)
	}
}

func TestTrustedOption(t *testing.T) {
	fn, err := bindgen.ParseFunctions("greet: func(name: string) -> string;")
	if err != nil {
		t.Fatal(err)
	}
	opts := bindgen.DefaultOptions()
	opts.Trusted = true
	b, err := bindgen.Generate(fn[0], abi.GuestImport, opts)
	if err != nil {
		t.Fatal(err)
	}
	src, err := b.Source()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(src, "rt.StringLiftTrusted") {
		t.Errorf("trusted binding validates strings:\n%s", src)
	}
}

func TestGenerateNil(t *testing.T) {
	if _, err := bindgen.Generate(nil, abi.GuestExport, bindgen.DefaultOptions()); !errors.IsKind(err, errors.KindInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestGeneratedPackageIsCurrent(t *testing.T) {
	funcs, err := bindgen.ParseFunctions("scale: func(x: u32) -> u32; greet: func(name: string) -> u32;")
	if err != nil {
		t.Fatal(err)
	}
	bindings, err := bindgen.GenerateAll(funcs, abi.GuestExport, bindgen.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	got, err := bindgen.File("gentest", bindings...)
	if err != nil {
		t.Fatalf("%v\n%s", err, got)
	}
	want, err := os.ReadFile("internal/gentest/gentest.go")
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(strings.Fields(string(got)), " ") != strings.Join(strings.Fields(string(want)), " ") {
		t.Errorf("internal/gentest/gentest.go is stale; regenerate it. Generator output:\n%s", got)
	}
}
