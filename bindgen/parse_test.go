package bindgen

import (
	"reflect"
	"testing"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

func TestSplitParams(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"a: u32", []string{"a: u32"}},
		{"a: u32, b: string", []string{"a: u32", "b: string"}},
		{"m: result<u8, string>, n: tuple<u8, u16>", []string{"m: result<u8, string>", "n: tuple<u8, u16>"}},
		{" x: list<u8> , ", []string{"x: list<u8>"}},
	}
	for _, tt := range tests {
		if got := splitParams(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitParams(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"u32", "u32"},
		{"string", "string"},
		{"list<option<u8>>", "list<option<u8>>"},
		{"result<u32, string>", "result<u32, string>"},
		{"result<_, string>", "result<_, string>"},
		{"result<u32>", "result<u32, _>"},
		{"result", "result"},
		{"tuple< char,f64 , bool >", "tuple<char, f64, bool>"},
		{"own<file>", "own<file>"},
		{"borrow<file>", "borrow<file>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			typ, err := ParseType(tt.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := layout.String(typ); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []string{
		"",
		"strng",
		"list<u8",
		"list<u8, u16>",
		"option<_>",
		"result<u8, u16, u32>",
		"own<>",
		"u32 u32",
		"error-context",
		"list<error-context>",
	}
	for _, in := range tests {
		if _, err := ParseType(in); !errors.IsKind(err, errors.KindInvalidInput) {
			t.Errorf("ParseType(%q) err = %v, want invalid input", in, err)
		}
	}
}

func TestParseFunctions(t *testing.T) {
	text := `
interface files {
	resource file;

	open: func(path: string) -> own<file>;
	read: func(f: borrow<file>, n: u32) -> result<list<u8>, string>;
	export stat: func(f: borrow<file>) -> (size: u64, mode: u32);
	sync: func();
}`

	funcs, err := ParseFunctions(text)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, len(funcs))
	for i, f := range funcs {
		names[i] = f.Name
	}
	if want := []string{"open", "read", "stat", "sync"}; !reflect.DeepEqual(names, want) {
		t.Fatalf("names = %v, want %v", names, want)
	}

	read := funcs[1]
	if len(read.Params) != 2 || read.Params[0].Name != "f" || read.Params[1].Name != "n" {
		t.Errorf("read params = %+v", read.Params)
	}
	if read.Params[1].Type != (wit.U32{}) {
		t.Errorf("n type = %T", read.Params[1].Type)
	}
	if got := layout.String(read.Results[0]); got != "result<list<u8>, string>" {
		t.Errorf("read result = %s", got)
	}

	if n := len(funcs[2].Results); n != 2 {
		t.Errorf("stat has %d results, want 2", n)
	}
	if len(funcs[3].Params) != 0 || len(funcs[3].Results) != 0 {
		t.Errorf("sync = %+v", funcs[3])
	}

	own := funcs[0].Results[0].(*wit.TypeDef).Kind.(*wit.Own).Type
	borrow := read.Params[0].Type.(*wit.TypeDef).Kind.(*wit.Borrow).Type
	if own != borrow {
		t.Error("own and borrow of the same resource do not share a type")
	}
}

func TestParseFunctionsErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", "interface x {}"},
		{"bad param", "f: func(a: strng);"},
		{"bad result", "f: func() -> list<>;"},
		{"duplicate", "f: func();\nf: func(a: u8);"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFunctions(tt.text)
			if !errors.IsKind(err, errors.KindInvalidInput) {
				t.Fatalf("err = %v, want invalid input", err)
			}
		})
	}
}

func TestGoName(t *testing.T) {
	if got := goName("read-all", abi.GuestExport); got != "CallReadAll" {
		t.Errorf("export name = %s", got)
	}
	if got := goName("read_all", abi.GuestImport); got != "HandleReadAll" {
		t.Errorf("import name = %s", got)
	}
}
