package layout

import (
	"testing"

	"go.bytecodealliance.org/wit"
)

func TestResolveAndIsOption(t *testing.T) {
	inner := &wit.TypeDef{Kind: &wit.Option{Type: wit.U32{}}}
	alias := &wit.TypeDef{Kind: inner}
	aliasOfAlias := &wit.TypeDef{Kind: alias}

	if Resolve(aliasOfAlias) != wit.Type(inner) {
		t.Error("Resolve did not follow aliases to the option")
	}
	if !IsOption(aliasOfAlias) {
		t.Error("IsOption(alias) = false")
	}
	if IsOption(wit.U32{}) {
		t.Error("IsOption(u32) = true")
	}
	if Kind(wit.String{}) != nil {
		t.Error("Kind(string) should be nil")
	}
}

func TestString(t *testing.T) {
	res := "file"
	tests := []struct {
		typ  wit.Type
		want string
	}{
		{wit.U32{}, "u32"},
		{&wit.TypeDef{Kind: &wit.List{Type: wit.String{}}}, "list<string>"},
		{&wit.TypeDef{Kind: &wit.Result{OK: wit.U32{}}}, "result<u32, _>"},
		{&wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.U8{}, wit.Char{}}}}, "tuple<u8, char>"},
		{&wit.TypeDef{Kind: &wit.Own{Type: &wit.TypeDef{Name: &res}}}, "own<file>"},
		{&wit.TypeDef{Kind: &wit.Borrow{}}, "borrow<resource>"},
	}
	for _, tt := range tests {
		if got := String(tt.typ); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
