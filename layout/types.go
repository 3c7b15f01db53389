package layout

import (
	"strings"

	"go.bytecodealliance.org/wit"
)

// Resolve follows type aliases until it reaches a primitive or a TypeDef
// whose kind is not itself a type.
func Resolve(t wit.Type) wit.Type {
	for {
		td, ok := t.(*wit.TypeDef)
		if !ok || td.Kind == nil {
			return t
		}
		inner, ok := td.Kind.(wit.Type)
		if !ok {
			return t
		}
		t = inner
	}
}

// Kind returns the TypeDefKind behind t after resolving aliases, or nil for
// primitives.
func Kind(t wit.Type) wit.TypeDefKind {
	if td, ok := Resolve(t).(*wit.TypeDef); ok {
		return td.Kind
	}
	return nil
}

// IsOption reports whether t resolves to an option type.
func IsOption(t wit.Type) bool {
	_, ok := Kind(t).(*wit.Option)
	return ok
}

// ResourceName returns the name of the resource behind an own or borrow
// handle, or "resource" when it is anonymous.
func ResourceName(h wit.TypeDefKind) string {
	var td *wit.TypeDef
	switch h := h.(type) {
	case *wit.Own:
		td = h.Type
	case *wit.Borrow:
		td = h.Type
	}
	if td != nil && td.Name != nil {
		return *td.Name
	}
	return "resource"
}

// String renders t in WIT syntax. Named TypeDefs render as their name.
func String(t wit.Type) string {
	switch v := t.(type) {
	case nil:
		return "_"
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v == nil {
			return "_"
		}
		if v.Name != nil {
			return *v.Name
		}
		return kindString(v.Kind)
	}
	return "?"
}

func kindString(k wit.TypeDefKind) string {
	switch k := k.(type) {
	case *wit.Record:
		names := make([]string, len(k.Fields))
		for i, f := range k.Fields {
			names[i] = f.Name + ": " + String(f.Type)
		}
		return "record { " + strings.Join(names, ", ") + " }"
	case *wit.Tuple:
		return "tuple<" + join(k.Types) + ">"
	case *wit.List:
		return "list<" + String(k.Type) + ">"
	case *wit.Option:
		return "option<" + String(k.Type) + ">"
	case *wit.Result:
		if k.OK == nil && k.Err == nil {
			return "result"
		}
		return "result<" + String(k.OK) + ", " + String(k.Err) + ">"
	case *wit.Variant:
		names := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			names[i] = c.Name
			if c.Type != nil {
				names[i] += "(" + String(c.Type) + ")"
			}
		}
		return "variant { " + strings.Join(names, ", ") + " }"
	case *wit.Enum:
		names := make([]string, len(k.Cases))
		for i, c := range k.Cases {
			names[i] = c.Name
		}
		return "enum { " + strings.Join(names, ", ") + " }"
	case *wit.Flags:
		names := make([]string, len(k.Flags))
		for i, f := range k.Flags {
			names[i] = f.Name
		}
		return "flags { " + strings.Join(names, ", ") + " }"
	case *wit.Own:
		return "own<" + ResourceName(k) + ">"
	case *wit.Borrow:
		return "borrow<" + ResourceName(k) + ">"
	case wit.Type:
		return String(k)
	}
	return "?"
}

func join(types []wit.Type) string {
	parts := make([]string, len(types))
	for i, t := range types {
		parts[i] = String(t)
	}
	return strings.Join(parts, ", ")
}
