package abi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"github.com/wippyai/canon-abi/layout"
	"go.bytecodealliance.org/wit"
)

// Format renders an instruction as a single line, e.g. "I32Store8 off=4".
func Format(inst Instruction) string {
	name := reflect.TypeOf(inst).Name()
	var args []string

	switch i := inst.(type) {
	case GetArg:
		args = append(args, fmt.Sprint(i.N))
	case I32Const:
		args = append(args, fmt.Sprint(i.Val))
	case ConstZero:
		args = append(args, valueTypes(i.Types))
	case Pick:
		args = append(args, fmt.Sprint(i.Depth))
	case Roll:
		args = append(args, fmt.Sprint(i.Depth))
	case Drop:
		args = append(args, fmt.Sprint(i.Count))
	case FinishBlock:
		args = append(args, fmt.Sprintf("results=%d", i.Results))
	case Bitcasts:
		casts := make([]string, len(i.Casts))
		for j, c := range i.Casts {
			casts[j] = c.String()
		}
		args = append(args, "["+strings.Join(casts, " ")+"]")
	case ListCanonLower:
		args = append(args, layout.String(i.Element))
	case ListCanonLift:
		args = append(args, layout.String(i.Element))
	case ListLower:
		args = append(args, layout.String(i.Element))
	case ListLift:
		args = append(args, layout.String(i.Element))
	case RecordLower:
		args = append(args, fieldNames(i.Record))
	case RecordLift:
		args = append(args, fieldNames(i.Record))
	case VariantLower:
		args = append(args, valueTypes(i.Results))
	case OptionLower:
		args = append(args, valueTypes(i.Results))
	case ResultLower:
		args = append(args, valueTypes(i.Results))
	case HandleLower:
		args = append(args, layout.String(&wit.TypeDef{Kind: i.Handle}))
	case HandleLift:
		args = append(args, layout.String(&wit.TypeDef{Kind: i.Handle}))
	case CallWasm:
		args = append(args, i.Name, valueTypes(i.Sig.Params)+" -> "+valueTypes(i.Sig.Results))
	case CallInterface:
		args = append(args, i.Func.Name)
	case Return:
		args = append(args, fmt.Sprint(i.Amt))
	case Malloc:
		args = append(args, fmt.Sprintf("size=%d align=%d", i.Size, i.Align))
	case Flush:
		args = append(args, fmt.Sprint(i.Amt))
	default:
		if f := reflect.ValueOf(inst).FieldByName("Offset"); f.IsValid() {
			args = append(args, fmt.Sprintf("off=%d", f.Uint()))
		}
	}

	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

func valueTypes(types []api.ValueType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return "(" + strings.Join(names, ", ") + ")"
}

func fieldNames(r *wit.Record) string {
	names := make([]string, len(r.Fields))
	for i, f := range r.Fields {
		names[i] = f.Name
	}
	return "{" + strings.Join(names, ", ") + "}"
}
