// Package bindgen turns component function types into marshalling code.
//
// Generate runs the instruction producer for one function, feeds the stream
// to the marshaller and returns a Binding holding every stage: the
// instructions, the ir program, its Go source and a way to run it.
package bindgen

import (
	"bytes"
	"context"
	"fmt"
	"go/format"
	"strings"
	"unicode"

	"github.com/wippyai/canon-abi/abi"
	"github.com/wippyai/canon-abi/errors"
	"github.com/wippyai/canon-abi/eval"
	"github.com/wippyai/canon-abi/ir"
	"github.com/wippyai/canon-abi/layout"
	"github.com/wippyai/canon-abi/marshal"
	"github.com/wippyai/canon-abi/rt"
	"go.uber.org/zap"
)

// Options configures generation.
type Options struct {
	// Calc is shared between generations when set.
	Calc *layout.Calculator

	// Realloc names the guest allocator.
	Realloc string

	// Trusted skips validation of values read from the guest.
	Trusted bool
}

// DefaultOptions returns strict options using cabi_realloc.
func DefaultOptions() Options {
	return Options{Realloc: abi.DefaultOptions().Realloc}
}

// Binding is the generated marshalling code for one function.
type Binding struct {
	Target       *abi.Func
	Signature    *abi.Signature
	Func         *ir.Func
	Name         string
	Instructions []abi.Instruction
	Variant      abi.Variant
}

// Generate builds the binding for fn.
//
// For GuestExport the binding is the host side of a call into the guest: it
// takes one host value per parameter and returns one per result. For
// GuestImport it is the adapter behind a host import: it takes the core
// parameters of the import's signature and returns its core results.
func Generate(fn *abi.Func, variant abi.Variant, opts Options) (*Binding, error) {
	if fn == nil {
		return nil, errors.InvalidInput(errors.PhaseGenerate, "nil function")
	}
	calc := opts.Calc
	if calc == nil {
		calc = layout.NewCalculator()
	}

	sig := abi.SignatureOf(fn, variant)
	dir, params := abi.LowerArgsLiftResults, len(fn.Params)
	if variant == abi.GuestImport {
		dir, params = abi.LiftArgsLowerResults, len(sig.Params)
	}

	gen := abi.NewGenerator(calc, abi.Options{Realloc: opts.Realloc})
	insts := gen.Call(fn, variant, dir)

	name := goName(fn.Name, variant)
	in := marshal.New(calc, marshal.Options{Trusted: opts.Trusted})
	for i, inst := range insts {
		if err := in.Emit(inst); err != nil {
			return nil, errors.New(errors.PhaseGenerate, errors.KindInvalidInput).
				Cause(err).
				Detail("%s: instruction %d (%s)", fn.Name, i, abi.Format(inst)).
				Build()
		}
	}
	f, err := in.Finish(name, params)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, fn.Name)
	}

	Logger().Debug("generated binding",
		zap.String("func", fn.Name),
		zap.Stringer("variant", variant),
		zap.Int("instructions", len(insts)),
		zap.Int("params", params),
		zap.Bool("trusted", opts.Trusted))

	return &Binding{
		Name:         name,
		Target:       fn,
		Variant:      variant,
		Signature:    sig,
		Instructions: insts,
		Func:         f,
	}, nil
}

// GenerateAll builds bindings for every function, stopping at the first
// failure.
func GenerateAll(funcs []*abi.Func, variant abi.Variant, opts Options) ([]*Binding, error) {
	if opts.Calc == nil {
		opts.Calc = layout.NewCalculator()
	}
	out := make([]*Binding, 0, len(funcs))
	for _, fn := range funcs {
		b, err := Generate(fn, variant, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// Source returns the binding as a gofmt-formatted Go function.
func (b *Binding) Source() (string, error) {
	src, err := ir.Print(b.Func)
	if err != nil {
		return "", errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "print "+b.Name)
	}
	return string(src), nil
}

// Call runs the binding against cx without compiling it.
func (b *Binding) Call(ctx context.Context, cx *rt.Context, args ...any) ([]any, error) {
	return eval.Run(ctx, b.Func, cx, args...)
}

// Listing returns the instruction stream, one instruction per line.
func (b *Binding) Listing() string {
	var sb strings.Builder
	for i, inst := range b.Instructions {
		fmt.Fprintf(&sb, "%4d  %s\n", i, abi.Format(inst))
	}
	return sb.String()
}

// File renders bindings as one Go source file in package pkg.
func File(pkg string, bindings ...*Binding) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "// Code generated by canongen. DO NOT EDIT.\n\npackage %s\n\n", pkg)
	buf.WriteString("import \"github.com/wippyai/canon-abi/rt\"\n")
	for _, b := range bindings {
		src, err := b.Source()
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, "\n// %s is the %s binding for %s.\n", b.Name, b.Variant, b.Target.Name)
		buf.WriteString(src)
	}
	out, err := format.Source(buf.Bytes())
	if err != nil {
		return buf.Bytes(), errors.Wrap(errors.PhaseGenerate, errors.KindInvalidInput, err, "format file")
	}
	return out, nil
}

// goName builds an exported Go identifier from a kebab-case WIT name.
func goName(name string, variant abi.Variant) string {
	var sb strings.Builder
	if variant == abi.GuestExport {
		sb.WriteString("Call")
	} else {
		sb.WriteString("Handle")
	}
	upper := true
	for _, r := range name {
		if r == '-' || r == '_' {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
