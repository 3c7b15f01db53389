package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseGenerate Phase = "generate" // instruction stream interpretation
	PhaseLower    Phase = "lower"    // host to wire
	PhaseLift     Phase = "lift"     // wire to host
	PhaseResource Phase = "resource" // handle table operations
	PhaseCall     Phase = "call"     // guest/host call boundary
	PhaseParse    Phase = "parse"    // WIT signature parsing
)

// Kind categorizes the error
type Kind string

const (
	// KindWireFormat is a WireFormatViolation: bad discriminant, bad boolean,
	// bad flags padding, bad code point, out-of-range narrow integer.
	KindWireFormat Kind = "wire_format"
	// KindHandle is a HandleViolation: freed, forged or zero-rep handle, or a
	// borrow still present when its call scope exits.
	KindHandle Kind = "handle"
	// KindAllocation is an AllocationFailure raised by this module. Errors
	// returned by an Allocator are propagated verbatim instead.
	KindAllocation Kind = "allocation"

	KindTypeMismatch   Kind = "type_mismatch"
	KindStackImbalance Kind = "stack_imbalance"
	KindBlockImbalance Kind = "block_imbalance"
	KindInvalidVariant Kind = "invalid_variant"
	KindInvalidEnum    Kind = "invalid_enum"
	KindFieldMissing   Kind = "field_missing"
	KindOutOfBounds    Kind = "out_of_bounds"
	KindOverflow       Kind = "overflow"
	KindUnsupported    Kind = "unsupported"
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
)

// Error is the structured error type used throughout the module
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))
	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}
	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", WIT type ")
			b.WriteString(e.WitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}
	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind,
// regardless of phase. Combined errors are searched member by member.
func IsKind(err error, kind Kind) bool {
	switch e := err.(type) {
	case nil:
		return false
	case *Error:
		return e.Kind == kind || IsKind(e.Cause, kind)
	case interface{ Unwrap() []error }:
		return anyKind(e.Unwrap(), kind)
	case interface{ Errors() []error }:
		return anyKind(e.Errors(), kind)
	}
	return IsKind(stderrors.Unwrap(err), kind)
}

func anyKind(errs []error, kind Kind) bool {
	for _, err := range errs {
		if IsKind(err, kind) {
			return true
		}
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, witType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		WitType: witType,
	}
}

// WireFormat creates a WireFormatViolation error
func WireFormat(phase Phase, detail string, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Detail: detail,
		Value:  value,
	}
}

// InvalidDiscriminant creates a wire format error for a variant, option,
// result or enum discriminant outside the declared case range.
func InvalidDiscriminant(phase Phase, path []string, disc uint32, numCases int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Path:   path,
		Detail: fmt.Sprintf("invalid discriminant %d (%d cases)", disc, numCases),
		Value:  disc,
	}
}

// InvalidBool creates a wire format error for a boolean that is neither 0 nor 1
func InvalidBool(phase Phase, v int32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Detail: fmt.Sprintf("invalid bool value %d", v),
		Value:  v,
	}
}

// InvalidChar creates a wire format error for a value that is not a Unicode scalar value
func InvalidChar(phase Phase, v uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Detail: fmt.Sprintf("invalid Unicode scalar value: 0x%X", v),
		Value:  v,
	}
}

// InvalidFlags creates a wire format error for flag bits set beyond the declared count
func InvalidFlags(phase Phase, word int, bits uint32, declared int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Detail: fmt.Sprintf("flags word %d has undeclared bits set: 0x%X (%d flags declared)", word, bits, declared),
		Value:  bits,
	}
}

// InvalidUTF8 creates a wire format error for string bytes that are not UTF-8
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindWireFormat,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// Handle creates a HandleViolation error
func Handle(handle uint32, detail string) *Error {
	return &Error{
		Phase:  PhaseResource,
		Kind:   KindHandle,
		Detail: fmt.Sprintf("handle %d: %s", handle, detail),
		Value:  handle,
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// StackImbalance creates an error for an instruction that found too few operands
func StackImbalance(instr string, want, have int) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindStackImbalance,
		Detail: fmt.Sprintf("%s needs %d operands, %d available", instr, want, have),
	}
}

// BlockImbalance creates an error for mismatched block push/finish
func BlockImbalance(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseGenerate,
		Kind:   KindBlockImbalance,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// FieldMissing creates a missing field error
func FieldMissing(phase Phase, path []string, fieldName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFieldMissing,
		Path:   path,
		Detail: fmt.Sprintf("required field %q not found", fieldName),
	}
}

// InvalidVariant creates an error for a host variant value naming an unknown case
func InvalidVariant(phase Phase, caseName string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidVariant,
		Detail: fmt.Sprintf("unknown variant case %q", caseName),
		Value:  caseName,
	}
}

// InvalidEnum creates an invalid enum value error
func InvalidEnum(phase Phase, value any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidEnum,
		Detail: fmt.Sprintf("invalid enum value %v", value),
		Value:  value,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindOverflow,
		Path:    path,
		WitType: targetType,
		Detail:  fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:   value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidInput,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
