package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseLex     Phase = "lex"     // tokenizing type definitions
	PhaseParse   Phase = "parse"   // parsing type definitions
	PhaseResolve Phase = "resolve" // type reference resolution
	PhaseEncode  Phase = "encode"  // value to bytes
	PhaseDecode  Phase = "decode"  // bytes to value
	PhaseGuest   Phase = "guest"   // guest host-module calls
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidToken   Kind = "invalid_token"
	KindSyntax         Kind = "syntax"
	KindUnknownType    Kind = "unknown_type"
	KindUnknownVariant Kind = "unknown_variant"
	KindParamCount     Kind = "param_count"
	KindAliasCycle     Kind = "alias_cycle"
	KindTypeMismatch   Kind = "type_mismatch"
	KindLengthMismatch Kind = "length_mismatch"
	KindOverflow       Kind = "overflow"
	KindUnderrun       Kind = "buffer_underrun"
	KindDepthExceeded  Kind = "depth_exceeded"
	KindInvalidData    Kind = "invalid_data"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	TypeName string
	Detail   string
	Path     []string
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

	if e.TypeName != "" {
		b.WriteString(": type ")
		b.WriteString(e.TypeName)
	}

	if e.Detail != "" {
		if e.TypeName != "" {
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

// TypeName sets the wire type name
func (b *Builder) TypeName(t string) *Builder {
	b.err.TypeName = t
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

// InvalidToken creates a lexical error for an unrecognized or malformed token
func InvalidToken(line int, detail string) *Error {
	return &Error{
		Phase:  PhaseLex,
		Kind:   KindInvalidToken,
		Detail: fmt.Sprintf("line %d: %s", line, detail),
	}
}

// Syntax creates a grammar mismatch error
func Syntax(line int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindSyntax,
		Detail: fmt.Sprintf("line %d: %s", line, detail),
	}
}

// UnknownType creates an unknown type reference error
func UnknownType(name string) *Error {
	return &Error{
		Phase:  PhaseResolve,
		Kind:   KindUnknownType,
		Detail: fmt.Sprintf("Unknown type %s", name),
	}
}

// UnknownVariant creates an unknown enum variant error. The variant may
// be a name (encoding) or a discriminant byte (decoding).
func UnknownVariant(phase Phase, variant any) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnknownVariant,
		Detail: fmt.Sprintf("Unknown variant %v", variant),
		Value:  variant,
	}
}

// ParamCount creates a generic parameter count mismatch error
func ParamCount(name string, want, got int) *Error {
	return &Error{
		Phase:    PhaseResolve,
		Kind:     KindParamCount,
		TypeName: name,
		Detail:   fmt.Sprintf("Type %s expected %d type parameters, got %d", name, want, got),
	}
}

// AliasCycle creates an alias cycle error
func AliasCycle(ref string) *Error {
	return &Error{
		Phase:    PhaseResolve,
		Kind:     KindAliasCycle,
		TypeName: ref,
		Detail:   fmt.Sprintf("alias chain starting at %s does not terminate", ref),
	}
}

// TypeMismatch creates a value shape mismatch error
func TypeMismatch(phase Phase, path []string, typeName, detail string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Path:     path,
		TypeName: typeName,
		Detail:   detail,
	}
}

// LengthMismatch creates a fixed-length arity error
func LengthMismatch(phase Phase, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindLengthMismatch,
		Detail: fmt.Sprintf("Expected array of length %d, got %d", want, got),
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindOverflow,
		TypeName: targetType,
		Detail:   fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:    value,
	}
}

// Underrun creates an end-of-buffer error at the given position
func Underrun(pos int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindUnderrun,
		Detail: fmt.Sprintf("unexpected end of buffer at position %d", pos),
	}
}

// DepthExceeded creates a nesting limit error
func DepthExceeded(phase Phase, limit int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDepthExceeded,
		Detail: fmt.Sprintf("nesting depth exceeds limit of %d", limit),
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
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

// SourceErrors aggregates every lexical and grammar problem found in a
// type-definition source. Parsing is not fail-fast; the caller gets all
// mismatches in one value.
type SourceErrors struct {
	Phase Phase
	Errs  []error
}

// NewSourceErrors creates an aggregate from collected errors. Returns
// nil when the list is empty so callers can return it directly.
func NewSourceErrors(phase Phase, errs []error) *SourceErrors {
	if len(errs) == 0 {
		return nil
	}
	return &SourceErrors{Phase: phase, Errs: errs}
}

func (e *SourceErrors) Error() string {
	if len(e.Errs) == 1 {
		return e.Errs[0].Error()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d %s errors:", len(e.Errs), e.Phase)
	for _, err := range e.Errs {
		b.WriteString("\n  ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap exposes the collected errors to errors.Is/As.
func (e *SourceErrors) Unwrap() []error {
	return e.Errs
}

// Is reports whether target matches this error type
func (e *SourceErrors) Is(target error) bool {
	_, ok := target.(*SourceErrors)
	return ok
}
