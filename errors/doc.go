// Package errors provides structured error types for the scale-codec library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: field path, wire type name, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseEncode, errors.KindTypeMismatch).
//		Path("msg", "id").
//		TypeName("u32").
//		Detail("cannot convert string to integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnknownVariant(errors.PhaseDecode, 7)
//	err := errors.LengthMismatch(errors.PhaseEncode, 32, 16)
//
// Lexing and parsing collect every problem in the source rather than
// stopping at the first; SourceErrors carries the aggregate.
//
// All errors implement the standard error interface and support errors.Is/As.
// No input, however malformed, turns into a panic: every failure is a
// returned value.
package errors
