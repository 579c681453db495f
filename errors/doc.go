// Package errors provides structured error types for the decoder packages.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the byte offset of the failure, a logical path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseSignature, errors.KindMalformed).
//		Offset(12).
//		Path("params", "2").
//		Detail("invalid type signature code 0x%02x", b).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.Malformed(errors.PhaseOpcode, off, "unknown opcode 0x%02x", b)
//	err := errors.Truncated(errors.PhaseBlob, pos, 4, 1)
//
// Malformed-binary errors are never recovered inside the decoders; they
// propagate to the caller, which decides whether a single method or the
// whole module is undecodable. IsMalformed tests for them anywhere in a
// wrapped chain.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
