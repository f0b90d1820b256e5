// Package errors provides structured error types for the ilkit library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the printable offending reference, its resolution
// context, a location path and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRelink, errors.KindRelinkTargetNotFound).
//		Ref(param).
//		Context(method).
//		Detail("no method owner in context chain").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.SearchNotFound("forward", 3)
//	err := errors.InvalidReferenceHandle(7, 2)
//
// Sentinels with an empty phase match any error of the same kind:
//
//	if errors.Is(err, ilerrors.ErrSearchNotFound) { ... }
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
