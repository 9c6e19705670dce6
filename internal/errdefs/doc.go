// Package errdefs defines the error taxonomy shared by the compiler and the
// runtime.
//
// Every failure is classified by a sentinel error so callers can test it
// with errors.Is; the typed wrappers (DefineError, CycleError,
// ValidationError, NotFoundError, StrictInterruptError) carry the details.
package errdefs
