// Package errors provides the error taxonomy for code generation.
//
// Every failure is an *Error carrying a Kind. Failures that originate in
// the operating system (page allocation, protection changes) always keep
// the OS error as the Cause, so callers can recover the platform error code
// with errors.As:
//
//	region, err := mem.New(1)
//	if errors.Is(err, jiterrors.ErrAllocation) {
//		var errno unix.Errno
//		if errors.As(err, &errno) {
//			...
//		}
//	}
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.KindProtection).
//		Op("mprotect").
//		Detail("%d pages to %s", pages, prot).
//		Cause(errno).
//		Build()
package errors
