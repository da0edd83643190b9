// Package errors provides the classified error type shared by doctoc packages.
//
// Errors carry a category (what failed), a severity (how bad it is) and
// structured context. The CLI adapter turns them into exit codes and log
// records.
//
// Example usage:
//
//	err := errors.WrapError(ioErr, errors.CategoryFileSystem, "failed to write document").
//		WithContext("path", path).
//		Build()
package errors
