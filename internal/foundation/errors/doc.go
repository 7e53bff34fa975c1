// Package errors provides classified error primitives for designpipe.
//
// A ClassifiedError carries a category, a severity, a retry strategy and
// structured context. The CLI adapter maps categories to exit codes.
//
// Example usage:
//
//	err := errors.WrapError(readErr, errors.CategoryAsset, "member asset unreadable").
//		Warning().
//		WithContext("asset", path).
//		Build()
package errors
