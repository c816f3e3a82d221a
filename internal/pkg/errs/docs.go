// Package errs provides standardized error types for the storefront order engine.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package groups errors into three families that callers classify with errors.Is:
//   - validation: ValueIsRequiredError, ValueIsInvalidError, ValueIsOutOfRangeError,
//     InsufficientStockError and StatusTransitionIsInvalidError (see IsValidation)
//   - lookup: ObjectNotFoundError
//   - state: ConflictError
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
package errs
