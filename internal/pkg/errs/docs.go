// Package errs provides standardized error types for the workload dispatch service.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes several error types for common error scenarios:
//   - ObjectNotFoundError: an order, staff member or work unit cannot be found
//   - ValueIsInvalidError: a value violates a business rule
//   - ValueIsRequiredError: a required value is missing
//   - ValueIsOutOfRangeError: a value falls outside an allowed range
//   - VersionIsInvalidError: a stale aggregate version reached persistence
//   - InvalidStateTransitionError: a lifecycle transition is not allowed
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g., ErrObjectNotFound)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel
//   - Is() method matching the cause, so a domain sentinel passed as the cause
//     (for example staff.ErrUnknownStaff) is found by errors.Is as well
package errs
