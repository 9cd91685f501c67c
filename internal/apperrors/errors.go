package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller is not allowed to perform the operation,
// e.g. a candidate claiming a shift outside their declared disciplines.
var ErrForbidden = errors.New("operation not permitted")

// ErrConflict indicates that the resource is in a state that does not allow the
// requested transition (e.g. submitting an already-submitted timesheet).
var ErrConflict = errors.New("resource state conflict")

// ErrAlreadyClaimed indicates that another candidate won the race for a shift.
// Callers should not retry the same shift.
var ErrAlreadyClaimed = errors.New("shift already claimed")

// ErrBillingNotConfigured indicates that the client has no billing customer
// handle at the external provider. Actionable by an admin, not by the caller.
var ErrBillingNotConfigured = errors.New("client billing not configured")

// ErrExternalProvider indicates a network or provider failure while talking to
// the external billing service. Retryable at the caller's discretion.
var ErrExternalProvider = errors.New("external provider failure")

// ErrInvalidTimeFormat indicates a malformed wall-clock time or calendar date.
var ErrInvalidTimeFormat = errors.New("invalid time format")
