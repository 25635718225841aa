package errs

import "errors"

// Engine-wide error taxonomy. Callers classify with errors.Is; handlers map
// each class to exactly one HTTP status and user-facing message.
var (
	// ErrInvalidInput: malformed dates, missing fields. Caller's fault, never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict: availability lost between quote and commit. The caller must
	// restart the flow, not retry blindly.
	ErrConflict = errors.New("availability conflict")

	// ErrUpstreamUnavailable: authority timeout or error. Retryable. Reads fall
	// back to cache; writes fail closed.
	ErrUpstreamUnavailable = errors.New("upstream authority unavailable")

	// ErrPaymentFailed: processor declined or errored, surfaced verbatim.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInconsistent: upstream write succeeded but local persistence failed (or
	// vice versa). Never auto-retried; always logged for manual reconciliation.
	ErrInconsistent = errors.New("inconsistent booking state")

	// ErrNoOp: modification request that changes nothing.
	ErrNoOp = errors.New("no fields changed")

	ErrBookingNotFound   = errors.New("booking not found")
	ErrResourceNotFound  = errors.New("resource not found")
	ErrIncentiveNotFound = errors.New("incentive not found")
)
