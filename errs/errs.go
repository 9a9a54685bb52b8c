// Package errs defines the failure taxonomy shared by every protocol component.
//
// Component packages declare their own named sentinels wrapping one of these
// categories, so a caller can match the precise reason or the broad class:
//
//	errors.Is(err, rebase.ErrTooEarly)        // precise
//	errors.Is(err, errs.ErrPreconditionNotMet) // category
package errs

import "errors"

var (
	// ErrAccessControl is returned when the caller is not gov, owner, dev or pending gov.
	ErrAccessControl = errors.New("access control")

	// ErrInvalidParameter is returned for zero or out-of-bound configuration values.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrPreconditionNotMet is returned when the protocol is not in a state that
	// permits the operation (twap not initialised, outside the rebase window, ...).
	ErrPreconditionNotMet = errors.New("precondition not met")

	// ErrInsufficientBalance is returned when an account holds less than requested.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCircuitBreakerActive is returned when a claim is attempted while the breaker is set.
	ErrCircuitBreakerActive = errors.New("circuit breaker active")

	// ErrArithmetic is returned on fixed-point overflow, underflow or division by zero.
	ErrArithmetic = errors.New("arithmetic error")
)
