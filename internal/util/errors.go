// internal/util/errors.go
package util

import "errors"

// Common application-specific errors. The text of each user-facing error is
// exactly what the apology page shows, so handlers never rewrite messages.
var (
	// ErrNotFound is the generic repository-level miss (sql.ErrNoRows).
	ErrNotFound = errors.New("resource not found")

	// Validation failures.
	ErrMissingUsername  = errors.New("must provide username")
	ErrMissingPassword  = errors.New("must provide password")
	ErrPasswordMismatch = errors.New("password does not match")
	ErrInvalidShares    = errors.New("number of shares must be positive")
	ErrInvalidAmount    = errors.New("enter a positive amount")
	ErrAmountTooLarge   = errors.New("cannot add more than $10,000 at once")

	// Auth and registration failures.
	ErrInvalidCredentials = errors.New("invalid username and/or password")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrNoSession          = errors.New("no active session")

	// Trading failures.
	ErrInvalidSymbol      = errors.New("invalid stock symbol")
	ErrInsufficientFunds  = errors.New("not enough money to buy stocks")
	ErrInsufficientShares = errors.New("not enough shares to sell")
)

// userErrors are the failures a request can legitimately end with; anything
// else is treated as an internal fault.
var userErrors = []error{
	ErrMissingUsername,
	ErrMissingPassword,
	ErrPasswordMismatch,
	ErrInvalidShares,
	ErrInvalidAmount,
	ErrAmountTooLarge,
	ErrInvalidCredentials,
	ErrUsernameTaken,
	ErrInvalidSymbol,
	ErrInsufficientFunds,
	ErrInsufficientShares,
}

// IsUserError reports whether err is (or wraps) one of the terminal
// user-facing failures.
func IsUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// IsError checks if err is, or wraps, the target error.
func IsError(err, target error) bool {
	return errors.Is(err, target)
}
