package economy

import "errors"

var (
	// ErrInvalidInput is wrapped by every validation failure; the wrapped
	// message names the offending field.
	ErrInvalidInput = errors.New("invalid input")

	ErrInsufficientFunds          = errors.New("insufficient tokens")
	ErrAlreadyOwned               = errors.New("already purchased")
	ErrNotFoundOrAlreadyCompleted = errors.New("exercise not found, already completed, or access denied")
	ErrNotOwned                   = errors.New("access denied, purchase solution first")

	ErrUserNotFound     = errors.New("user not found")
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrSolutionNotFound = errors.New("solution not found")
	ErrItemNotFound     = errors.New("item not found")

	// ErrExerciseCatalogMissing means an attempt points at an exercise row
	// that no longer exists. It is never caused by the caller.
	ErrExerciseCatalogMissing = errors.New("exercise catalog entry missing")
)

const (
	OutcomeOK                         = "ok"
	OutcomeInvalidInput               = "invalid_input"
	OutcomeInsufficientFunds          = "insufficient_funds"
	OutcomeAlreadyOwned               = "already_owned"
	OutcomeNotFoundOrAlreadyCompleted = "not_found_or_already_completed"
	OutcomeNotOwned                   = "not_owned"
	OutcomeNotFound                   = "not_found"
	OutcomeError                      = "error"
)

// Outcome classifies err into a short label used for metrics and logs.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrInvalidInput):
		return OutcomeInvalidInput
	case errors.Is(err, ErrInsufficientFunds):
		return OutcomeInsufficientFunds
	case errors.Is(err, ErrAlreadyOwned):
		return OutcomeAlreadyOwned
	case errors.Is(err, ErrNotFoundOrAlreadyCompleted):
		return OutcomeNotFoundOrAlreadyCompleted
	case errors.Is(err, ErrNotOwned):
		return OutcomeNotOwned
	case errors.Is(err, ErrUserNotFound),
		errors.Is(err, ErrExerciseNotFound),
		errors.Is(err, ErrSolutionNotFound),
		errors.Is(err, ErrItemNotFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// IsBusinessError reports whether err is an expected, user-facing condition
// rather than an internal failure.
func IsBusinessError(err error) bool {
	outcome := Outcome(err)
	return outcome != OutcomeOK && outcome != OutcomeError
}
