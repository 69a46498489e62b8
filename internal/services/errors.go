package services

import "errors"

// Recoverable error taxonomy. Every failure a service returns wraps one of
// these sentinels so handlers can map it to a status code with errors.Is;
// none of them is ever fatal. The only fatal condition is record-store
// unavailability, which propagates unwrapped.
var (
	// ErrNotFound: the referenced user or post does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict: the action would duplicate existing state (username
	// taken, already following, already liked).
	ErrConflict = errors.New("conflict")
	// ErrInvalidState: the action undoes a relationship that does not
	// exist (unfollow without following, unlike without a like).
	ErrInvalidState = errors.New("invalid state")
	// ErrValidation: malformed id or empty required field.
	ErrValidation = errors.New("validation failed")
	// ErrWrongPassword: the username resolved but the password did not
	// match. Kept distinct from ErrNotFound so login messaging can tell
	// the two apart.
	ErrWrongPassword = errors.New("incorrect password")
)

// Result carries the user-facing outcome of a social action as a message
// plus a severity, mirroring the flash categories the UI renders.
type Result struct {
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// Severity levels, in the order the UI styles them.
const (
	SeveritySuccess = "success"
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)
