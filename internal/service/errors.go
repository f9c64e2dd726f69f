package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrTokenCreationFailed     = errors.New("token creation failed")

	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	// ErrRegenerationConflict is returned when forced regeneration keeps
	// losing the insert race against concurrent generation calls after its
	// internal retry budget is exhausted.
	ErrRegenerationConflict = errors.New("regeneration lost the race repeatedly")
)

// Validation failure reasons surfaced in [models.ValidationResult.Reason].
// They are messages, not errors: a rejected code is a normal outcome.
const (
	ReasonNoActivePassword = "no active password"
	ReasonPasswordExpired  = "password expired"
	ReasonWrongPassword    = "invalid password"
)
