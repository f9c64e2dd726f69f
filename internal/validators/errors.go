package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrEmptyPassword    = errors.New("password is required")
	ErrEmptyAction      = errors.New("action is required")
	ErrActionTooLong    = errors.New("action name is too long")
	ErrIncompleteTarget = errors.New("target id and target type must be provided together")
	ErrInvalidMetadata  = errors.New("metadata must be a JSON object")
)
