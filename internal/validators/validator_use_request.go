package validators

import (
	"context"
	"encoding/json"

	"github.com/akopyan/override-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate to restrict validation to a subset
// of fields (field-level scoping).
const (
	FieldPassword = "password"
	FieldAction   = "action"
	FieldTarget   = "target"
	FieldMetadata = "metadata"
)

// maxActionLength bounds the action name so the audit log stays readable and
// within the column size.
const maxActionLength = 64

type UseRequestValidator struct {
}

func NewUseRequestValidator() Validator {
	return &UseRequestValidator{}
}

func (v *UseRequestValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.UseRequest:
		return v.validateUseRequest(ctx, value, fields...)
	case *models.UseRequest:
		return v.validateUseRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *UseRequestValidator) validateUseRequest(ctx context.Context, req models.UseRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldPassword, FieldAction, FieldTarget, FieldMetadata}
	}

	for _, f := range fields {
		switch f {
		case FieldPassword:
			if req.Password == "" {
				return ErrEmptyPassword
			}
		case FieldAction:
			if req.Action == "" {
				return ErrEmptyAction
			}
			if len(req.Action) > maxActionLength {
				return ErrActionTooLong
			}
		case FieldTarget:
			// Both halves of the target reference or neither.
			if (req.TargetID == "") != (req.TargetType == "") {
				return ErrIncompleteTarget
			}
		case FieldMetadata:
			if len(req.Metadata) > 0 && !json.Valid(req.Metadata) {
				return ErrInvalidMetadata
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
