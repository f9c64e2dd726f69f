package service

import (
	"context"

	"github.com/akopyan/override-keeper/models"
)

// PasswordService owns the override-code lifecycle: weekly issuance,
// forced rotation, validation, best-effort usage logging, and statistics.
type PasswordService interface {
	// Current returns the active, non-expired record without creating one.
	// Returns store.ErrNoActivePassword when no usable record exists.
	Current(ctx context.Context) (models.AdminPassword, error)

	// EnsureActivePassword returns the active code for the current period,
	// creating one if none exists. Idempotent within a period: repeated calls
	// never rotate the secret.
	EnsureActivePassword(ctx context.Context) (models.PasswordIssue, error)

	// ForceRegenerate rotates the active code immediately, regardless of
	// whether the current period already has one. Intentionally
	// non-idempotent; callers must not retry it blindly.
	ForceRegenerate(ctx context.Context, actorID int64) (models.PasswordIssue, error)

	// Validate checks a submitted plaintext code against the active record.
	// The returned result never contains hash or plaintext material.
	// The error return is reserved for storage failures; a wrong or expired
	// code is a valid result with IsValid=false.
	Validate(ctx context.Context, candidate string) (models.ValidationResult, error)

	// LogUsage appends a usage audit entry. Best-effort: failures are logged
	// and swallowed so they can never undo the action the code authorized.
	LogUsage(ctx context.Context, usage models.PasswordUsage)

	// Stats aggregates records and usage over the trailing windowDays days
	// (default 30 when windowDays <= 0).
	Stats(ctx context.Context, windowDays int) (models.UsageStats, error)
}

// AuthService handles staff authentication and JWT token lifecycle.
type AuthService interface {
	RegisterUser(ctx context.Context, user models.StaffUser) (models.StaffUser, error)
	Login(ctx context.Context, user models.StaffUser) (models.StaffUser, error)
	CreateToken(ctx context.Context, user models.StaffUser) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build/application metadata.
type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
}
