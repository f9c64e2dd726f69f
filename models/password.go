package models

import "time"

// AdminPassword is one issued override code. At most one record is active per
// period; older records are deactivated on rotation and kept for audit.
// Sensitive fields must never be exposed outside trusted boundaries.
type AdminPassword struct {
	// ID is the internal unique identifier of the record.
	ID int64 `json:"-"`

	// Period is the ISO week key the code was issued for, e.g. "2024-W10".
	Period string `json:"period"`

	// PlainCode is the generated override code. It is persisted so that an
	// administrator can look the current code up, but it is never serialized
	// into API responses.
	PlainCode string `json:"-"`

	// CodeHash is the hex-encoded SHA-256 digest of PlainCode. Validation
	// compares against this value only.
	CodeHash string `json:"-"`

	// IsActive marks the single record eligible for validation.
	IsActive bool `json:"is_active"`

	// UsageCount is a denormalized counter of successful uses. The usage log
	// is the authoritative source; this value is advisory.
	UsageCount int64 `json:"usage_count"`

	CreatedAt time.Time `json:"created_at"`

	// ExpiresAt is the exclusive end of the validity window (start of the
	// following ISO week). A record past ExpiresAt is rejected even if the
	// IsActive flag is stale.
	ExpiresAt time.Time `json:"expires_at"`
}

// TableName returns the name of the database table
// associated with the AdminPassword model.
func (p AdminPassword) TableName() string {
	return "admin_passwords"
}

// Expired reports whether the record's validity window has passed at now.
func (p AdminPassword) Expired(now time.Time) bool {
	return !now.UTC().Before(p.ExpiresAt)
}

// PasswordIssue is the result of an ensure or forced-regeneration call.
type PasswordIssue struct {
	// Password is the plaintext override code of the active record.
	Password string `json:"password"`

	// Record is the active record the code belongs to.
	Record AdminPassword `json:"record"`

	// Created is true when this call inserted a new record; false when an
	// existing active record for the period was returned unchanged.
	Created bool `json:"created"`
}

// ValidationResult is the outcome of checking a submitted override code.
// It intentionally carries no hash or plaintext material.
type ValidationResult struct {
	IsValid bool `json:"is_valid"`

	// PasswordID identifies the matched record on success, for usage logging.
	PasswordID int64 `json:"password_id,omitempty"`

	// Reason is a short human-readable failure cause, empty on success.
	Reason string `json:"error,omitempty"`
}
