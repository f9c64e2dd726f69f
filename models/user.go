package models

import "time"

// Staff roles, in decreasing order of privilege. Only RoleAdmin may manage
// override codes or authorize sensitive actions with them.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// StaffUser represents an account entity used for authentication and
// authorization. Sensitive fields must never be exposed outside trusted
// boundaries.
type StaffUser struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Login is the unique user login identifier.
	Login string `json:"login"`

	// Name is the display name of the user. Non-sensitive.
	Name string `json:"name,omitempty"`

	// Role is one of the Role* constants and drives endpoint authorization.
	Role string `json:"role,omitempty"`

	// Password carries the plaintext password on inbound login/registration
	// requests only. It is cleared before the struct crosses any boundary
	// other than the auth service.
	Password string `json:"password,omitempty"`

	// PasswordHash is the bcrypt hash stored at the persistence layer.
	// Never serialized.
	PasswordHash string `json:"-"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the StaffUser model.
func (u StaffUser) TableName() string {
	return "staff_users"
}

// IsAdmin reports whether the user holds the admin role.
func (u StaffUser) IsAdmin() bool {
	return u.Role == RoleAdmin
}
