package models

import "time"

// CurrentPasswordResponse is the public view of the active record returned by
// GET /api/admin/password?action=current. The code itself is included because
// the endpoint is admin-only and the administrator has to read the weekly
// code out to staff; the hash never leaves the server.
type CurrentPasswordResponse struct {
	Period     string    `json:"period"`
	Password   string    `json:"password"`
	CreatedAt  time.Time `json:"created_at"`
	ExpiresAt  time.Time `json:"expires_at"`
	Remaining  int64     `json:"remaining_seconds"`
	UsageCount int64     `json:"usage_count"`
}

// IssueResponse is returned by the ensure/generate endpoints. Password is
// omitted when empty: the cron trigger deliberately leaves it unset so the
// secret never travels over the unauthenticated path.
type IssueResponse struct {
	Period    string    `json:"period"`
	Password  string    `json:"password,omitempty"`
	Created   bool      `json:"created"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ErrorResponse is the JSON error envelope used by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}
