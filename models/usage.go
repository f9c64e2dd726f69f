package models

import (
	"encoding/json"
	"time"
)

// PasswordUsage is one immutable audit entry recorded each time an override
// code successfully authorizes a sensitive action. Rows are append-only:
// they are never updated or deleted.
type PasswordUsage struct {
	ID int64 `json:"-"`

	// PasswordID references the AdminPassword that authorized the action.
	PasswordID int64 `json:"password_id"`

	// UserID is the acting staff user.
	UserID int64 `json:"user_id"`

	// Action names the sensitive operation, e.g. "delete_job",
	// "force_complete_payment", "restore_quotation".
	Action string `json:"action"`

	// TargetID and TargetType optionally identify the affected entity.
	TargetID   string `json:"target_id,omitempty"`
	TargetType string `json:"target_type,omitempty"`

	// Metadata is free-form JSON supplied by the caller.
	Metadata json.RawMessage `json:"metadata,omitempty"`

	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the PasswordUsage model.
func (u PasswordUsage) TableName() string {
	return "password_usages"
}

// UsageStats is a read-only aggregation over the usage log for a trailing
// window of days.
type UsageStats struct {
	// WindowDays is the length of the trailing window the stats cover.
	WindowDays int `json:"window_days"`

	// Periods lists the password records issued inside the window,
	// newest first. Hash and plaintext fields are excluded by the
	// AdminPassword JSON tags.
	Periods []AdminPassword `json:"periods"`

	// TotalUsageCount is the number of usage entries inside the window.
	TotalUsageCount int64 `json:"total_usage_count"`

	// UsageByAction maps action name to its usage count inside the window.
	UsageByAction map[string]int64 `json:"usage_by_action"`
}
