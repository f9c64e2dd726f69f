package models

import "time"

// Generation event kinds recorded in the password_events table.
const (
	// EventGenerated marks a record created by the idempotent ensure path.
	EventGenerated = "generated"

	// EventForceRotated marks a record created by an explicit operator
	// rotation before the period naturally expired.
	EventForceRotated = "force_rotated"
)

// PasswordEvent is an append-only log entry describing one generation action.
type PasswordEvent struct {
	ID int64 `json:"-"`

	// Period is the ISO week key the event belongs to.
	Period string `json:"period"`

	// Kind is one of the Event* constants.
	Kind string `json:"kind"`

	// PasswordID references the record the event produced.
	PasswordID int64 `json:"password_id"`

	// ActorID is the staff user who triggered the action, or zero when the
	// event came from the cron path.
	ActorID int64 `json:"actor_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the name of the database table
// associated with the PasswordEvent model.
func (e PasswordEvent) TableName() string {
	return "password_events"
}
