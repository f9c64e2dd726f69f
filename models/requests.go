package models

import "encoding/json"

// UseRequest is the body of POST /api/admin/password: an override code plus
// a description of the action it is authorizing.
type UseRequest struct {
	// Password is the submitted plaintext override code.
	Password string `json:"password"`

	// Action names the sensitive operation being authorized. Required.
	Action string `json:"action"`

	TargetID   string          `json:"target_id,omitempty"`
	TargetType string          `json:"target_type,omitempty"`
	Metadata   json.RawMessage `json:"metadata,omitempty"`
}
