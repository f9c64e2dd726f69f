// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating
// with the override-keeper server.
//
// The primary abstraction is [ServerAdapter], which decouples the client
// binaries (cron trigger, operator console) from the underlying protocol.
// The package ships an HTTP/REST implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic
// error handling (e.g. [ErrUnauthorized] for 401, [ErrNotFound] for 404).
package adapter

import (
	"context"

	"github.com/akopyan/override-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the
// override-keeper server. Implementations are responsible for serialisation,
// authentication header management, and mapping transport-level errors to the
// sentinel values defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all
	// subsequent authenticated requests. It should be called immediately
	// after a successful Login.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// Login authenticates the staff user with the server. On success it
	// stores the returned bearer token via SetToken. Returns an error if the
	// request fails or the server responds with a non-2xx status.
	Login(ctx context.Context, user models.StaffUser) error

	// CurrentPassword fetches the public view of the active override code,
	// including its plaintext and remaining validity. Returns [ErrNotFound]
	// (wrapped) when no active code exists.
	CurrentPassword(ctx context.Context) (models.CurrentPasswordResponse, error)

	// Stats fetches usage statistics for the trailing days window. Zero days
	// requests the server default.
	Stats(ctx context.Context, days int) (models.UsageStats, error)

	// Ensure triggers the idempotent weekly issuance.
	Ensure(ctx context.Context) (models.IssueResponse, error)

	// Regenerate rotates the override code immediately.
	Regenerate(ctx context.Context) (models.IssueResponse, error)

	// TriggerCron hits the unauthenticated cron endpoint with the shared
	// token. Used by the one-shot cron binary; no bearer token is required.
	TriggerCron(ctx context.Context, cronToken string) (models.IssueResponse, error)
}
