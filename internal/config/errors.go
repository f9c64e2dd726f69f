package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration values are missing or invalid. All of them are fatal at
// startup of the invoking binary.
var (
	// ErrMissingDSN indicates that no database connection string was provided
	// by any configuration source.
	ErrMissingDSN = errors.New("missing database DSN")
	// ErrUnknownDriver indicates that the configured database driver is not
	// one of the supported backends.
	ErrUnknownDriver = errors.New("unknown database driver")
	// ErrMissingTokenSignKey indicates that the JWT signing key is absent;
	// without it no staff user can authenticate.
	ErrMissingTokenSignKey = errors.New("missing token sign key")
	// ErrMissingCronToken indicates that the shared secret gating the cron
	// trigger endpoint is absent.
	ErrMissingCronToken = errors.New("missing cron token")
	// ErrMissingAdapterAddress indicates that a client binary was started
	// without a server address to talk to.
	ErrMissingAdapterAddress = errors.New("missing adapter address")
)
