// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup. A failed check here is
// a configuration error: the invoking binary reports it and exits rather than
// starting with a partially usable setup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrMissingDSN
	}

	if cfg.Storage.DB.Driver != "" && cfg.Storage.DB.Driver != DriverPostgres && cfg.Storage.DB.Driver != DriverSQLite {
		return ErrUnknownDriver
	}

	if cfg.App.TokenSignKey == "" {
		return ErrMissingTokenSignKey
	}

	if cfg.Cron.Token == "" {
		return ErrMissingCronToken
	}

	return nil
}

// Supported database drivers.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite3"
)

// DriverOrDefault returns the configured database driver, defaulting to
// PostgreSQL when unset.
func (db DB) DriverOrDefault() string {
	if db.Driver == "" {
		return DriverPostgres
	}
	return db.Driver
}
