// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
)

// passwordRepository is the SQL-backed implementation of [PasswordRepository].
// It owns the single-active invariant: the partial unique index on
// (period) WHERE is_active makes a duplicate insert for an already-served
// period fail at the storage level, and this repository translates that
// failure into [ErrActivePasswordExists] for the service layer to resolve by
// re-reading. The ensure and forced-rotation paths differ only in which prior
// rows they deactivate before inserting.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type passwordRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewPasswordRepository constructs a [PasswordRepository] backed by the
// provided database connection and logger.
func NewPasswordRepository(db *DB, logger *logger.Logger) PasswordRepository {
	logger.Debug().Msg("creating password repository")
	return &passwordRepository{
		db:     db,
		logger: logger,
	}
}

// FindActive returns the most recently created active record.
func (r *passwordRepository) FindActive(ctx context.Context) (models.AdminPassword, error) {
	return r.findOne(ctx, findActivePassword)
}

// FindActiveByPeriod returns the active record for the given period key.
func (r *passwordRepository) FindActiveByPeriod(ctx context.Context, period string) (models.AdminPassword, error) {
	return r.findOne(ctx, findActivePasswordByPeriod, period)
}

func (r *passwordRepository) findOne(ctx context.Context, query string, args ...any) (models.AdminPassword, error) {
	log := logger.FromContext(ctx)

	var record models.AdminPassword
	row := r.db.QueryRowContext(ctx, query, args...)

	if err := row.Scan(
		&record.ID, &record.Period, &record.PlainCode, &record.CodeHash,
		&record.IsActive, &record.UsageCount, &record.CreatedAt, &record.ExpiresAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AdminPassword{}, ErrNoActivePassword
		}
		log.Err(err).Str("func", "*passwordRepository.findOne").Msg("error: scanning error")
		return models.AdminPassword{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	return record, nil
}

// InsertIfAbsent inserts record as the period's active row only when the
// period has no committed active row yet. Stale active rows from other
// periods are deactivated in the same transaction; the current period's row,
// if one exists, is left untouched so the insert conflicts on the partial
// unique index and the caller receives [ErrActivePasswordExists] to re-read
// the winner. This is the ensure path's primitive.
func (r *passwordRepository) InsertIfAbsent(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	return r.insertActive(ctx, record, "*passwordRepository.InsertIfAbsent", deactivateStalePasswords, record.Period)
}

// CreateActive deactivates all active records, the current period's included,
// and inserts record as the new active one inside a single transaction. It is
// the forced-rotation primitive: the previously issued code is always
// invalidated. [ErrActivePasswordExists] is still possible when a concurrent
// insert commits between this transaction's statements.
func (r *passwordRepository) CreateActive(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	return r.insertActive(ctx, record, "*passwordRepository.CreateActive", deactivatePasswords)
}

func (r *passwordRepository) insertActive(ctx context.Context, record models.AdminPassword, caller, deactivateQuery string, deactivateArgs ...any) (models.AdminPassword, error) {
	log := logger.FromContext(ctx)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).Str("func", caller).Msg("error beginning transaction")
		return models.AdminPassword{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after successful commit

	if _, err = tx.ExecContext(ctx, deactivateQuery, deactivateArgs...); err != nil {
		log.Err(err).Str("func", caller).Msg("error deactivating prior records")
		return models.AdminPassword{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	row := tx.QueryRowContext(ctx, insertActivePassword,
		record.Period, record.PlainCode, record.CodeHash, record.ExpiresAt)

	if err = row.Scan(&record.ID, &record.UsageCount, &record.CreatedAt); err != nil {
		// ON CONFLICT DO NOTHING yields an empty RETURNING set when another
		// caller already holds the active slot for this period.
		if errors.Is(err, sql.ErrNoRows) || r.db.IsUniqueViolation(err) {
			return models.AdminPassword{}, ErrActivePasswordExists
		}
		log.Err(err).Str("func", caller).Msg("error inserting new record")
		return models.AdminPassword{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	if err = tx.Commit(); err != nil {
		if r.db.IsUniqueViolation(err) {
			return models.AdminPassword{}, ErrActivePasswordExists
		}
		log.Err(err).Str("func", caller).Msg("error committing transaction")
		return models.AdminPassword{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	record.IsActive = true
	return record, nil
}

// IncrementUsage bumps the denormalized usage counter. The usage log remains
// the authoritative count.
func (r *passwordRepository) IncrementUsage(ctx context.Context, passwordID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, incrementPasswordUsage, passwordID); err != nil {
		log.Err(err).Str("func", "*passwordRepository.IncrementUsage").Msg("error incrementing usage counter")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// RecentSince returns all records created at or after since, newest first.
func (r *passwordRepository) RecentSince(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildRecentPasswordsQuery(since)
	if err != nil {
		log.Err(err).Str("func", "*passwordRepository.RecentSince").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*passwordRepository.RecentSince").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.AdminPassword
	for rows.Next() {
		var record models.AdminPassword
		if err = rows.Scan(
			&record.ID, &record.Period, &record.PlainCode, &record.CodeHash,
			&record.IsActive, &record.UsageCount, &record.CreatedAt, &record.ExpiresAt,
		); err != nil {
			log.Err(err).Str("func", "*passwordRepository.RecentSince").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}
