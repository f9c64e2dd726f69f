package store

import (
	"context"
	"fmt"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
)

// usageRepository is the SQL-backed implementation of [UsageRepository].
// The table is append-only: no method updates or deletes rows.
type usageRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUsageRepository constructs a [UsageRepository] backed by the provided
// database connection and logger.
func NewUsageRepository(db *DB, logger *logger.Logger) UsageRepository {
	logger.Debug().Msg("creating usage repository")
	return &usageRepository{
		db:     db,
		logger: logger,
	}
}

// Append persists one usage entry and returns it with ID and CreatedAt
// populated by the database.
func (r *usageRepository) Append(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error) {
	log := logger.FromContext(ctx)

	var metadata []byte
	if len(usage.Metadata) > 0 {
		metadata = []byte(usage.Metadata)
	}

	row := r.db.QueryRowContext(ctx, insertUsage,
		usage.PasswordID, usage.UserID, usage.Action,
		usage.TargetID, usage.TargetType, metadata,
		usage.IPAddress, usage.UserAgent)

	if err := row.Scan(&usage.ID, &usage.CreatedAt); err != nil {
		log.Err(err).Str("func", "*usageRepository.Append").Msg("error appending usage entry")
		return models.PasswordUsage{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return usage, nil
}

// CountSince returns the number of usage entries created at or after since.
func (r *usageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUsageCountQuery(since)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.CountSince").Msg("error building query")
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var count int64
	if err = r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		log.Err(err).Str("func", "*usageRepository.CountSince").Msg("error executing query")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return count, nil
}

// CountByActionSince returns usage counts grouped by action for entries
// created at or after since.
func (r *usageRepository) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildUsageByActionQuery(since)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.CountByActionSince").Msg("error building query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*usageRepository.CountByActionSince").Msg("error executing query")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var action string
		var uses int64
		if err = rows.Scan(&action, &uses); err != nil {
			log.Err(err).Str("func", "*usageRepository.CountByActionSince").Msg("error: scanning error")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		counts[action] = uses
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return counts, nil
}
