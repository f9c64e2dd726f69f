package store

import (
	"context"
	"fmt"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
)

// eventRepository is the SQL-backed implementation of [EventRepository].
type eventRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewEventRepository constructs an [EventRepository] backed by the provided
// database connection and logger.
func NewEventRepository(db *DB, logger *logger.Logger) EventRepository {
	logger.Debug().Msg("creating event repository")
	return &eventRepository{
		db:     db,
		logger: logger,
	}
}

// Append persists one generation event.
func (r *eventRepository) Append(ctx context.Context, event models.PasswordEvent) error {
	log := logger.FromContext(ctx)

	var actorID any
	if event.ActorID != 0 {
		actorID = event.ActorID
	}

	if _, err := r.db.ExecContext(ctx, insertEvent,
		event.Period, event.Kind, event.PasswordID, actorID); err != nil {
		log.Err(err).Str("func", "*eventRepository.Append").Msg("error appending generation event")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
