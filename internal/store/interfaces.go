package store

import (
	"context"
	"time"

	"github.com/akopyan/override-keeper/models"
)

// PasswordRepository persists override-code records. Implementations must
// uphold the single-active invariant: at most one row with is_active=true per
// period, enforced by a storage-level partial unique index rather than by
// application-side checks.
type PasswordRepository interface {
	// FindActive returns the most recently created active record, or
	// ErrNoActivePassword if none exists.
	FindActive(ctx context.Context) (models.AdminPassword, error)

	// FindActiveByPeriod returns the active record for the given period key,
	// or ErrNoActivePassword if the period has no active record.
	FindActiveByPeriod(ctx context.Context, period string) (models.AdminPassword, error)

	// InsertIfAbsent inserts record as the period's active row only if the
	// period has none yet; active rows from other periods are deactivated in
	// the same transaction, the current period's row is never touched.
	//
	// When the period already holds a committed active row (a concurrent
	// caller won the race, or the row simply predates this call),
	// ErrActivePasswordExists is returned; the caller should re-read the
	// winner's record instead of failing.
	InsertIfAbsent(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error)

	// CreateActive deactivates every currently active record, the current
	// period's included, and inserts record as the new active one inside a
	// single transaction. It is the forced-rotation primitive and always
	// invalidates the previously issued code.
	//
	// ErrActivePasswordExists is still possible when a concurrent insert
	// commits mid-transaction; callers decide whether to retry.
	CreateActive(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error)

	// IncrementUsage bumps the denormalized usage counter of the record.
	IncrementUsage(ctx context.Context, passwordID int64) error

	// RecentSince returns all records created at or after since,
	// newest first.
	RecentSince(ctx context.Context, since time.Time) ([]models.AdminPassword, error)
}

// UsageRepository is the append-only audit log of successful override uses.
type UsageRepository interface {
	// Append persists one usage entry and returns it with server-assigned
	// fields (ID, CreatedAt) populated. Rows are never updated or deleted.
	Append(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error)

	// CountSince returns the number of usage entries created at or after since.
	CountSince(ctx context.Context, since time.Time) (int64, error)

	// CountByActionSince returns usage counts grouped by action for entries
	// created at or after since.
	CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error)
}

// EventRepository is the append-only log of generation actions.
type EventRepository interface {
	Append(ctx context.Context, event models.PasswordEvent) error
}

// UserRepository handles staff account creation and lookup.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.StaffUser) (models.StaffUser, error)
	FindUserByLogin(ctx context.Context, login string) (models.StaffUser, error)
}

// ErrorClassificator maps driver-level errors to retry semantics and
// recognises constraint violations that carry domain meaning.
type ErrorClassificator interface {
	// Classify reports whether the failed operation may succeed on retry.
	Classify(err error) ErrorClassification

	// IsUniqueViolation reports whether err is a unique-constraint violation,
	// which the password repository interprets as "lost the insert race".
	IsUniqueViolation(err error) bool
}
