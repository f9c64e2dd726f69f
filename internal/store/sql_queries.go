package store

import (
	"time"

	"github.com/Masterminds/squirrel"
)

const (
	findActivePassword = `SELECT id, period, plain_code, code_hash, is_active, usage_count, created_at, expires_at
	FROM admin_passwords
	WHERE is_active
	ORDER BY created_at DESC
	LIMIT 1;`

	findActivePasswordByPeriod = `SELECT id, period, plain_code, code_hash, is_active, usage_count, created_at, expires_at
	FROM admin_passwords
	WHERE period = $1 AND is_active;`

	deactivatePasswords = `UPDATE admin_passwords
	SET is_active = FALSE
	WHERE is_active;`

	// The ensure path must never touch the current period's active row: a
	// committed winner has to stay active so a late caller's insert conflicts
	// on the partial unique index instead of silently rotating the code.
	deactivateStalePasswords = `UPDATE admin_passwords
	SET is_active = FALSE
	WHERE is_active AND period <> $1;`

	// ON CONFLICT DO NOTHING turns a lost race on the partial unique index
	// into a zero-row result instead of an error; the repository maps the
	// empty RETURNING set to ErrActivePasswordExists.
	insertActivePassword = `INSERT INTO admin_passwords (period, plain_code, code_hash, is_active, expires_at)
	VALUES ($1, $2, $3, TRUE, $4)
	ON CONFLICT DO NOTHING
	RETURNING id, usage_count, created_at;`

	incrementPasswordUsage = `UPDATE admin_passwords
	SET usage_count = usage_count + 1
	WHERE id = $1;`

	insertUsage = `INSERT INTO password_usages (password_id, user_id, action, target_id, target_type, metadata, ip_address, user_agent)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at;`

	insertEvent = `INSERT INTO password_events (period, kind, password_id, actor_id)
	VALUES ($1, $2, $3, $4);`

	createUser = `INSERT INTO staff_users (login, name, role, password_hash)
	VALUES ($1, $2, $3, $4)
	RETURNING user_id, login, name, role, created_at;`

	findUserByLogin = `SELECT user_id, login, name, role, password_hash, created_at
	FROM staff_users
	WHERE login = $1;`
)

// passwordColumns is the canonical column list scanned into
// models.AdminPassword.
var passwordColumns = []string{
	"id", "period", "plain_code", "code_hash",
	"is_active", "usage_count", "created_at", "expires_at",
}

// buildRecentPasswordsQuery builds the trailing-window record listing used by
// the stats reader.
func buildRecentPasswordsQuery(since time.Time) (string, []any, error) {
	return squirrel.
		Select(passwordColumns...).
		From("admin_passwords").
		Where(squirrel.GtOrEq{"created_at": since}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// buildUsageCountQuery builds the total usage count aggregation for the
// trailing window.
func buildUsageCountQuery(since time.Time) (string, []any, error) {
	return squirrel.
		Select("COUNT(*)").
		From("password_usages").
		Where(squirrel.GtOrEq{"created_at": since}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}

// buildUsageByActionQuery builds the per-action usage aggregation for the
// trailing window.
func buildUsageByActionQuery(since time.Time) (string, []any, error) {
	return squirrel.
		Select("action", "COUNT(*) AS uses").
		From("password_usages").
		Where(squirrel.GtOrEq{"created_at": since}).
		GroupBy("action").
		OrderBy("uses DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
}
