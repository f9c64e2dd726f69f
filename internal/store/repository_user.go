package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
)

// userRepository is the SQL-backed implementation of [UserRepository].
// It handles staff account creation and lookup against the "staff_users"
// table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new staff account and returns the fully populated
// [models.StaffUser] with server-assigned fields (UserID, CreatedAt).
//
// Error handling:
//   - unique-constraint violation on login → [ErrLoginAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) CreateUser(ctx context.Context, user models.StaffUser) (models.StaffUser, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Login, user.Name, user.Role, user.PasswordHash)

	if err := row.Scan(&user.UserID, &user.Login, &user.Name, &user.Role, &user.CreatedAt); err != nil {
		if r.db.IsUniqueViolation(err) {
			return models.StaffUser{}, ErrLoginAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.StaffUser{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	user.Password = ""
	return user, nil
}

// FindUserByLogin retrieves a staff account by its login.
//
// Error handling:
//   - empty result set → [ErrNoUserWasFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByLogin(ctx context.Context, login string) (models.StaffUser, error) {
	log := logger.FromContext(ctx)

	var foundUser models.StaffUser
	row := r.db.QueryRowContext(ctx, findUserByLogin, login)

	if err := row.Scan(
		&foundUser.UserID, &foundUser.Login, &foundUser.Name,
		&foundUser.Role, &foundUser.PasswordHash, &foundUser.CreatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.StaffUser{}, ErrNoUserWasFound
		}
		log.Err(err).Str("func", "*userRepository.FindUserByLogin").Msg("error: scanning error")
		return models.StaffUser{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	return foundUser, nil
}
