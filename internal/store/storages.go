package store

import (
	"context"

	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/migrations"
)

// Storages aggregates every repository backed by the shared database
// connection.
type Storages struct {
	PasswordRepository PasswordRepository
	UsageRepository    UsageRepository
	EventRepository    EventRepository
	UserRepository     UserRepository
}

// NewStorages opens the configured database backend, runs the embedded
// migrations, and wires all repositories onto the shared connection.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	db, err := NewConnect(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err = migrations.Migrate(db.DB, cfg.DB.DriverOrDefault()); err != nil {
		return nil, err
	}

	return &Storages{
		PasswordRepository: NewPasswordRepository(db, log),
		UsageRepository:    NewUsageRepository(db, log),
		EventRepository:    NewEventRepository(db, log),
		UserRepository:     NewUserRepository(db, log),
	}, nil
}
