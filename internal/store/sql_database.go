package store

import (
	"context"
	"fmt"

	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/logger"
)

// NewConnect opens the database backend selected by cfg.Driver and returns a
// ready-to-use *DB. Both backends run the same embedded goose migrations on
// startup via the migrations package, so callers see an identical schema
// regardless of driver.
func NewConnect(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	switch cfg.DriverOrDefault() {
	case config.DriverPostgres:
		return NewConnectPostgres(ctx, cfg, log)
	case config.DriverSQLite:
		return NewConnectSQLite(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
