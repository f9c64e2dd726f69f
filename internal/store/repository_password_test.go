// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

func newTestPasswordRepo(t *testing.T) (*passwordRepository, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	l := logger.Nop()
	repo := &passwordRepository{
		db:     &DB{DB: db, logger: l, errorClassificator: NewPostgresErrorClassifier()},
		logger: l,
	}
	return repo, mock, db
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

func passwordRows(record models.AdminPassword) *sqlmock.Rows {
	return sqlmock.
		NewRows([]string{"id", "period", "plain_code", "code_hash", "is_active", "usage_count", "created_at", "expires_at"}).
		AddRow(record.ID, record.Period, record.PlainCode, record.CodeHash,
			record.IsActive, record.UsageCount, record.CreatedAt, record.ExpiresAt)
}

func TestFindActive_Success(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	now := time.Now()
	record := models.AdminPassword{
		ID:        7,
		Period:    "2026-W36",
		PlainCode: "1234ABCD",
		CodeHash:  "hash",
		IsActive:  true,
		CreatedAt: now,
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	mock.ExpectQuery("SELECT id, period, plain_code, code_hash").
		WillReturnRows(passwordRows(record))

	found, err := repo.FindActive(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != record.ID {
		t.Errorf("expected ID=%d, got %d", record.ID, found.ID)
	}
	if found.Period != record.Period {
		t.Errorf("expected period %s, got %s", record.Period, found.Period)
	}
}

func TestFindActive_NoRows(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectQuery("SELECT id, period, plain_code, code_hash").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindActive(context.Background())
	if !errors.Is(err, ErrNoActivePassword) {
		t.Fatalf("expected ErrNoActivePassword, got %v", err)
	}
}

func TestFindActiveByPeriod_PassesPeriodArg(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	record := models.AdminPassword{ID: 1, Period: "2026-W10", IsActive: true}

	mock.ExpectQuery("WHERE period = ").
		WithArgs("2026-W10").
		WillReturnRows(passwordRows(record))

	found, err := repo.FindActiveByPeriod(context.Background(), "2026-W10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.Period != "2026-W10" {
		t.Errorf("expected period 2026-W10, got %s", found.Period)
	}
}

func TestCreateActive_Success(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	now := time.Now()
	record := models.AdminPassword{
		Period:    "2026-W36",
		PlainCode: "9876FFEE",
		CodeHash:  "hash",
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admin_passwords").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WithArgs(record.Period, record.PlainCode, record.CodeHash, record.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "usage_count", "created_at"}).AddRow(42, 0, now))
	mock.ExpectCommit()

	created, err := repo.CreateActive(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("expected ID=42, got %d", created.ID)
	}
	if !created.IsActive {
		t.Error("expected created record to be active")
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestCreateActive_LostRace_EmptyReturning(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admin_passwords").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.CreateActive(context.Background(), models.AdminPassword{Period: "2026-W36"})
	if !errors.Is(err, ErrActivePasswordExists) {
		t.Fatalf("expected ErrActivePasswordExists, got %v", err)
	}
}

func TestCreateActive_LostRace_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admin_passwords").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.CreateActive(context.Background(), models.AdminPassword{Period: "2026-W36"})
	if !errors.Is(err, ErrActivePasswordExists) {
		t.Fatalf("expected ErrActivePasswordExists, got %v", err)
	}
}

func TestInsertIfAbsent_Success(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	now := time.Now()
	record := models.AdminPassword{
		Period:    "2026-W36",
		PlainCode: "9876FFEE",
		CodeHash:  "hash",
		ExpiresAt: now.Add(7 * 24 * time.Hour),
	}

	mock.ExpectBegin()
	// only other periods' stale rows are deactivated
	mock.ExpectExec("UPDATE admin_passwords").
		WithArgs("2026-W36").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WithArgs(record.Period, record.PlainCode, record.CodeHash, record.ExpiresAt).
		WillReturnRows(sqlmock.NewRows([]string{"id", "usage_count", "created_at"}).AddRow(42, 0, now))
	mock.ExpectCommit()

	created, err := repo.InsertIfAbsent(context.Background(), record)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.ID != 42 {
		t.Errorf("expected ID=42, got %d", created.ID)
	}
	if !created.IsActive {
		t.Error("expected created record to be active")
	}
	if err = mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestInsertIfAbsent_PeriodAlreadyServed_EmptyReturning(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admin_passwords").
		WithArgs("2026-W36").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	_, err := repo.InsertIfAbsent(context.Background(), models.AdminPassword{Period: "2026-W36"})
	if !errors.Is(err, ErrActivePasswordExists) {
		t.Fatalf("expected ErrActivePasswordExists, got %v", err)
	}
}

func TestInsertIfAbsent_PeriodAlreadyServed_UniqueViolation(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE admin_passwords").
		WithArgs("2026-W36").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("INSERT INTO admin_passwords").
		WillReturnError(pgError(pgerrcode.UniqueViolation))
	mock.ExpectRollback()

	_, err := repo.InsertIfAbsent(context.Background(), models.AdminPassword{Period: "2026-W36"})
	if !errors.Is(err, ErrActivePasswordExists) {
		t.Fatalf("expected ErrActivePasswordExists, got %v", err)
	}
}

func TestCreateActive_BeginError(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectBegin().WillReturnError(errors.New("connection lost"))

	_, err := repo.CreateActive(context.Background(), models.AdminPassword{Period: "2026-W36"})
	if !errors.Is(err, ErrBeginningTransaction) {
		t.Fatalf("expected ErrBeginningTransaction, got %v", err)
	}
}

func TestIncrementUsage(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	mock.ExpectExec("UPDATE admin_passwords").
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.IncrementUsage(context.Background(), 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecentSince_ReturnsNewestFirst(t *testing.T) {
	repo, mock, db := newTestPasswordRepo(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.
		NewRows([]string{"id", "period", "plain_code", "code_hash", "is_active", "usage_count", "created_at", "expires_at"}).
		AddRow(2, "2026-W36", "code2", "hash2", true, 3, now, now.Add(24*time.Hour)).
		AddRow(1, "2026-W35", "code1", "hash1", false, 10, now.Add(-7*24*time.Hour), now)

	mock.ExpectQuery("SELECT id, period, plain_code, code_hash").
		WillReturnRows(rows)

	records, err := repo.RecentSince(context.Background(), now.Add(-30*24*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Period != "2026-W36" {
		t.Errorf("expected newest record first, got %s", records[0].Period)
	}
}
