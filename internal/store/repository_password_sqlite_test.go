// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/migrations"
	"github.com/akopyan/override-keeper/models"
)

// newSQLitePasswordRepo runs the real migrations against an in-memory SQLite
// database, so the partial unique index guarding the single-active invariant
// is exercised for real rather than through statement expectations.
func newSQLitePasswordRepo(t *testing.T) (*passwordRepository, *sql.DB) {
	t.Helper()

	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	conn.SetMaxOpenConns(1)

	if err = migrations.Migrate(conn, "sqlite3"); err != nil {
		t.Fatalf("failed to migrate sqlite schema: %v", err)
	}

	l := logger.Nop()
	repo := &passwordRepository{
		db:     &DB{DB: conn, logger: l, errorClassificator: NewSQLiteErrorClassifier()},
		logger: l,
	}
	return repo, conn
}

func testSQLiteRecord(period, code string) models.AdminPassword {
	return models.AdminPassword{
		Period:    period,
		PlainCode: code,
		CodeHash:  "hash-" + code,
		ExpiresAt: time.Now().UTC().Add(7 * 24 * time.Hour),
	}
}

func countActiveRows(t *testing.T, conn *sql.DB) int {
	t.Helper()
	var n int
	if err := conn.QueryRow("SELECT COUNT(*) FROM admin_passwords WHERE is_active").Scan(&n); err != nil {
		t.Fatalf("failed to count active rows: %v", err)
	}
	return n
}

// TestInsertIfAbsent_SQLite_CommittedWinnerIsNotRotated covers the lost-race
// interleaving end to end: caller A's insert has committed, caller B has
// already passed its vacancy check. B's insert must fail with
// ErrActivePasswordExists and A's code must remain the active one.
func TestInsertIfAbsent_SQLite_CommittedWinnerIsNotRotated(t *testing.T) {
	repo, conn := newSQLitePasswordRepo(t)
	ctx := context.Background()

	winner, err := repo.InsertIfAbsent(ctx, testSQLiteRecord("2026-W36", "AAAA1111"))
	if err != nil {
		t.Fatalf("unexpected error inserting winner: %v", err)
	}

	_, err = repo.InsertIfAbsent(ctx, testSQLiteRecord("2026-W36", "BBBB2222"))
	if !errors.Is(err, ErrActivePasswordExists) {
		t.Fatalf("expected ErrActivePasswordExists for the late caller, got %v", err)
	}

	active, err := repo.FindActiveByPeriod(ctx, "2026-W36")
	if err != nil {
		t.Fatalf("unexpected error re-reading the winner: %v", err)
	}
	if active.ID != winner.ID {
		t.Errorf("expected winner id=%d to stay active, got id=%d", winner.ID, active.ID)
	}
	if active.PlainCode != "AAAA1111" {
		t.Errorf("winner's code was rotated: got %q", active.PlainCode)
	}
	if n := countActiveRows(t, conn); n != 1 {
		t.Errorf("expected exactly 1 active row, got %d", n)
	}
}

// TestInsertIfAbsent_SQLite_DeactivatesOtherPeriods verifies that a new week's
// insert retires the previous week's stale active row in the same transaction.
func TestInsertIfAbsent_SQLite_DeactivatesOtherPeriods(t *testing.T) {
	repo, conn := newSQLitePasswordRepo(t)
	ctx := context.Background()

	if _, err := repo.InsertIfAbsent(ctx, testSQLiteRecord("2026-W35", "AAAA1111")); err != nil {
		t.Fatalf("unexpected error inserting previous week: %v", err)
	}

	created, err := repo.InsertIfAbsent(ctx, testSQLiteRecord("2026-W36", "BBBB2222"))
	if err != nil {
		t.Fatalf("unexpected error inserting current week: %v", err)
	}
	if created.PlainCode != "BBBB2222" {
		t.Errorf("expected the new week's code, got %q", created.PlainCode)
	}

	if _, err = repo.FindActiveByPeriod(ctx, "2026-W35"); !errors.Is(err, ErrNoActivePassword) {
		t.Errorf("expected the previous week's row to be deactivated, got %v", err)
	}
	if n := countActiveRows(t, conn); n != 1 {
		t.Errorf("expected exactly 1 active row, got %d", n)
	}
}

// TestCreateActive_SQLite_RotatesCommittedRecord verifies the forced-rotation
// primitive against the same schema: the committed code is replaced, the old
// row stays as an inactive audit row.
func TestCreateActive_SQLite_RotatesCommittedRecord(t *testing.T) {
	repo, conn := newSQLitePasswordRepo(t)
	ctx := context.Background()

	old, err := repo.InsertIfAbsent(ctx, testSQLiteRecord("2026-W36", "AAAA1111"))
	if err != nil {
		t.Fatalf("unexpected error inserting first record: %v", err)
	}

	rotated, err := repo.CreateActive(ctx, testSQLiteRecord("2026-W36", "BBBB2222"))
	if err != nil {
		t.Fatalf("unexpected error rotating: %v", err)
	}
	if rotated.ID == old.ID {
		t.Error("rotation must insert a new row")
	}

	active, err := repo.FindActiveByPeriod(ctx, "2026-W36")
	if err != nil {
		t.Fatalf("unexpected error reading active record: %v", err)
	}
	if active.PlainCode != "BBBB2222" {
		t.Errorf("expected rotated code to be active, got %q", active.PlainCode)
	}

	var total int
	if err = conn.QueryRow("SELECT COUNT(*) FROM admin_passwords").Scan(&total); err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	if total != 2 {
		t.Errorf("expected 2 rows (old kept as audit), got %d", total)
	}
	if n := countActiveRows(t, conn); n != 1 {
		t.Errorf("expected exactly 1 active row, got %d", n)
	}
}
