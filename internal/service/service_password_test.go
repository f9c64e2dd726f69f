// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/store"
	"github.com/akopyan/override-keeper/internal/utils"
	"github.com/akopyan/override-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStorage = errors.New("storage error")

// ───────────────────────────── mocks ─────────────────────────────

type mockPasswordRepository struct {
	findActiveFn         func(ctx context.Context) (models.AdminPassword, error)
	findActiveByPeriodFn func(ctx context.Context, period string) (models.AdminPassword, error)
	insertIfAbsentFn     func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error)
	createActiveFn       func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error)
	incrementUsageFn     func(ctx context.Context, passwordID int64) error
	recentSinceFn        func(ctx context.Context, since time.Time) ([]models.AdminPassword, error)
}

func (m *mockPasswordRepository) FindActive(ctx context.Context) (models.AdminPassword, error) {
	return m.findActiveFn(ctx)
}

func (m *mockPasswordRepository) FindActiveByPeriod(ctx context.Context, period string) (models.AdminPassword, error) {
	return m.findActiveByPeriodFn(ctx, period)
}

func (m *mockPasswordRepository) InsertIfAbsent(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	return m.insertIfAbsentFn(ctx, record)
}

func (m *mockPasswordRepository) CreateActive(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	return m.createActiveFn(ctx, record)
}

func (m *mockPasswordRepository) IncrementUsage(ctx context.Context, passwordID int64) error {
	return m.incrementUsageFn(ctx, passwordID)
}

func (m *mockPasswordRepository) RecentSince(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
	return m.recentSinceFn(ctx, since)
}

type mockUsageRepository struct {
	appendFn        func(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error)
	countSinceFn    func(ctx context.Context, since time.Time) (int64, error)
	countByActionFn func(ctx context.Context, since time.Time) (map[string]int64, error)
}

func (m *mockUsageRepository) Append(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error) {
	return m.appendFn(ctx, usage)
}

func (m *mockUsageRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return m.countSinceFn(ctx, since)
}

func (m *mockUsageRepository) CountByActionSince(ctx context.Context, since time.Time) (map[string]int64, error) {
	return m.countByActionFn(ctx, since)
}

type mockEventRepository struct {
	appendFn func(ctx context.Context, event models.PasswordEvent) error
	mu       sync.Mutex
	events   []models.PasswordEvent
}

func (m *mockEventRepository) Append(ctx context.Context, event models.PasswordEvent) error {
	if m.appendFn != nil {
		return m.appendFn(ctx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

// ─────────────────────────── helpers ───────────────────────────

// testNow places every test inside ISO week 2026-W36 (Mon 2026-08-31).
var testNow = time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC)

const testPeriodKey = "2026-W36"

func newRawPasswordService(passwords store.PasswordRepository, usages store.UsageRepository, events store.EventRepository) *passwordService {
	return &passwordService{
		passwordRepository: passwords,
		usageRepository:    usages,
		eventRepository:    events,
		logger:             logger.Nop(),
		now:                func() time.Time { return testNow },
		newCode:            func() (string, error) { return "4821CFAB", nil },
	}
}

func activeTestRecord() models.AdminPassword {
	period := models.CurrentPeriod(testNow)
	return models.AdminPassword{
		ID:        7,
		Period:    period.Key,
		PlainCode: "4821CFAB",
		CodeHash:  utils.HashOverrideCode("4821CFAB"),
		IsActive:  true,
		CreatedAt: period.Start,
		ExpiresAt: period.End,
	}
}

// ─────────────────────────── Current ───────────────────────────

func TestCurrent_ReturnsActiveRecord(t *testing.T) {
	record := activeTestRecord()
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	got, err := svc.Current(context.Background())

	require.NoError(t, err)
	assert.Equal(t, record.Period, got.Period)
	assert.Equal(t, record.PlainCode, got.PlainCode)
}

func TestCurrent_NoActiveRecord(t *testing.T) {
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return models.AdminPassword{}, store.ErrNoActivePassword
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	_, err := svc.Current(context.Background())

	assert.ErrorIs(t, err, store.ErrNoActivePassword)
}

func TestCurrent_StaleExpiredRecordTreatedAsAbsent(t *testing.T) {
	// is_active still set, but the validity window already passed
	record := activeTestRecord()
	record.ExpiresAt = testNow.Add(-time.Hour)

	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	_, err := svc.Current(context.Background())

	assert.ErrorIs(t, err, store.ErrNoActivePassword)
}

// ────────────────────── EnsureActivePassword ──────────────────────

func TestEnsureActivePassword_ExistingRecordIsReturnedUnchanged(t *testing.T) {
	record := activeTestRecord()
	insertCalled := false

	passwords := &mockPasswordRepository{
		findActiveByPeriodFn: func(ctx context.Context, period string) (models.AdminPassword, error) {
			assert.Equal(t, testPeriodKey, period)
			return record, nil
		},
		insertIfAbsentFn: func(ctx context.Context, r models.AdminPassword) (models.AdminPassword, error) {
			insertCalled = true
			return r, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, &mockEventRepository{})

	issue, err := svc.EnsureActivePassword(context.Background())

	require.NoError(t, err)
	assert.False(t, issue.Created)
	assert.Equal(t, record.PlainCode, issue.Password)
	assert.False(t, insertCalled, "ensure must not rotate an existing record")
}

func TestEnsureActivePassword_CreatesWhenPeriodHasNone(t *testing.T) {
	events := &mockEventRepository{}
	passwords := &mockPasswordRepository{
		findActiveByPeriodFn: func(ctx context.Context, period string) (models.AdminPassword, error) {
			return models.AdminPassword{}, store.ErrNoActivePassword
		},
		insertIfAbsentFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			assert.Equal(t, testPeriodKey, record.Period)
			assert.Equal(t, utils.HashOverrideCode("4821CFAB"), record.CodeHash)
			record.ID = 42
			return record, nil
		},
		createActiveFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			t.Error("ensure must use the insert-if-absent path, not forced rotation")
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, events)

	issue, err := svc.EnsureActivePassword(context.Background())

	require.NoError(t, err)
	assert.True(t, issue.Created)
	assert.Equal(t, "4821CFAB", issue.Password)
	assert.Equal(t, testPeriodKey, issue.Record.Period)

	require.Len(t, events.events, 1)
	assert.Equal(t, models.EventGenerated, events.events[0].Kind)
	assert.Equal(t, int64(42), events.events[0].PasswordID)
	assert.Zero(t, events.events[0].ActorID)
}

func TestEnsureActivePassword_LostRaceReturnsWinner(t *testing.T) {
	winner := activeTestRecord()
	winner.PlainCode = "9999FFFF"
	lookups := 0

	passwords := &mockPasswordRepository{
		findActiveByPeriodFn: func(ctx context.Context, period string) (models.AdminPassword, error) {
			lookups++
			if lookups == 1 {
				return models.AdminPassword{}, store.ErrNoActivePassword
			}
			return winner, nil
		},
		insertIfAbsentFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			return models.AdminPassword{}, store.ErrActivePasswordExists
		},
	}
	svc := newRawPasswordService(passwords, nil, &mockEventRepository{})

	issue, err := svc.EnsureActivePassword(context.Background())

	require.NoError(t, err)
	assert.False(t, issue.Created)
	assert.Equal(t, "9999FFFF", issue.Password)
	assert.Equal(t, 2, lookups)
}

func TestEnsureActivePassword_StorageFailurePropagates(t *testing.T) {
	passwords := &mockPasswordRepository{
		findActiveByPeriodFn: func(ctx context.Context, period string) (models.AdminPassword, error) {
			return models.AdminPassword{}, errStorage
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	_, err := svc.EnsureActivePassword(context.Background())

	assert.ErrorIs(t, err, errStorage)
}

func TestEnsureActivePassword_EventAppendFailureIsSwallowed(t *testing.T) {
	events := &mockEventRepository{
		appendFn: func(ctx context.Context, event models.PasswordEvent) error {
			return errStorage
		},
	}
	passwords := &mockPasswordRepository{
		findActiveByPeriodFn: func(ctx context.Context, period string) (models.AdminPassword, error) {
			return models.AdminPassword{}, store.ErrNoActivePassword
		},
		insertIfAbsentFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, events)

	issue, err := svc.EnsureActivePassword(context.Background())

	require.NoError(t, err, "audit failure must not block issuance")
	assert.True(t, issue.Created)
}

// ──────────────────────── ForceRegenerate ────────────────────────

func TestForceRegenerate_AlwaysRotates(t *testing.T) {
	events := &mockEventRepository{}
	created := 0

	passwords := &mockPasswordRepository{
		createActiveFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			created++
			record.ID = 43
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, events)

	issue, err := svc.ForceRegenerate(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, issue.Created)
	assert.Equal(t, 1, created)

	require.Len(t, events.events, 1)
	assert.Equal(t, models.EventForceRotated, events.events[0].Kind)
	assert.Equal(t, int64(3), events.events[0].ActorID)
}

func TestForceRegenerate_RetriesLostRace(t *testing.T) {
	attempts := 0
	passwords := &mockPasswordRepository{
		createActiveFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			attempts++
			if attempts < 3 {
				return models.AdminPassword{}, store.ErrActivePasswordExists
			}
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, &mockEventRepository{})

	issue, err := svc.ForceRegenerate(context.Background(), 3)

	require.NoError(t, err)
	assert.True(t, issue.Created)
	assert.Equal(t, 3, attempts)
}

func TestForceRegenerate_GivesUpAfterRepeatedConflicts(t *testing.T) {
	attempts := 0
	passwords := &mockPasswordRepository{
		createActiveFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			attempts++
			return models.AdminPassword{}, store.ErrActivePasswordExists
		},
	}
	svc := newRawPasswordService(passwords, nil, &mockEventRepository{})

	_, err := svc.ForceRegenerate(context.Background(), 3)

	assert.ErrorIs(t, err, ErrRegenerationConflict)
	assert.Equal(t, forceRegenerateAttempts, attempts)
}

func TestForceRegenerate_StorageFailureStopsRetrying(t *testing.T) {
	attempts := 0
	passwords := &mockPasswordRepository{
		createActiveFn: func(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
			attempts++
			return models.AdminPassword{}, errStorage
		},
	}
	svc := newRawPasswordService(passwords, nil, &mockEventRepository{})

	_, err := svc.ForceRegenerate(context.Background(), 3)

	assert.ErrorIs(t, err, errStorage)
	assert.Equal(t, 1, attempts, "non-conflict failures must not be retried")
}

// ─────────────────────────── Validate ───────────────────────────

func TestValidate_CorrectCode(t *testing.T) {
	record := activeTestRecord()
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	result, err := svc.Validate(context.Background(), "4821CFAB")

	require.NoError(t, err)
	assert.True(t, result.IsValid)
	assert.Equal(t, record.ID, result.PasswordID)
	assert.Empty(t, result.Reason)
}

func TestValidate_WrongCode(t *testing.T) {
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return activeTestRecord(), nil
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	result, err := svc.Validate(context.Background(), "0000AAAA")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonWrongPassword, result.Reason)
	assert.Zero(t, result.PasswordID)
}

func TestValidate_NoActivePassword(t *testing.T) {
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return models.AdminPassword{}, store.ErrNoActivePassword
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	result, err := svc.Validate(context.Background(), "4821CFAB")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonNoActivePassword, result.Reason)
}

func TestValidate_ExpiredRecord(t *testing.T) {
	record := activeTestRecord()
	record.ExpiresAt = testNow.Add(-time.Minute)

	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return record, nil
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	result, err := svc.Validate(context.Background(), "4821CFAB")

	require.NoError(t, err)
	assert.False(t, result.IsValid)
	assert.Equal(t, ReasonPasswordExpired, result.Reason)
}

func TestValidate_StorageFailure(t *testing.T) {
	passwords := &mockPasswordRepository{
		findActiveFn: func(ctx context.Context) (models.AdminPassword, error) {
			return models.AdminPassword{}, errStorage
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	_, err := svc.Validate(context.Background(), "4821CFAB")

	assert.ErrorIs(t, err, errStorage)
}

// ─────────────────────────── LogUsage ───────────────────────────

func TestLogUsage_AppendsAndIncrements(t *testing.T) {
	var appended models.PasswordUsage
	incremented := int64(0)

	usages := &mockUsageRepository{
		appendFn: func(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error) {
			appended = usage
			return usage, nil
		},
	}
	passwords := &mockPasswordRepository{
		incrementUsageFn: func(ctx context.Context, passwordID int64) error {
			incremented = passwordID
			return nil
		},
	}
	svc := newRawPasswordService(passwords, usages, nil)

	svc.LogUsage(context.Background(), models.PasswordUsage{PasswordID: 7, UserID: 3, Action: "delete_job"})

	assert.Equal(t, "delete_job", appended.Action)
	assert.Equal(t, int64(7), incremented)
}

func TestLogUsage_AppendFailureSkipsCounter(t *testing.T) {
	incrementCalled := false

	usages := &mockUsageRepository{
		appendFn: func(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error) {
			return models.PasswordUsage{}, errStorage
		},
	}
	passwords := &mockPasswordRepository{
		incrementUsageFn: func(ctx context.Context, passwordID int64) error {
			incrementCalled = true
			return nil
		},
	}
	svc := newRawPasswordService(passwords, usages, nil)

	// must not panic and must not surface the failure
	svc.LogUsage(context.Background(), models.PasswordUsage{PasswordID: 7, Action: "delete_job"})

	assert.False(t, incrementCalled, "counter must stay consistent with the audit log")
}

func TestLogUsage_CounterFailureIsSwallowed(t *testing.T) {
	usages := &mockUsageRepository{
		appendFn: func(ctx context.Context, usage models.PasswordUsage) (models.PasswordUsage, error) {
			return usage, nil
		},
	}
	passwords := &mockPasswordRepository{
		incrementUsageFn: func(ctx context.Context, passwordID int64) error {
			return errStorage
		},
	}
	svc := newRawPasswordService(passwords, usages, nil)

	svc.LogUsage(context.Background(), models.PasswordUsage{PasswordID: 7, Action: "delete_job"})
}

// ───────────────────────────── Stats ─────────────────────────────

func TestStats_DefaultWindow(t *testing.T) {
	var gotSince time.Time

	passwords := &mockPasswordRepository{
		recentSinceFn: func(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
			gotSince = since
			return []models.AdminPassword{activeTestRecord()}, nil
		},
	}
	usages := &mockUsageRepository{
		countSinceFn: func(ctx context.Context, since time.Time) (int64, error) {
			return 17, nil
		},
		countByActionFn: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			return map[string]int64{"delete_job": 9}, nil
		},
	}
	svc := newRawPasswordService(passwords, usages, nil)

	stats, err := svc.Stats(context.Background(), 0)

	require.NoError(t, err)
	assert.Equal(t, defaultStatsWindowDays, stats.WindowDays)
	assert.Equal(t, testNow.UTC().AddDate(0, 0, -defaultStatsWindowDays), gotSince)
	assert.Equal(t, int64(17), stats.TotalUsageCount)
	assert.Equal(t, int64(9), stats.UsageByAction["delete_job"])
	require.Len(t, stats.Periods, 1)
}

func TestStats_ExplicitWindow(t *testing.T) {
	var gotSince time.Time

	passwords := &mockPasswordRepository{
		recentSinceFn: func(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
			gotSince = since
			return nil, nil
		},
	}
	usages := &mockUsageRepository{
		countSinceFn: func(ctx context.Context, since time.Time) (int64, error) {
			return 0, nil
		},
		countByActionFn: func(ctx context.Context, since time.Time) (map[string]int64, error) {
			return map[string]int64{}, nil
		},
	}
	svc := newRawPasswordService(passwords, usages, nil)

	stats, err := svc.Stats(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, 7, stats.WindowDays)
	assert.Equal(t, testNow.UTC().AddDate(0, 0, -7), gotSince)
}

func TestStats_StorageFailure(t *testing.T) {
	passwords := &mockPasswordRepository{
		recentSinceFn: func(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
			return nil, errStorage
		},
	}
	svc := newRawPasswordService(passwords, nil, nil)

	_, err := svc.Stats(context.Background(), 30)

	assert.ErrorIs(t, err, errStorage)
}

// ─────────────────────── concurrent ensure ───────────────────────

// racingPasswordRepository mirrors the real repository's contract over an
// in-memory map: InsertIfAbsent fails with ErrActivePasswordExists when the
// period already holds a committed record (the partial unique index's
// behaviour), while CreateActive always replaces it (forced rotation). The
// concurrent ensure test below exercises the lost-race path for real.
type racingPasswordRepository struct {
	mu     sync.Mutex
	active map[string]models.AdminPassword
	nextID int64
}

func (r *racingPasswordRepository) FindActive(ctx context.Context) (models.AdminPassword, error) {
	return models.AdminPassword{}, store.ErrNoActivePassword
}

func (r *racingPasswordRepository) FindActiveByPeriod(ctx context.Context, period string) (models.AdminPassword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.active[period]
	if !ok {
		return models.AdminPassword{}, store.ErrNoActivePassword
	}
	return record, nil
}

func (r *racingPasswordRepository) InsertIfAbsent(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.active[record.Period]; exists {
		return models.AdminPassword{}, store.ErrActivePasswordExists
	}
	r.nextID++
	record.ID = r.nextID
	r.active[record.Period] = record
	return record, nil
}

func (r *racingPasswordRepository) CreateActive(ctx context.Context, record models.AdminPassword) (models.AdminPassword, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	record.ID = r.nextID
	r.active[record.Period] = record
	return record, nil
}

func (r *racingPasswordRepository) IncrementUsage(ctx context.Context, passwordID int64) error {
	return nil
}

func (r *racingPasswordRepository) RecentSince(ctx context.Context, since time.Time) ([]models.AdminPassword, error) {
	return nil, nil
}

// staleVacancyRepository reports the period as vacant on the first lookup
// regardless of state, reproducing a caller whose check-then-insert sequence
// interleaves with a concurrent issuance that has already committed.
type staleVacancyRepository struct {
	*racingPasswordRepository
	checked bool
}

func (r *staleVacancyRepository) FindActiveByPeriod(ctx context.Context, period string) (models.AdminPassword, error) {
	if !r.checked {
		r.checked = true
		return models.AdminPassword{}, store.ErrNoActivePassword
	}
	return r.racingPasswordRepository.FindActiveByPeriod(ctx, period)
}

func TestEnsureActivePassword_CommittedWinnerSurvivesStaleCheck(t *testing.T) {
	repo := &racingPasswordRepository{active: make(map[string]models.AdminPassword)}

	winnerSvc := newRawPasswordService(repo, nil, &mockEventRepository{})
	winnerSvc.newCode = func() (string, error) { return "AAAA1111", nil }

	issue, err := winnerSvc.EnsureActivePassword(context.Background())
	require.NoError(t, err)
	require.True(t, issue.Created)

	lateSvc := newRawPasswordService(&staleVacancyRepository{racingPasswordRepository: repo}, nil, &mockEventRepository{})
	lateSvc.newCode = func() (string, error) { return "BBBB2222", nil }

	lateIssue, err := lateSvc.EnsureActivePassword(context.Background())

	require.NoError(t, err)
	assert.False(t, lateIssue.Created)
	assert.Equal(t, "AAAA1111", lateIssue.Password, "late caller must receive the committed code")

	current, err := repo.FindActiveByPeriod(context.Background(), testPeriodKey)
	require.NoError(t, err)
	assert.Equal(t, "AAAA1111", current.PlainCode, "committed code must not be rotated by a lost ensure race")
}

func TestEnsureActivePassword_ConcurrentCallersAgreeOnOneRecord(t *testing.T) {
	repo := &racingPasswordRepository{active: make(map[string]models.AdminPassword)}
	svc := &passwordService{
		passwordRepository: repo,
		eventRepository:    &mockEventRepository{},
		logger:             logger.Nop(),
		now:                func() time.Time { return testNow },
		newCode:            utils.GenerateOverrideCode,
	}

	const callers = 32
	issues := make([]models.PasswordIssue, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			issues[i], errs[i] = svc.EnsureActivePassword(context.Background())
		}(i)
	}
	wg.Wait()

	createdCount := 0
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, testPeriodKey, issues[i].Record.Period)
		assert.Equal(t, issues[0].Password, issues[i].Password, "all callers must see the same code")
		if issues[i].Created {
			createdCount++
		}
	}
	assert.Equal(t, 1, createdCount, "exactly one caller must create the record")
}
