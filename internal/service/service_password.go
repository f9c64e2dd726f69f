// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/store"
	"github.com/akopyan/override-keeper/internal/utils"
	"github.com/akopyan/override-keeper/models"
)

// defaultStatsWindowDays is used when a caller asks for statistics without
// specifying a window.
const defaultStatsWindowDays = 30

// forceRegenerateAttempts bounds how many times a forced rotation retries
// after losing the insert race to a concurrent generation call.
const forceRegenerateAttempts = 3

// passwordService is the concrete implementation of PasswordService.
//
// All lifecycle decisions live here; the repositories only move rows. The
// single-active-per-period invariant is enforced by the storage layer, so
// concurrent ensure calls are resolved by re-reading the winner rather than
// by locking.
type passwordService struct {
	passwordRepository store.PasswordRepository
	usageRepository    store.UsageRepository
	eventRepository    store.EventRepository

	logger *logger.Logger

	// now and newCode are seams for tests; production uses time.Now and
	// utils.GenerateOverrideCode.
	now     func() time.Time
	newCode func() (string, error)
}

// NewPasswordService constructs a PasswordService wired to the given
// repositories. The returned service is safe for concurrent use.
func NewPasswordService(passwords store.PasswordRepository, usages store.UsageRepository, events store.EventRepository, logger *logger.Logger) PasswordService {
	return &passwordService{
		passwordRepository: passwords,
		usageRepository:    usages,
		eventRepository:    events,
		logger:             logger,
		now:                time.Now,
		newCode:            utils.GenerateOverrideCode,
	}
}

// Current returns the active record without issuing a new one. A record whose
// validity window already passed is treated as absent even if its is_active
// flag is stale.
func (s *passwordService) Current(ctx context.Context) (models.AdminPassword, error) {
	log := logger.FromContext(ctx)

	active, err := s.passwordRepository.FindActive(ctx)
	if err != nil {
		if !errors.Is(err, store.ErrNoActivePassword) {
			log.Err(err).Str("func", "Current").Msg("active password lookup failed")
			return models.AdminPassword{}, fmt.Errorf("active password lookup failed: %w", err)
		}
		return models.AdminPassword{}, err
	}

	if active.Expired(s.now()) {
		return models.AdminPassword{}, store.ErrNoActivePassword
	}

	return active, nil
}

// EnsureActivePassword returns the active override code for the current ISO
// week, creating one if the week has none yet.
//
// The operation is idempotent within a period: if an active record already
// exists it is returned unchanged with Created=false, and a lost insert race
// against a concurrent caller degrades to returning the winner's record.
func (s *passwordService) EnsureActivePassword(ctx context.Context) (models.PasswordIssue, error) {
	log := logger.FromContext(ctx)
	period := models.CurrentPeriod(s.now())

	existing, err := s.passwordRepository.FindActiveByPeriod(ctx, period.Key)
	if err == nil {
		return models.PasswordIssue{Password: existing.PlainCode, Record: existing, Created: false}, nil
	}
	if !errors.Is(err, store.ErrNoActivePassword) {
		log.Err(err).Str("func", "EnsureActivePassword").Str("period", period.Key).Msg("active password lookup failed")
		return models.PasswordIssue{}, fmt.Errorf("active password lookup failed: %w", err)
	}

	issue, err := s.generate(ctx, period, models.EventGenerated, 0, false)
	if err == nil {
		return issue, nil
	}
	if errors.Is(err, store.ErrActivePasswordExists) {
		// Lost the insert race; a concurrent caller created the record.
		winner, readErr := s.passwordRepository.FindActiveByPeriod(ctx, period.Key)
		if readErr != nil {
			log.Err(readErr).Str("func", "EnsureActivePassword").Str("period", period.Key).Msg("re-reading winning record failed")
			return models.PasswordIssue{}, fmt.Errorf("re-reading winning record failed: %w", readErr)
		}
		return models.PasswordIssue{Password: winner.PlainCode, Record: winner, Created: false}, nil
	}

	return models.PasswordIssue{}, err
}

// ForceRegenerate rotates the override code for the current period
// immediately, deactivating whatever record is active now.
//
// Unlike EnsureActivePassword it always produces a fresh code. A lost insert
// race is retried a bounded number of times; if every attempt loses,
// ErrRegenerationConflict is returned.
func (s *passwordService) ForceRegenerate(ctx context.Context, actorID int64) (models.PasswordIssue, error) {
	log := logger.FromContext(ctx)
	period := models.CurrentPeriod(s.now())

	var lastErr error
	for attempt := 0; attempt < forceRegenerateAttempts; attempt++ {
		issue, err := s.generate(ctx, period, models.EventForceRotated, actorID, true)
		if err == nil {
			return issue, nil
		}
		if !errors.Is(err, store.ErrActivePasswordExists) {
			return models.PasswordIssue{}, err
		}
		lastErr = err
	}

	log.Error().Str("func", "ForceRegenerate").Str("period", period.Key).Int64("actorID", actorID).Msg("regeneration lost the race repeatedly")
	return models.PasswordIssue{}, fmt.Errorf("%w: %w", ErrRegenerationConflict, lastErr)
}

// generate creates, hashes, and persists a new override code for period, then
// records a generation event. The event append is best-effort: the issued
// code is already durable, so an audit failure is logged and swallowed.
//
// rotate selects the storage primitive: the ensure path inserts only if the
// period is still vacant, so a committed winner's code survives a lost race;
// forced rotation deactivates whatever is active first.
func (s *passwordService) generate(ctx context.Context, period models.Period, eventKind string, actorID int64, rotate bool) (models.PasswordIssue, error) {
	log := logger.FromContext(ctx)

	code, err := s.newCode()
	if err != nil {
		log.Err(err).Str("func", "generate").Str("period", period.Key).Msg("override code generation failed")
		return models.PasswordIssue{}, fmt.Errorf("override code generation failed: %w", err)
	}

	record := models.AdminPassword{
		Period:    period.Key,
		PlainCode: code,
		CodeHash:  utils.HashOverrideCode(code),
		IsActive:  true,
		ExpiresAt: period.End,
	}

	create := s.passwordRepository.InsertIfAbsent
	if rotate {
		create = s.passwordRepository.CreateActive
	}

	created, err := create(ctx, record)
	if err != nil {
		if !errors.Is(err, store.ErrActivePasswordExists) {
			log.Err(err).Str("func", "generate").Str("period", period.Key).Msg("active password creation failed")
		}
		return models.PasswordIssue{}, fmt.Errorf("active password creation failed: %w", err)
	}

	event := models.PasswordEvent{
		Period:     period.Key,
		Kind:       eventKind,
		PasswordID: created.ID,
		ActorID:    actorID,
	}
	if err := s.eventRepository.Append(ctx, event); err != nil {
		log.Err(err).Str("func", "generate").Str("period", period.Key).Str("kind", eventKind).Msg("generation event append failed")
	}

	log.Info().Str("func", "generate").Str("period", period.Key).Str("kind", eventKind).Int64("passwordID", created.ID).Msg("override code issued")
	return models.PasswordIssue{Password: created.PlainCode, Record: created, Created: true}, nil
}

// Validate checks a submitted plaintext code against the active record.
//
// A wrong, missing, or expired code is a normal outcome reported through the
// result's Reason field; the error return is reserved for storage failures.
// The hash comparison is constant-time.
func (s *passwordService) Validate(ctx context.Context, candidate string) (models.ValidationResult, error) {
	log := logger.FromContext(ctx)

	active, err := s.passwordRepository.FindActive(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoActivePassword) {
			return models.ValidationResult{IsValid: false, Reason: ReasonNoActivePassword}, nil
		}
		log.Err(err).Str("func", "Validate").Msg("active password lookup failed")
		return models.ValidationResult{}, fmt.Errorf("active password lookup failed: %w", err)
	}

	if active.Expired(s.now()) {
		return models.ValidationResult{IsValid: false, Reason: ReasonPasswordExpired}, nil
	}

	if !utils.CompareCodeHash(candidate, active.CodeHash) {
		return models.ValidationResult{IsValid: false, Reason: ReasonWrongPassword}, nil
	}

	return models.ValidationResult{IsValid: true, PasswordID: active.ID}, nil
}

// LogUsage records one successful override use in the audit log and bumps the
// record's denormalized usage counter.
//
// Both writes are best-effort: the action the code authorized has already
// happened, so a failed audit write must never surface as an error to the
// caller. Failures are logged and swallowed.
func (s *passwordService) LogUsage(ctx context.Context, usage models.PasswordUsage) {
	log := logger.FromContext(ctx)

	if _, err := s.usageRepository.Append(ctx, usage); err != nil {
		log.Err(err).Str("func", "LogUsage").Int64("passwordID", usage.PasswordID).Str("action", usage.Action).Msg("usage append failed")
		return
	}

	if err := s.passwordRepository.IncrementUsage(ctx, usage.PasswordID); err != nil {
		log.Err(err).Str("func", "LogUsage").Int64("passwordID", usage.PasswordID).Msg("usage counter increment failed")
	}
}

// Stats aggregates issued records and usage over the trailing windowDays
// days. A non-positive windowDays falls back to the 30-day default.
func (s *passwordService) Stats(ctx context.Context, windowDays int) (models.UsageStats, error) {
	log := logger.FromContext(ctx)

	if windowDays <= 0 {
		windowDays = defaultStatsWindowDays
	}
	since := s.now().UTC().AddDate(0, 0, -windowDays)

	periods, err := s.passwordRepository.RecentSince(ctx, since)
	if err != nil {
		log.Err(err).Str("func", "Stats").Int("windowDays", windowDays).Msg("recent records lookup failed")
		return models.UsageStats{}, fmt.Errorf("recent records lookup failed: %w", err)
	}

	total, err := s.usageRepository.CountSince(ctx, since)
	if err != nil {
		log.Err(err).Str("func", "Stats").Int("windowDays", windowDays).Msg("usage count failed")
		return models.UsageStats{}, fmt.Errorf("usage count failed: %w", err)
	}

	byAction, err := s.usageRepository.CountByActionSince(ctx, since)
	if err != nil {
		log.Err(err).Str("func", "Stats").Int("windowDays", windowDays).Msg("usage count by action failed")
		return models.UsageStats{}, fmt.Errorf("usage count by action failed: %w", err)
	}

	return models.UsageStats{
		WindowDays:      windowDays,
		Periods:         periods,
		TotalUsageCount: total,
		UsageByAction:   byAction,
	}, nil
}
