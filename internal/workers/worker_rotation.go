// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/service"
	"github.com/sethvargo/go-retry"
)

// ensureMaxRetries bounds how many times a single tick retries a failed
// ensure call before giving up until the next tick.
const ensureMaxRetries = 3

// rotationWorker periodically calls the idempotent ensure operation so that a
// fresh override code exists shortly after a period boundary even when the
// external cron trigger is delayed or missing.
//
// Ensure is idempotent, so a tick inside an already-covered period is a
// cheap no-op read.
type rotationWorker struct {
	passwordService service.PasswordService
	interval        time.Duration

	logger *logger.Logger

	// tick is a seam for tests; production uses time.Tick.
	tick func(d time.Duration) <-chan time.Time
}

func newRotationWorker(passwordService service.PasswordService, interval time.Duration, logger *logger.Logger) *rotationWorker {
	return &rotationWorker{
		passwordService: passwordService,
		interval:        interval,
		logger:          logger,
		tick:            time.Tick,
	}
}

// Run starts the rotation loop in a background goroutine and returns
// immediately.
func (w *rotationWorker) Run() {
	w.logger.Info().Dur("interval", w.interval).Msg("rotation worker started")

	go func() {
		for range w.tick(w.interval) {
			w.ensureOnce(context.Background())
		}
	}()
}

// ensureOnce runs one ensure attempt with exponential backoff on transient
// storage failures. Failures after the retry budget are logged and left for
// the next tick.
func (w *rotationWorker) ensureOnce(ctx context.Context) {
	backoff := retry.WithMaxRetries(ensureMaxRetries, retry.NewExponential(time.Second))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		issue, err := w.passwordService.EnsureActivePassword(ctx)
		if err != nil {
			return retry.RetryableError(err)
		}

		if issue.Created {
			w.logger.Info().Str("period", issue.Record.Period).Msg("rotation worker issued new override code")
		}
		return nil
	})
	if err != nil {
		w.logger.Err(err).Msg("rotation worker ensure failed, waiting for next tick")
	}
}
