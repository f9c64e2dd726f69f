// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command cron is a one-shot trigger for the weekly override-code issuance.
// It is meant to be invoked by an external scheduler (cron, systemd timer)
// and exits non-zero when the trigger fails, so the scheduler can alert.
package main

import (
	"context"
	"os"
	"time"

	"github.com/akopyan/override-keeper/internal/adapter"
	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/logger"
)

// triggerTimeout caps one trigger attempt end to end.
const triggerTimeout = 30 * time.Second

func main() {
	log := logger.NewLogger("override-keeper-cron")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if cfg.Cron.Token == "" {
		log.Fatal().Err(config.ErrMissingCronToken).Msg("error getting configs")
	}

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create server adapter")
	}

	ctx, cancel := context.WithTimeout(context.Background(), triggerTimeout)
	defer cancel()

	issue, err := serverAdapter.TriggerCron(ctx, cfg.Cron.Token)
	if err != nil {
		log.Error().Err(err).Msg("weekly password trigger failed")
		os.Exit(1)
	}

	log.Info().
		Str("period", issue.Period).
		Bool("created", issue.Created).
		Time("expires_at", issue.ExpiresAt).
		Msg("weekly password ensured")
}
