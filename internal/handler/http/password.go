// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/store"
	"github.com/akopyan/override-keeper/internal/utils"
	"github.com/akopyan/override-keeper/models"
)

// passwordAction dispatches GET /api/admin/password on the "action" query
// parameter. An absent action defaults to "current".
func (h *Handler) passwordAction(w http.ResponseWriter, r *http.Request) {
	switch action := r.URL.Query().Get("action"); action {
	case "", "current":
		h.currentPassword(w, r)
	case "stats":
		h.passwordStats(w, r)
	case "ensure":
		h.ensurePassword(w, r)
	case "generate":
		h.regeneratePassword(w, r)
	default:
		logger.FromRequest(r).Warn().Str("action", action).Msg("unknown password action")
		utils.WriteJSONError(w, "unknown action", http.StatusBadRequest)
	}
}

// currentPassword returns the active record's public view, including the
// plaintext code and remaining validity. The hash never leaves the server.
func (h *Handler) currentPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	record, err := h.services.PasswordService.Current(ctx)
	if err != nil {
		if errors.Is(err, store.ErrNoActivePassword) {
			utils.WriteJSONError(w, "no active password", http.StatusNotFound)
			return
		}
		log.Err(err).Msg("current password lookup failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	remaining := time.Until(record.ExpiresAt)
	if remaining < 0 {
		remaining = 0
	}
	utils.WriteJSON(w, models.CurrentPasswordResponse{
		Period:     record.Period,
		Password:   record.PlainCode,
		CreatedAt:  record.CreatedAt,
		ExpiresAt:  record.ExpiresAt,
		Remaining:  int64(remaining.Seconds()),
		UsageCount: record.UsageCount,
	}, http.StatusOK)
}

// passwordStats returns usage statistics for the trailing window requested
// via the "days" query parameter (default 30).
func (h *Handler) passwordStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var days int
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			utils.WriteJSONError(w, "days must be a positive integer", http.StatusBadRequest)
			return
		}
		days = parsed
	}

	stats, err := h.services.PasswordService.Stats(ctx, days)
	if err != nil {
		log.Err(err).Int("days", days).Msg("stats aggregation failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}

// ensurePassword triggers the idempotent weekly issuance. Responds 201 when
// this call created the record and 200 when an active one already existed.
func (h *Handler) ensurePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	issue, err := h.services.PasswordService.EnsureActivePassword(ctx)
	if err != nil {
		log.Err(err).Msg("password ensure failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if issue.Created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, models.IssueResponse{
		Period:    issue.Record.Period,
		Password:  issue.Password,
		Created:   issue.Created,
		ExpiresAt: issue.Record.ExpiresAt,
	}, status)
}

// regeneratePassword rotates the override code immediately. Wired to both
// PUT /api/admin/password and GET ?action=generate.
func (h *Handler) regeneratePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	actorID, _ := utils.GetUserIDFromContext(ctx)

	issue, err := h.services.PasswordService.ForceRegenerate(ctx, actorID)
	if err != nil {
		log.Err(err).Int64("actorID", actorID).Msg("forced regeneration failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, models.IssueResponse{
		Period:    issue.Record.Period,
		Password:  issue.Password,
		Created:   issue.Created,
		ExpiresAt: issue.Record.ExpiresAt,
	}, http.StatusCreated)
}

// usePassword validates a submitted override code and, on success, appends a
// usage audit entry describing the action the code authorized.
//
// A wrong, missing, or expired code yields 401 with the failure reason in the
// error envelope. The audit write is best-effort and cannot fail the request.
func (h *Handler) usePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req models.UseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("Invalid JSON was passed")
		utils.WriteJSONError(w, "Invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.useRequestValidator.Validate(ctx, req); err != nil {
		log.Err(err).Str("action", req.Action).Msg("invalid use request")
		utils.WriteJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.services.PasswordService.Validate(ctx, req.Password)
	if err != nil {
		log.Err(err).Msg("password validation failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if !result.IsValid {
		utils.WriteJSONError(w, result.Reason, http.StatusUnauthorized)
		return
	}

	userID, _ := utils.GetUserIDFromContext(ctx)
	h.services.PasswordService.LogUsage(ctx, models.PasswordUsage{
		PasswordID: result.PasswordID,
		UserID:     userID,
		Action:     req.Action,
		TargetID:   req.TargetID,
		TargetType: req.TargetType,
		Metadata:   req.Metadata,
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
	})

	utils.WriteJSON(w, result, http.StatusOK)
}

// cronWeeklyPassword is the unauthenticated trigger used by the external
// scheduler. It is gated by a shared token compared in constant time.
func (h *Handler) cronWeeklyPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := r.URL.Query().Get("token")
	if token == "" || !utils.ConstantTimeEquals(token, h.cronToken) {
		log.Warn().Msg("cron trigger with missing or wrong token")
		utils.WriteJSONError(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
		return
	}

	issue, err := h.services.PasswordService.EnsureActivePassword(ctx)
	if err != nil {
		log.Err(err).Msg("cron-triggered ensure failed")
		utils.WriteJSONError(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if issue.Created {
		status = http.StatusCreated
	}
	utils.WriteJSON(w, models.IssueResponse{
		Period:    issue.Record.Period,
		Created:   issue.Created,
		ExpiresAt: issue.Record.ExpiresAt,
	}, status)
}

// clientIP extracts the caller's address for the audit log, preferring the
// reverse proxy's X-Real-IP header over the raw peer address.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
