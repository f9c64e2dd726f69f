package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/utils"
	"github.com/akopyan/override-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of
// [ServerAdapter]. It normalises and validates the base URL from
// adapterCfg.HTTPAddress and configures the underlying HTTP client with the
// resolved base URL and request timeout.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as
// a valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	return &httpServerAdapter{client: client, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed)
// for use in the Authorization header of all subsequent authenticated
// requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently
// held by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	return h.token
}

// Login implements [ServerAdapter]. It POSTs the staff credentials to
// POST /api/auth/login. On success the bearer token is extracted from the
// Authorization response header and stored via SetToken. Returns an error if
// the request fails, the server returns a non-2xx status, or the token cannot
// be parsed.
func (h *httpServerAdapter) Login(ctx context.Context, user models.StaffUser) error {
	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(user).
		Post("/api/auth/login")
	if err != nil {
		return fmt.Errorf("login request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return err
	}

	token, err := utils.ParseBearerToken(resp.Header().Get("Authorization"))
	if err != nil {
		return fmt.Errorf("login parse bearer token: %w", err)
	}

	h.SetToken(token)
	return nil
}

// CurrentPassword implements [ServerAdapter].
func (h *httpServerAdapter) CurrentPassword(ctx context.Context) (models.CurrentPasswordResponse, error) {
	var current models.CurrentPasswordResponse

	resp, err := h.authorizedRequest(ctx).
		SetQueryParam("action", "current").
		Get("/api/admin/password")
	if err != nil {
		return models.CurrentPasswordResponse{}, fmt.Errorf("current password request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.CurrentPasswordResponse{}, err
	}

	if err = json.Unmarshal(resp.Body(), &current); err != nil {
		return models.CurrentPasswordResponse{}, fmt.Errorf("current password decode: %w", err)
	}
	return current, nil
}

// Stats implements [ServerAdapter].
func (h *httpServerAdapter) Stats(ctx context.Context, days int) (models.UsageStats, error) {
	var stats models.UsageStats

	req := h.authorizedRequest(ctx).SetQueryParam("action", "stats")
	if days > 0 {
		req.SetQueryParam("days", strconv.Itoa(days))
	}

	resp, err := req.Get("/api/admin/password")
	if err != nil {
		return models.UsageStats{}, fmt.Errorf("stats request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UsageStats{}, err
	}

	if err = json.Unmarshal(resp.Body(), &stats); err != nil {
		return models.UsageStats{}, fmt.Errorf("stats decode: %w", err)
	}
	return stats, nil
}

// Ensure implements [ServerAdapter].
func (h *httpServerAdapter) Ensure(ctx context.Context) (models.IssueResponse, error) {
	var issue models.IssueResponse

	resp, err := h.authorizedRequest(ctx).
		SetQueryParam("action", "ensure").
		Get("/api/admin/password")
	if err != nil {
		return models.IssueResponse{}, fmt.Errorf("ensure request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.IssueResponse{}, err
	}

	if err = json.Unmarshal(resp.Body(), &issue); err != nil {
		return models.IssueResponse{}, fmt.Errorf("ensure decode: %w", err)
	}
	return issue, nil
}

// Regenerate implements [ServerAdapter].
func (h *httpServerAdapter) Regenerate(ctx context.Context) (models.IssueResponse, error) {
	var issue models.IssueResponse

	resp, err := h.authorizedRequest(ctx).Put("/api/admin/password")
	if err != nil {
		return models.IssueResponse{}, fmt.Errorf("regenerate request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.IssueResponse{}, err
	}

	if err = json.Unmarshal(resp.Body(), &issue); err != nil {
		return models.IssueResponse{}, fmt.Errorf("regenerate decode: %w", err)
	}
	return issue, nil
}

// TriggerCron implements [ServerAdapter].
func (h *httpServerAdapter) TriggerCron(ctx context.Context, cronToken string) (models.IssueResponse, error) {
	var issue models.IssueResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetQueryParam("token", cronToken).
		Get("/api/cron/weekly-password")
	if err != nil {
		return models.IssueResponse{}, fmt.Errorf("cron trigger request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.IssueResponse{}, err
	}

	if err = json.Unmarshal(resp.Body(), &issue); err != nil {
		return models.IssueResponse{}, fmt.Errorf("cron trigger decode: %w", err)
	}
	return issue, nil
}

// authorizedRequest prepares a request carrying the stored bearer token.
func (h *httpServerAdapter) authorizedRequest(ctx context.Context) *resty.Request {
	return h.client.R().
		SetContext(ctx).
		SetHeader("Authorization", "Bearer "+h.token)
}
