package http

import (
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/service"
	"github.com/akopyan/override-keeper/internal/validators"
)

type Handler struct {
	services *service.Services

	// cronToken is the shared secret gating the cron trigger endpoint.
	cronToken string

	useRequestValidator validators.Validator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cronToken string, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:            services,
		cronToken:           cronToken,
		useRequestValidator: validators.NewUseRequestValidator(),
		logger:              logger,
	}
}
