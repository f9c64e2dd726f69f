package handler

import (
	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/handler/http"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.Server.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, cfg.Cron.Token, logger)
	}

	if handlers.HTTP == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
