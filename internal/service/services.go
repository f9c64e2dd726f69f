package service

import (
	"github.com/akopyan/override-keeper/internal/config"
	"github.com/akopyan/override-keeper/internal/logger"
	"github.com/akopyan/override-keeper/internal/store"
)

type Services struct {
	AuthService     AuthService
	PasswordService PasswordService
	AppInfoService  AppInfoService
}

func NewServices(storages store.Storages, cfg config.StructuredConfig, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(cfg.App, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:     NewAuthService(storages.UserRepository, cfg.App, logger),
		PasswordService: NewPasswordService(storages.PasswordRepository, storages.UsageRepository, storages.EventRepository, logger),
		AppInfoService:  appInfoService,
	}, nil
}
