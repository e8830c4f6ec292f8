package httpapi

import (
	"context"
	"log/slog"

	"study-app/internal/economy"
)

type API struct {
	service  *economy.Service
	identity *IdentityVerifier
	logger   *slog.Logger
	health   func(context.Context) error
}

func NewAPI(service *economy.Service, identity *IdentityVerifier, logger *slog.Logger) *API {
	if logger == nil {
		logger = discardLogger()
	}
	return &API{
		service:  service,
		identity: identity,
		logger:   logger,
	}
}
