package api

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/rs/zerolog"

	"hotel-ops-backend/internal/service"
	"hotel-ops-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	svc     *service.Service
	store   store.Store
	webpush *webpush.Options
	log     *zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(svc *service.Service, s store.Store, webpushOptions *webpush.Options, log *zerolog.Logger) *Handler {
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}
	return &Handler{
		svc:     svc,
		store:   s,
		webpush: webpushOptions,
		log:     log,
	}
}
