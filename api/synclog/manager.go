package synclog

import (
	"macarabia_sync/api/middleware"
	"macarabia_sync/services"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type SyncLogRoutesManager struct {
	logger         *gecho.Logger
	syncLogService *services.SyncLogService
	mw             *middleware.Middleware
}

func NewSyncLogRoutesManager(logger *gecho.Logger, syncLogService *services.SyncLogService, mw *middleware.Middleware) *SyncLogRoutesManager {
	return &SyncLogRoutesManager{
		logger:         logger,
		syncLogService: syncLogService,
		mw:             mw,
	}
}

func (slrm *SyncLogRoutesManager) RegisterRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(slrm.mw.AdminAuthMiddleware)
		r.Get("/sync/events", slrm.ListEvents)
	})
}
