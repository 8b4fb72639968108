package api

import (
	"macarabia_sync/api/health"
	"macarabia_sync/api/middleware"
	"macarabia_sync/api/synclog"
	"macarabia_sync/api/webhooks"
	"macarabia_sync/database"
	"macarabia_sync/services"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type routerManager struct {
	webhookRoutes *webhooks.WebhookRoutesManager
	healthRoutes  *health.HealthRoutesManager
	syncLogRoutes *synclog.SyncLogRoutesManager
}

func NewRouterManager(logger *gecho.Logger, db *database.DB, cfg *structs.Config, mw *middleware.Middleware) *routerManager {
	sm := services.NewServiceManager(logger, cfg, db)

	return &routerManager{
		webhookRoutes: webhooks.NewWebhookRoutesManager(logger, cfg, sm.SearchService, sm.SyncService, sm.SyncLogService),
		healthRoutes:  health.NewHealthRoutesManager(sm.HealthService),
		syncLogRoutes: synclog.NewSyncLogRoutesManager(logger, sm.SyncLogService, mw),
	}
}

func (rm *routerManager) RegisterRoutes(r chi.Router) {
	rm.webhookRoutes.RegisterRoutes(r)
	rm.healthRoutes.RegisterRoutes(r)
	rm.syncLogRoutes.RegisterRoutes(r)
}
