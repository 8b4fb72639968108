package webhooks

import (
	"macarabia_sync/services"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

type WebhookRoutesManager struct {
	logger         *gecho.Logger
	config         *structs.Config
	searchService  *services.SearchService
	syncService    *services.SyncService
	syncLogService *services.SyncLogService
}

func NewWebhookRoutesManager(
	logger *gecho.Logger,
	config *structs.Config,
	searchService *services.SearchService,
	syncService *services.SyncService,
	syncLogService *services.SyncLogService,
) *WebhookRoutesManager {
	return &WebhookRoutesManager{
		logger:         logger,
		config:         config,
		searchService:  searchService,
		syncService:    syncService,
		syncLogService: syncLogService,
	}
}

func (wrm *WebhookRoutesManager) RegisterRoutes(r chi.Router) {
	r.Get("/webhooks/typesense-products", wrm.GetUsage)
	r.Post("/webhooks/typesense-products", wrm.HandleProductWebhook)
}
