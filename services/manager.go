package services

import (
	"macarabia_sync/database"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

type ServiceManager struct {
	CacheService      *CacheService
	SearchService     *SearchService
	EnrichmentService *EnrichmentService
	SyncService       *SyncService
	SyncLogService    *SyncLogService
	HealthService     *HealthService
}

func NewServiceManager(logger *gecho.Logger, cfg *structs.Config, db *database.DB) *ServiceManager {
	cacheService := NewCacheService(logger, cfg)
	searchService := NewSearchService(logger, cfg)
	enrichmentService := NewEnrichmentService(logger, cfg)
	syncService := NewSyncService(logger, cfg, enrichmentService, cacheService)
	syncLogService := NewSyncLogService(logger, db)
	healthService := NewHealthService(logger, db)

	return &ServiceManager{
		CacheService:      cacheService,
		SearchService:     searchService,
		EnrichmentService: enrichmentService,
		SyncService:       syncService,
		SyncLogService:    syncLogService,
		HealthService:     healthService,
	}
}
