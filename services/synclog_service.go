package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"macarabia_sync/database"
	"macarabia_sync/structs"
	"macarabia_sync/structs/tables"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

// SyncLogService persists one row per processed webhook delivery so
// operators can answer "what happened to product X" without replaying logs.
// Writes are best-effort: the log must never block or fail a delivery.
type SyncLogService struct {
	logger *gecho.Logger
	db     *database.DB
}

func NewSyncLogService(logger *gecho.Logger, db *database.DB) *SyncLogService {
	return &SyncLogService{
		logger: logger,
		db:     db,
	}
}

// RecordEvent stores the delivery's report. Errors are returned for the
// caller to log; processing continues regardless.
func (sls *SyncLogService) RecordEvent(ctx context.Context, shopDomain string, report *structs.SyncReport) error {
	if sls.db == nil {
		return fmt.Errorf("sync event store not initialized")
	}

	raw, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal sync report: %w", err)
	}

	event := &tables.SyncEvent{
		ID:         uuid.New(),
		Topic:      report.Topic,
		ProductID:  report.ProductID,
		Handle:     report.Handle,
		ShopDomain: shopDomain,
		Outcome:    string(report.Outcome()),
		Report:     raw,
		CreatedAt:  time.Now().UTC(),
	}

	err = database.WithRetry(ctx, func() error {
		_, err := sls.db.NewInsert().Model(event).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to insert sync event: %w", err)
	}

	sls.logger.Debug("Sync event recorded",
		gecho.Field("id", event.ID),
		gecho.Field("topic", event.Topic),
		gecho.Field("outcome", event.Outcome),
	)
	return nil
}

// ListEventsOptions filters the operator read endpoint.
type ListEventsOptions struct {
	Limit     int    `json:"limit"`
	Topic     string `json:"topic,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	ProductID int64  `json:"product_id,omitempty"`
}

func (opts *ListEventsOptions) applyDefaults() {
	if opts.Limit < 1 {
		opts.Limit = 50
	}
	if opts.Limit > 200 {
		opts.Limit = 200
	}
}

// ListEvents returns the most recent sync events, newest first.
func (sls *SyncLogService) ListEvents(ctx context.Context, opts *ListEventsOptions) ([]tables.SyncEvent, error) {
	if opts == nil {
		opts = &ListEventsOptions{}
	}
	opts.applyDefaults()

	var events []tables.SyncEvent
	query := sls.db.NewSelect().
		Model(&events).
		Order("created_at DESC").
		Limit(opts.Limit)

	if opts.Topic != "" {
		query = query.Where("topic = ?", opts.Topic)
	}
	if opts.Outcome != "" {
		query = query.Where("outcome = ?", opts.Outcome)
	}
	if opts.ProductID != 0 {
		query = query.Where("product_id = ?", opts.ProductID)
	}

	if err := query.Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to fetch sync events: %w", err)
	}
	return events, nil
}
