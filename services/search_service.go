package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"macarabia_sync/lib"
	"macarabia_sync/metrics"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/typesense/typesense-go/typesense"
)

// SearchService mirrors product state into the Typesense collection that
// powers storefront search. This is the one downstream the webhook endpoint
// treats as must-succeed: an error here turns into a 500 so the sender
// redelivers.
type SearchService struct {
	logger     *gecho.Logger
	client     *typesense.Client
	collection string
}

func NewSearchService(logger *gecho.Logger, cfg *structs.Config) *SearchService {
	client := typesense.NewClient(
		typesense.WithServer(cfg.Typesense.URL()),
		typesense.WithAPIKey(cfg.Typesense.APIKey),
		typesense.WithConnectionTimeout(cfg.Typesense.Timeout),
	)

	return &SearchService{
		logger:     logger,
		client:     client,
		collection: cfg.Typesense.Collection,
	}
}

// UpsertProduct maps the payload and overwrites the document under its
// deterministic global id, so redelivered webhooks converge on one document.
func (ss *SearchService) UpsertProduct(ctx context.Context, product *structs.Product) (*structs.SearchDocument, error) {
	start := time.Now()
	doc := lib.MapSearchDocument(product)

	if _, err := ss.client.Collection(ss.collection).Documents().Upsert(ctx, doc); err != nil {
		metrics.SearchIndexOps.WithLabelValues("upsert", "error").Inc()
		return nil, fmt.Errorf("failed to upsert search document %s: %w", doc.ID, err)
	}

	metrics.SearchIndexOps.WithLabelValues("upsert", "ok").Inc()
	ss.logger.Debug("Search document upserted",
		gecho.Field("id", doc.ID),
		gecho.Field("handle", doc.Handle),
		gecho.Field("duration", time.Since(start)),
	)
	return &doc, nil
}

// DeleteProduct removes the document for the given global id. A document
// that is already gone counts as success.
func (ss *SearchService) DeleteProduct(ctx context.Context, gid string) error {
	if _, err := ss.client.Collection(ss.collection).Document(gid).Delete(ctx); err != nil {
		var httpErr *typesense.HTTPError
		if errors.As(err, &httpErr) && httpErr.Status == http.StatusNotFound {
			metrics.SearchIndexOps.WithLabelValues("delete", "ok").Inc()
			ss.logger.Debug("Search document already absent", gecho.Field("id", gid))
			return nil
		}
		metrics.SearchIndexOps.WithLabelValues("delete", "error").Inc()
		return fmt.Errorf("failed to delete search document %s: %w", gid, err)
	}

	metrics.SearchIndexOps.WithLabelValues("delete", "ok").Inc()
	ss.logger.Debug("Search document deleted", gecho.Field("id", gid))
	return nil
}
