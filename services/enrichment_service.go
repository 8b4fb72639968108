package services

import (
	"context"
	"fmt"
	"time"

	"macarabia_sync/lib"
	"macarabia_sync/shopify"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

// EnrichmentService fetches the fields the webhook payload omits (SEO,
// taxonomy category, per-variant cost and image) from the source store.
// It is an optional enhancement, never a hard dependency: a nil client or a
// failed fetch means the pipeline runs on webhook data alone.
type EnrichmentService struct {
	logger *gecho.Logger
	source *shopify.AdminClient
}

func NewEnrichmentService(logger *gecho.Logger, cfg *structs.Config) *EnrichmentService {
	es := &EnrichmentService{logger: logger}
	if cfg.Source.Configured() {
		es.source = shopify.New(cfg.Source, logger)
	} else {
		logger.Warn("Source store credentials not configured, product enrichment disabled")
	}
	return es
}

// newEnrichmentServiceWithClient wires an explicit client. Used by tests.
func newEnrichmentServiceWithClient(logger *gecho.Logger, source *shopify.AdminClient) *EnrichmentService {
	return &EnrichmentService{logger: logger, source: source}
}

const sourceDetailsQuery = `
query productSourceDetails($id: ID!) {
	product(id: $id) {
		seo { title description }
		category { id fullName }
		variants(first: 100) {
			edges {
				node {
					sku
					image { url }
					inventoryItem { unitCost { amount } }
				}
			}
		}
	}
}`

type sourceDetailsResponse struct {
	Product *struct {
		SEO struct {
			Title       string `json:"title"`
			Description string `json:"description"`
		} `json:"seo"`
		Category *struct {
			ID       string `json:"id"`
			FullName string `json:"fullName"`
		} `json:"category"`
		Variants struct {
			Edges []struct {
				Node struct {
					SKU   string `json:"sku"`
					Image *struct {
						URL string `json:"url"`
					} `json:"image"`
					InventoryItem *struct {
						UnitCost *struct {
							Amount string `json:"amount"`
						} `json:"unitCost"`
					} `json:"inventoryItem"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"variants"`
	} `json:"product"`
}

// FetchSourceDetails returns a snapshot of the source store's view of the
// product, or (nil, nil) when enrichment is unavailable for this call.
func (es *EnrichmentService) FetchSourceDetails(ctx context.Context, productID int64) (*structs.SourceEnrichment, error) {
	if es.source == nil || productID == 0 {
		return nil, nil
	}

	start := time.Now()
	var resp sourceDetailsResponse
	err := es.source.GraphQL(ctx, sourceDetailsQuery, map[string]any{
		"id": shopify.ProductGID(productID),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch source details for product %d: %w", productID, err)
	}
	if resp.Product == nil {
		es.logger.Warn("Product not found in source store", gecho.Field("product_id", productID))
		return nil, nil
	}

	enrichment := &structs.SourceEnrichment{
		SEOTitle:        resp.Product.SEO.Title,
		SEODescription:  resp.Product.SEO.Description,
		VariantImageMap: make(map[string]string),
	}
	if resp.Product.Category != nil {
		enrichment.CategoryID = resp.Product.Category.ID
		enrichment.CategoryFullName = resp.Product.Category.FullName
	}

	for _, edge := range resp.Product.Variants.Edges {
		node := edge.Node
		if node.SKU == "" {
			continue
		}
		if node.Image != nil && node.Image.URL != "" {
			enrichment.VariantImageMap[node.SKU] = lib.NormalizeImageURL(node.Image.URL)
		}
		if node.InventoryItem != nil && node.InventoryItem.UnitCost != nil && node.InventoryItem.UnitCost.Amount != "" {
			enrichment.InventoryCosts = append(enrichment.InventoryCosts, structs.InventoryCost{
				SKU:  node.SKU,
				Cost: node.InventoryItem.UnitCost.Amount,
			})
		}
	}

	es.logger.Debug("Fetched source enrichment",
		gecho.Field("product_id", productID),
		gecho.Field("costs", len(enrichment.InventoryCosts)),
		gecho.Field("variant_images", len(enrichment.VariantImageMap)),
		gecho.Field("duration", time.Since(start)),
	)
	return enrichment, nil
}
