package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"macarabia_sync/lib"
	"macarabia_sync/metrics"
	"macarabia_sync/shopify"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

// SyncService reconciles a webhook product into the secondary store: an
// independent tenant with its own id space, joined only by handle and SKU.
// Every sub-step is individually recovered and recorded; there is no
// rollback. A partially-applied sync self-heals on the next delivery because
// every step is an idempotent upsert.
type SyncService struct {
	logger     *gecho.Logger
	config     *structs.Config
	secondary  *shopify.AdminClient
	enrichment *EnrichmentService
	cache      *CacheService
}

func NewSyncService(logger *gecho.Logger, cfg *structs.Config, enrichment *EnrichmentService, cache *CacheService) *SyncService {
	s := &SyncService{
		logger:     logger,
		config:     cfg,
		enrichment: enrichment,
		cache:      cache,
	}
	if cfg.Secondary.Configured() {
		s.secondary = shopify.New(cfg.Secondary, logger)
	} else {
		logger.Warn("Secondary store credentials not configured, catalog mirroring disabled")
	}
	return s
}

// newSyncServiceWithClient wires an explicit secondary client. Used by tests.
func newSyncServiceWithClient(logger *gecho.Logger, cfg *structs.Config, secondary *shopify.AdminClient, enrichment *EnrichmentService, cache *CacheService) *SyncService {
	return &SyncService{
		logger:     logger,
		config:     cfg,
		secondary:  secondary,
		enrichment: enrichment,
		cache:      cache,
	}
}

// record appends a step outcome and counts failures.
func (s *SyncService) record(report *structs.SyncReport, step, key string, err error) {
	report.Record(step, key, err)
	if err != nil {
		metrics.SyncStepFailures.WithLabelValues(step).Inc()
		s.logger.Error("Sync step failed",
			gecho.Field("step", step),
			gecho.Field("key", key),
			gecho.Field("product_id", report.ProductID),
			gecho.Field("error", err),
		)
	}
}

// SyncProduct runs the create-or-update reconciliation for one delivery.
func (s *SyncService) SyncProduct(ctx context.Context, topic string, p *structs.Product) *structs.SyncReport {
	report := &structs.SyncReport{Topic: topic, ProductID: p.ID, Handle: p.Handle}
	if s.secondary == nil {
		report.Skip("sync", p.Handle)
		return report
	}

	start := time.Now()

	// Best-effort: a failed or unconfigured enrichment never aborts the
	// sync, the pipeline just runs on webhook-only data.
	enrichment, err := s.enrichment.FetchSourceDetails(ctx, p.ID)
	if err != nil {
		s.logger.Warn("Source enrichment unavailable, continuing with webhook data",
			gecho.Field("product_id", p.ID),
			gecho.Field("error", err),
		)
		enrichment = nil
	}

	payload := buildWritePayload(p, enrichment)

	existingID, err := s.resolveProductID(ctx, p.Handle, p.SKUs())
	if err != nil {
		s.record(report, "resolve", p.Handle, err)
		return report
	}

	if existingID != 0 {
		s.updateExisting(ctx, existingID, payload, report)
	} else {
		s.createNew(ctx, payload, report)
	}

	s.logger.Info("Product sync finished",
		gecho.Field("product_id", p.ID),
		gecho.Field("handle", p.Handle),
		gecho.Field("created", report.Created),
		gecho.Field("outcome", report.Outcome()),
		gecho.Field("failed_steps", len(report.Failed())),
		gecho.Field("duration", time.Since(start)),
	)
	return report
}

// updateExisting refreshes the product aggregate in place. Base fields go
// first; the remaining steps need the committed product/variant/image rows.
func (s *SyncService) updateExisting(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	product := payload.productFields()
	product["id"] = productID
	err := s.secondary.REST(ctx, http.MethodPut, fmt.Sprintf("products/%d.json", productID), map[string]any{"product": product}, nil)
	s.record(report, "product_update", report.Handle, err)

	s.syncVariants(ctx, productID, payload, report)
	s.syncImages(ctx, productID, payload, report)
	s.syncVariantImages(ctx, productID, payload, report)
	s.removeDefaultVariant(ctx, productID, report)
	s.syncMetafields(ctx, productID, payload, report)
	s.syncCategory(ctx, productID, payload, report)
	s.syncInventoryCosts(ctx, payload, report)
	s.syncInventoryQuantities(ctx, payload, report)
}

// createNew posts the whole aggregate in one call, then runs the dependent
// steps against the fresh id. Publication comes last: a half-configured
// product must not go live on sales channels.
func (s *SyncService) createNew(ctx context.Context, payload *writePayload, report *structs.SyncReport) {
	product := payload.productFields()
	if len(payload.variants) > 0 {
		product["variants"] = payload.variants
	}
	if len(payload.images) > 0 {
		product["images"] = payload.images
	}

	var created struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
	}
	err := s.secondary.REST(ctx, http.MethodPost, "products.json", map[string]any{"product": product}, &created)
	s.record(report, "product_create", report.Handle, err)
	if err != nil || created.Product.ID == 0 {
		return
	}

	report.Created = true
	productID := created.Product.ID

	s.syncMetafields(ctx, productID, payload, report)
	s.syncCategory(ctx, productID, payload, report)
	s.syncInventoryCosts(ctx, payload, report)
	s.syncInventoryQuantities(ctx, payload, report)
	s.syncVariantImages(ctx, productID, payload, report)
	s.removeDefaultVariant(ctx, productID, report)
	s.publishProduct(ctx, productID, report)
}

const productDeleteMutation = `
mutation productDelete($input: ProductDeleteInput!) {
	productDelete(input: $input) {
		deletedProductId
		userErrors { field message }
	}
}`

// DeleteProduct removes the mirrored product. No secondary match is a
// successful no-op: deleting something absent is the desired end state.
func (s *SyncService) DeleteProduct(ctx context.Context, p *structs.Product) *structs.SyncReport {
	report := &structs.SyncReport{Topic: "products/delete", ProductID: p.ID, Handle: p.Handle}
	if s.secondary == nil {
		report.Skip("sync", p.Handle)
		return report
	}

	productID, err := s.resolveProductID(ctx, p.Handle, p.SKUs())
	if err != nil {
		s.record(report, "resolve", p.Handle, err)
		return report
	}
	if productID == 0 {
		s.logger.Info("Delete skipped, product not present in secondary store",
			gecho.Field("product_id", p.ID),
			gecho.Field("handle", p.Handle),
		)
		report.Skip("product_delete", p.Handle)
		return report
	}

	var resp struct {
		ProductDelete struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"productDelete"`
	}
	err = s.secondary.GraphQL(ctx, productDeleteMutation, map[string]any{
		"input": map[string]any{"id": shopify.ProductGID(productID)},
	}, &resp)
	if err == nil {
		err = shopify.CheckUserErrors("productDelete", resp.ProductDelete.UserErrors)
	}
	s.record(report, "product_delete", p.Handle, err)
	return report
}

// writePayload is the assembled aggregate for the secondary store, built
// once per delivery from the webhook payload plus whatever enrichment
// supplied. Variant order follows the payload so runs are deterministic.
type writePayload struct {
	title       string
	bodyHTML    string
	vendor      string
	productType string
	tags        string
	handle      string
	status      string
	options     []structs.ProductOption

	variants      []map[string]any
	images        []map[string]any
	metafields    []structs.Metafield
	costs         []structs.InventoryCost
	categoryID    string
	variantImages []variantImageLink
	quantities    []skuQuantity
}

type variantImageLink struct {
	sku string
	src string // normalized
}

type skuQuantity struct {
	sku      string
	quantity int
}

func buildWritePayload(p *structs.Product, enrichment *structs.SourceEnrichment) *writePayload {
	payload := &writePayload{
		title:       p.Title,
		bodyHTML:    p.BodyHTML,
		vendor:      p.Vendor,
		productType: p.ProductType,
		tags:        p.Tags.String(),
		handle:      p.Handle,
		status:      string(p.Status),
		options:     p.Options,
	}

	// Enrichment's taxonomy name is the richer product_type when available.
	if enrichment != nil && enrichment.CategoryFullName != "" {
		payload.productType = enrichment.CategoryFullName
	}
	if enrichment != nil {
		payload.categoryID = enrichment.CategoryID
	}

	imageSrcByID := make(map[int64]string, len(p.Images))
	for _, img := range p.Images {
		if img.Src != "" {
			imageSrcByID[img.ID] = img.Src
			entry := map[string]any{"src": img.Src}
			if img.Alt != "" {
				entry["alt"] = img.Alt
			}
			payload.images = append(payload.images, entry)
		}
	}

	var embeddedCosts []structs.InventoryCost
	for _, v := range p.Variants {
		payload.variants = append(payload.variants, variantFields(v))

		if v.SKU == "" {
			continue
		}

		payload.quantities = append(payload.quantities, skuQuantity{sku: v.SKU, quantity: v.InventoryQuantity})

		if v.Cost != "" {
			embeddedCosts = append(embeddedCosts, structs.InventoryCost{SKU: v.SKU, Cost: v.Cost})
		}

		// Webhook image_id linkage wins; enrichment fills the gaps.
		if v.ImageID != nil {
			if src, ok := imageSrcByID[*v.ImageID]; ok {
				payload.variantImages = append(payload.variantImages, variantImageLink{
					sku: v.SKU,
					src: lib.NormalizeImageURL(src),
				})
				continue
			}
		}
		if enrichment != nil {
			if src, ok := enrichment.VariantImageMap[v.SKU]; ok {
				payload.variantImages = append(payload.variantImages, variantImageLink{sku: v.SKU, src: src})
			}
		}
	}

	// Webhook-embedded costs are fresher than the enrichment snapshot.
	if len(embeddedCosts) > 0 {
		payload.costs = embeddedCosts
	} else if enrichment != nil {
		payload.costs = enrichment.InventoryCosts
	}

	for _, m := range p.Metafields {
		if m.Valid() {
			payload.metafields = append(payload.metafields, m)
		}
	}

	// SEO lands as the standard global title_tag/description_tag metafields.
	// The webhook's own seo block wins; enrichment fills in when absent.
	seoTitle, seoDescription := "", ""
	if p.SEO != nil {
		seoTitle, seoDescription = p.SEO.Title, p.SEO.Description
	}
	if enrichment != nil {
		if seoTitle == "" {
			seoTitle = enrichment.SEOTitle
		}
		if seoDescription == "" {
			seoDescription = enrichment.SEODescription
		}
	}
	if seoTitle != "" {
		payload.metafields = append(payload.metafields, structs.Metafield{
			Namespace: "global", Key: "title_tag", Type: "single_line_text_field", Value: seoTitle,
		})
	}
	if seoDescription != "" {
		payload.metafields = append(payload.metafields, structs.Metafield{
			Namespace: "global", Key: "description_tag", Type: "multi_line_text_field", Value: seoDescription,
		})
	}

	return payload
}

// productFields renders the REST base-field map. Returned fresh per call so
// callers can add id/variants/images without aliasing.
func (w *writePayload) productFields() map[string]any {
	product := map[string]any{
		"title":        w.title,
		"body_html":    w.bodyHTML,
		"vendor":       w.vendor,
		"product_type": w.productType,
		"tags":         w.tags,
		"handle":       w.handle,
		"status":       w.status,
	}
	if len(w.options) > 0 {
		options := make([]map[string]any, 0, len(w.options))
		for _, opt := range w.options {
			options = append(options, map[string]any{"name": opt.Name, "values": opt.Values})
		}
		product["options"] = options
	}
	return product
}

// variantFields builds one REST variant payload, omitting absent fields
// rather than sending nulls.
func variantFields(v structs.Variant) map[string]any {
	fields := map[string]any{
		"sku":                v.SKU,
		"inventory_quantity": v.InventoryQuantity,
	}
	if v.Price != "" {
		fields["price"] = v.Price
	}
	if v.CompareAtPrice != nil && *v.CompareAtPrice != "" {
		fields["compare_at_price"] = *v.CompareAtPrice
	}
	if v.InventoryManagement != "" {
		fields["inventory_management"] = v.InventoryManagement
	}
	if v.InventoryPolicy != "" {
		fields["inventory_policy"] = v.InventoryPolicy
	}
	if v.Weight > 0 {
		fields["weight"] = v.Weight
	}
	if v.WeightUnit != "" {
		fields["weight_unit"] = v.WeightUnit
	}
	if v.Barcode != "" {
		fields["barcode"] = v.Barcode
	}
	if v.Option1 != "" {
		fields["option1"] = v.Option1
	}
	if v.Option2 != "" {
		fields["option2"] = v.Option2
	}
	if v.Option3 != "" {
		fields["option3"] = v.Option3
	}
	return fields
}

// metafieldValue renders a metafield value into the string form the
// metafieldsSet mutation takes.
func metafieldValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(raw)
}
