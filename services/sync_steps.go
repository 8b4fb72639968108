package services

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"macarabia_sync/lib"
	"macarabia_sync/shopify"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

// Sub-steps of the reconciliation pipeline. Each one recovers its own
// failures per identifying key (SKU, src, publication id) so a single bad
// record never blocks its siblings.

// syncVariants upserts every variant by SKU: update when the SKU already
// exists anywhere in the secondary store, create under this product when not.
func (s *SyncService) syncVariants(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	for _, variant := range payload.variants {
		sku, _ := variant["sku"].(string)
		if sku == "" {
			continue
		}

		variantID, err := s.variantIDBySKU(ctx, sku)
		if err != nil {
			s.record(report, "variant", sku, err)
			continue
		}

		if variantID != 0 {
			variant["id"] = variantID
			err = s.secondary.REST(ctx, http.MethodPut, fmt.Sprintf("variants/%d.json", variantID), map[string]any{"variant": variant}, nil)
		} else {
			err = s.secondary.REST(ctx, http.MethodPost, fmt.Sprintf("products/%d/variants.json", productID), map[string]any{"variant": variant}, nil)
		}
		s.record(report, "variant", sku, err)
	}
}

type restImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
}

func (s *SyncService) fetchImages(ctx context.Context, productID int64) ([]restImage, error) {
	var resp struct {
		Images []restImage `json:"images"`
	}
	if err := s.secondary.REST(ctx, http.MethodGet, fmt.Sprintf("products/%d/images.json", productID), nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch product images: %w", err)
	}
	return resp.Images, nil
}

// syncImages uploads webhook images whose normalized src is not already on
// the secondary product. Normalization is what stops repeated syncs from
// stacking duplicate CDN copies of the same asset.
func (s *SyncService) syncImages(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	if len(payload.images) == 0 {
		return
	}

	existing, err := s.fetchImages(ctx, productID)
	if err != nil {
		s.record(report, "images", report.Handle, err)
		return
	}

	seen := make(map[string]bool, len(existing))
	for _, img := range existing {
		seen[lib.NormalizeImageURL(img.Src)] = true
	}

	for _, image := range payload.images {
		src, _ := image["src"].(string)
		key := lib.NormalizeImageURL(src)
		if seen[key] {
			continue
		}

		err := s.secondary.REST(ctx, http.MethodPost, fmt.Sprintf("products/%d/images.json", productID), map[string]any{"image": image}, nil)
		s.record(report, "image", src, err)
		if err == nil {
			seen[key] = true
		}
	}
}

// syncVariantImages points each variant at its image by matching normalized
// srcs against the secondary product's image list.
func (s *SyncService) syncVariantImages(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	if len(payload.variantImages) == 0 {
		return
	}

	// Re-fetch so images uploaded earlier in this run are matchable.
	existing, err := s.fetchImages(ctx, productID)
	if err != nil {
		s.record(report, "variant_images", report.Handle, err)
		return
	}

	imageIDBySrc := make(map[string]int64, len(existing))
	for _, img := range existing {
		imageIDBySrc[lib.NormalizeImageURL(img.Src)] = img.ID
	}

	for _, link := range payload.variantImages {
		imageID, ok := imageIDBySrc[link.src]
		if !ok {
			s.logger.Debug("No secondary image matches variant image, skipping link",
				gecho.Field("sku", link.sku),
				gecho.Field("src", link.src),
			)
			continue
		}

		variantID, err := s.variantIDBySKU(ctx, link.sku)
		if err != nil {
			s.record(report, "variant_image", link.sku, err)
			continue
		}
		if variantID == 0 {
			continue
		}

		err = s.secondary.REST(ctx, http.MethodPut, fmt.Sprintf("variants/%d.json", variantID), map[string]any{
			"variant": map[string]any{"id": variantID, "image_id": imageID},
		}, nil)
		s.record(report, "variant_image", link.sku, err)
	}
}

// removeDefaultVariant deletes the platform's auto-created "Default Title"
// scaffold variant once the product carries real variants.
func (s *SyncService) removeDefaultVariant(ctx context.Context, productID int64, report *structs.SyncReport) {
	var resp struct {
		Variants []struct {
			ID    int64  `json:"id"`
			Title string `json:"title"`
		} `json:"variants"`
	}
	if err := s.secondary.REST(ctx, http.MethodGet, fmt.Sprintf("products/%d/variants.json", productID), nil, &resp); err != nil {
		s.record(report, "default_variant_cleanup", report.Handle, err)
		return
	}
	if len(resp.Variants) <= 1 {
		return
	}

	for _, variant := range resp.Variants {
		if variant.Title != "Default Title" {
			continue
		}
		err := s.secondary.REST(ctx, http.MethodDelete, fmt.Sprintf("products/%d/variants/%d.json", productID, variant.ID), nil, nil)
		s.record(report, "default_variant_cleanup", strconv.FormatInt(variant.ID, 10), err)
		return
	}
}

const metafieldsSetMutation = `
mutation metafieldsSet($metafields: [MetafieldsSetInput!]!) {
	metafieldsSet(metafields: $metafields) {
		metafields { id }
		userErrors { field message }
	}
}`

// syncMetafields pushes all well-typed metafields in one batched call.
func (s *SyncService) syncMetafields(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	if len(payload.metafields) == 0 {
		return
	}

	ownerID := shopify.ProductGID(productID)
	inputs := make([]map[string]any, 0, len(payload.metafields))
	for _, m := range payload.metafields {
		inputs = append(inputs, map[string]any{
			"ownerId":   ownerID,
			"namespace": m.Namespace,
			"key":       m.Key,
			"type":      m.Type,
			"value":     metafieldValue(m.Value),
		})
	}

	var resp struct {
		MetafieldsSet struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"metafieldsSet"`
	}
	err := s.secondary.GraphQL(ctx, metafieldsSetMutation, map[string]any{"metafields": inputs}, &resp)
	if err == nil {
		err = shopify.CheckUserErrors("metafieldsSet", resp.MetafieldsSet.UserErrors)
	}
	s.record(report, "metafields", report.Handle, err)
}

const productCategoryMutation = `
mutation productUpdate($input: ProductInput!) {
	productUpdate(input: $input) {
		product { id }
		userErrors { field message }
	}
}`

// syncCategory applies the taxonomy category resolved by enrichment. With no
// category id the product_type string set with the base fields is all we
// have, so there is nothing further to do.
func (s *SyncService) syncCategory(ctx context.Context, productID int64, payload *writePayload, report *structs.SyncReport) {
	if payload.categoryID == "" {
		return
	}

	var resp struct {
		ProductUpdate struct {
			UserErrors []shopify.UserError `json:"userErrors"`
		} `json:"productUpdate"`
	}
	err := s.secondary.GraphQL(ctx, productCategoryMutation, map[string]any{
		"input": map[string]any{
			"id":       shopify.ProductGID(productID),
			"category": payload.categoryID,
		},
	}, &resp)
	if err == nil {
		err = shopify.CheckUserErrors("productUpdate", resp.ProductUpdate.UserErrors)
	}
	s.record(report, "category", payload.categoryID, err)
}

// syncInventoryCosts writes per-SKU unit cost onto the inventory items.
func (s *SyncService) syncInventoryCosts(ctx context.Context, payload *writePayload, report *structs.SyncReport) {
	for _, cost := range payload.costs {
		itemID, err := s.inventoryItemIDBySKU(ctx, cost.SKU)
		if err != nil {
			s.record(report, "inventory_cost", cost.SKU, err)
			continue
		}
		if itemID == 0 {
			s.logger.Debug("No inventory item for SKU, skipping cost", gecho.Field("sku", cost.SKU))
			continue
		}

		err = s.secondary.REST(ctx, http.MethodPut, fmt.Sprintf("inventory_items/%d.json", itemID), map[string]any{
			"inventory_item": map[string]any{"id": itemID, "cost": cost.Cost},
		}, nil)
		s.record(report, "inventory_cost", cost.SKU, err)
	}
}

// locationID resolves the secondary store's location, cached process-wide:
// stores rarely gain locations and the admin API rate-limits.
func (s *SyncService) locationID(ctx context.Context) (int64, error) {
	if id, ok := s.cache.GetLocationID(ctx); ok {
		return id, nil
	}

	var resp struct {
		Locations []struct {
			ID int64 `json:"id"`
		} `json:"locations"`
	}
	if err := s.secondary.REST(ctx, http.MethodGet, "locations.json", nil, &resp); err != nil {
		return 0, fmt.Errorf("failed to fetch locations: %w", err)
	}
	if len(resp.Locations) == 0 {
		return 0, fmt.Errorf("secondary store has no locations")
	}

	id := resp.Locations[0].ID
	s.cache.SetLocationID(ctx, id)
	return id, nil
}

// syncInventoryQuantities sets absolute stock levels per SKU at the resolved
// location. Absolute "set" rather than adjust keeps redeliveries idempotent.
func (s *SyncService) syncInventoryQuantities(ctx context.Context, payload *writePayload, report *structs.SyncReport) {
	if len(payload.quantities) == 0 {
		return
	}

	locationID, err := s.locationID(ctx)
	if err != nil {
		s.record(report, "inventory_quantity", "location", err)
		return
	}

	for _, line := range payload.quantities {
		itemID, err := s.inventoryItemIDBySKU(ctx, line.sku)
		if err != nil {
			s.record(report, "inventory_quantity", line.sku, err)
			continue
		}
		if itemID == 0 {
			s.logger.Debug("No inventory item for SKU, skipping quantity", gecho.Field("sku", line.sku))
			continue
		}

		err = s.secondary.REST(ctx, http.MethodPost, "inventory_levels/set.json", map[string]any{
			"location_id":       locationID,
			"inventory_item_id": itemID,
			"available":         line.quantity,
		}, nil)
		s.record(report, "inventory_quantity", line.sku, err)
	}
}

const publicationsQuery = `
query publications {
	publications(first: 50) {
		edges { node { id } }
	}
}`

// publicationIDs lists every sales channel, cached process-wide.
func (s *SyncService) publicationIDs(ctx context.Context) ([]string, error) {
	if ids, ok := s.cache.GetPublicationIDs(ctx); ok {
		return ids, nil
	}

	var resp struct {
		Publications struct {
			Edges []struct {
				Node struct {
					ID string `json:"id"`
				} `json:"node"`
			} `json:"edges"`
		} `json:"publications"`
	}
	if err := s.secondary.GraphQL(ctx, publicationsQuery, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch publications: %w", err)
	}

	ids := make([]string, 0, len(resp.Publications.Edges))
	for _, edge := range resp.Publications.Edges {
		ids = append(ids, edge.Node.ID)
	}
	if len(ids) > 0 {
		s.cache.SetPublicationIDs(ctx, ids)
	}
	return ids, nil
}

const publishableMutation = `
mutation publishablePublish($id: ID!, $input: [PublicationInput!]!) {
	publishablePublish(id: $id, input: $input) {
		userErrors { field message }
	}
}`

// publishProduct puts a newly created product on every sales channel.
func (s *SyncService) publishProduct(ctx context.Context, productID int64, report *structs.SyncReport) {
	ids, err := s.publicationIDs(ctx)
	if err != nil {
		s.record(report, "publish", report.Handle, err)
		return
	}

	gid := shopify.ProductGID(productID)
	for _, publicationID := range ids {
		var resp struct {
			PublishablePublish struct {
				UserErrors []shopify.UserError `json:"userErrors"`
			} `json:"publishablePublish"`
		}
		err := s.secondary.GraphQL(ctx, publishableMutation, map[string]any{
			"id":    gid,
			"input": []map[string]any{{"publicationId": publicationID}},
		}, &resp)
		if err == nil {
			err = shopify.CheckUserErrors("publishablePublish", resp.PublishablePublish.UserErrors)
		}
		s.record(report, "publish", publicationID, err)
	}
}
