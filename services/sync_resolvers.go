package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolvers against the secondary store. The two stores share no
// primary keys, so everything is resolved by searching on handle or SKU.
// A zero id means "not found" and is never an error: absence routes the
// pipeline to the create path.

const productByHandleQuery = `
query productByHandle($handle: String!) {
	productByHandle(handle: $handle) { legacyResourceId }
}`

func (s *SyncService) productIDByHandle(ctx context.Context, handle string) (int64, error) {
	if handle == "" {
		return 0, nil
	}

	var resp struct {
		ProductByHandle *struct {
			LegacyResourceID string `json:"legacyResourceId"`
		} `json:"productByHandle"`
	}
	if err := s.secondary.GraphQL(ctx, productByHandleQuery, map[string]any{"handle": handle}, &resp); err != nil {
		return 0, fmt.Errorf("failed to look up product by handle %q: %w", handle, err)
	}
	if resp.ProductByHandle == nil {
		return 0, nil
	}
	return parseLegacyID(resp.ProductByHandle.LegacyResourceID), nil
}

const variantSearchQuery = `
query variantBySku($query: String!) {
	productVariants(first: 1, query: $query) {
		edges {
			node {
				legacyResourceId
				product { legacyResourceId }
				inventoryItem { legacyResourceId }
			}
		}
	}
}`

type variantSearchResponse struct {
	ProductVariants struct {
		Edges []struct {
			Node struct {
				LegacyResourceID string `json:"legacyResourceId"`
				Product          struct {
					LegacyResourceID string `json:"legacyResourceId"`
				} `json:"product"`
				InventoryItem struct {
					LegacyResourceID string `json:"legacyResourceId"`
				} `json:"inventoryItem"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"productVariants"`
}

func (s *SyncService) searchVariantBySKU(ctx context.Context, sku string) (*variantSearchResponse, error) {
	var resp variantSearchResponse
	err := s.secondary.GraphQL(ctx, variantSearchQuery, map[string]any{
		"query": skuSearchQuery(sku),
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to search variant by sku %q: %w", sku, err)
	}
	return &resp, nil
}

// productIDBySKU tries each SKU in order until one resolves; first hit wins.
func (s *SyncService) productIDBySKU(ctx context.Context, skus []string) (int64, error) {
	for _, sku := range skus {
		resp, err := s.searchVariantBySKU(ctx, sku)
		if err != nil {
			return 0, err
		}
		if len(resp.ProductVariants.Edges) > 0 {
			return parseLegacyID(resp.ProductVariants.Edges[0].Node.Product.LegacyResourceID), nil
		}
	}
	return 0, nil
}

func (s *SyncService) variantIDBySKU(ctx context.Context, sku string) (int64, error) {
	resp, err := s.searchVariantBySKU(ctx, sku)
	if err != nil {
		return 0, err
	}
	if len(resp.ProductVariants.Edges) == 0 {
		return 0, nil
	}
	return parseLegacyID(resp.ProductVariants.Edges[0].Node.LegacyResourceID), nil
}

func (s *SyncService) inventoryItemIDBySKU(ctx context.Context, sku string) (int64, error) {
	resp, err := s.searchVariantBySKU(ctx, sku)
	if err != nil {
		return 0, err
	}
	if len(resp.ProductVariants.Edges) == 0 {
		return 0, nil
	}
	return parseLegacyID(resp.ProductVariants.Edges[0].Node.InventoryItem.LegacyResourceID), nil
}

// resolveProductID applies the standing resolution order: handle first, any
// SKU as fallback. A SKU hit with a diverged handle still means "the same
// logical product" and is updated in place rather than duplicated.
func (s *SyncService) resolveProductID(ctx context.Context, handle string, skus []string) (int64, error) {
	id, err := s.productIDByHandle(ctx, handle)
	if err != nil {
		return 0, err
	}
	if id != 0 {
		return id, nil
	}
	return s.productIDBySKU(ctx, skus)
}

// skuSearchQuery quotes the SKU so spaces, colons and quotes inside it do
// not break the search syntax.
func skuSearchQuery(sku string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(sku)
	return fmt.Sprintf(`sku:"%s"`, escaped)
}

func parseLegacyID(s string) int64 {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
