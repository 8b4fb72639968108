package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"macarabia_sync/shopify"
	"macarabia_sync/structs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sourceServer(t *testing.T, product map[string]any) *shopify.AdminClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"product": product},
		})
	}))
	t.Cleanup(srv.Close)

	return shopify.New(&structs.StoreConfig{
		ShopDomain: srv.URL,
		AdminToken: "source-token",
		APIVersion: "2024-07",
	}, testLogger())
}

func TestFetchSourceDetails(t *testing.T) {
	source := sourceServer(t, map[string]any{
		"seo": map[string]any{"title": "Blue Widget | Acme", "description": "The best widget."},
		"category": map[string]any{
			"id":       "gid://shopify/TaxonomyCategory/el-1",
			"fullName": "Electronics > Widgets",
		},
		"variants": map[string]any{
			"edges": []map[string]any{
				{"node": map[string]any{
					"sku":           "BW-1",
					"image":         map[string]any{"url": "https://cdn.shopify.com/s/files/1/widget_400x400.jpg?v=3"},
					"inventoryItem": map[string]any{"unitCost": map[string]any{"amount": "8.40"}},
				}},
				{"node": map[string]any{
					// No SKU: unjoinable, dropped entirely.
					"sku":           "",
					"image":         map[string]any{"url": "https://cdn.shopify.com/s/files/1/stray.jpg"},
					"inventoryItem": map[string]any{"unitCost": map[string]any{"amount": "1.00"}},
				}},
				{"node": map[string]any{
					"sku":           "BW-2",
					"image":         nil,
					"inventoryItem": map[string]any{"unitCost": nil},
				}},
			},
		},
	})

	es := newEnrichmentServiceWithClient(testLogger(), source)
	enrichment, err := es.FetchSourceDetails(context.Background(), 632910392)
	require.NoError(t, err)
	require.NotNil(t, enrichment)

	assert.Equal(t, "Blue Widget | Acme", enrichment.SEOTitle)
	assert.Equal(t, "The best widget.", enrichment.SEODescription)
	assert.Equal(t, "gid://shopify/TaxonomyCategory/el-1", enrichment.CategoryID)
	assert.Equal(t, "Electronics > Widgets", enrichment.CategoryFullName)

	require.Len(t, enrichment.InventoryCosts, 1)
	assert.Equal(t, structs.InventoryCost{SKU: "BW-1", Cost: "8.40"}, enrichment.InventoryCosts[0])

	// Image URL is stored normalized: query and sizing suffix stripped.
	assert.Equal(t, map[string]string{
		"BW-1": "https://cdn.shopify.com/s/files/1/widget.jpg",
	}, enrichment.VariantImageMap)
}

func TestFetchSourceDetailsUnconfigured(t *testing.T) {
	es := newEnrichmentServiceWithClient(testLogger(), nil)

	enrichment, err := es.FetchSourceDetails(context.Background(), 632910392)
	assert.NoError(t, err)
	assert.Nil(t, enrichment)
}

func TestFetchSourceDetailsZeroProductID(t *testing.T) {
	source := sourceServer(t, map[string]any{})
	es := newEnrichmentServiceWithClient(testLogger(), source)

	enrichment, err := es.FetchSourceDetails(context.Background(), 0)
	assert.NoError(t, err)
	assert.Nil(t, enrichment)
}

func TestFetchSourceDetailsNotFound(t *testing.T) {
	es := newEnrichmentServiceWithClient(testLogger(), sourceServer(t, nil))

	enrichment, err := es.FetchSourceDetails(context.Background(), 632910392)
	assert.NoError(t, err)
	assert.Nil(t, enrichment)
}
