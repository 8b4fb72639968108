package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *AdminClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	return New(&structs.StoreConfig{
		ShopDomain: srv.URL,
		AdminToken: "shpat_test",
		APIVersion: "2024-07",
	}, logger)
}

func TestNormalizeDomain(t *testing.T) {
	cases := []struct {
		in         string
		wantScheme string
		wantDomain string
	}{
		{"shop.myshopify.com", "https", "shop.myshopify.com"},
		{"https://shop.myshopify.com", "https", "shop.myshopify.com"},
		{"https://shop.myshopify.com/", "https", "shop.myshopify.com"},
		{" shop.myshopify.com ", "https", "shop.myshopify.com"},
		{"http://127.0.0.1:8083", "http", "127.0.0.1:8083"},
	}
	for _, tc := range cases {
		scheme, domain := normalizeDomain(tc.in)
		assert.Equal(t, tc.wantScheme, scheme, tc.in)
		assert.Equal(t, tc.wantDomain, domain, tc.in)
	}
}

func TestRESTSendsTokenAndDecodes(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "shpat_test", r.Header.Get("X-Shopify-Access-Token"))
		assert.Equal(t, "/admin/api/2024-07/products/42.json", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"product": map[string]any{"id": 42}})
	})

	var out struct {
		Product struct {
			ID int64 `json:"id"`
		} `json:"product"`
	}
	err := client.REST(context.Background(), http.MethodGet, "products/42.json", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, int64(42), out.Product.ID)
}

func TestRESTErrorStatus(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
	})

	err := client.REST(context.Background(), http.MethodGet, "products/42.json", nil, nil)
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestGraphQLDecodesData(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/admin/api/2024-07/graphql.json", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req["query"], "productByHandle")

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{
				"productByHandle": map[string]any{"legacyResourceId": "1001"},
			},
		})
	})

	var out struct {
		ProductByHandle struct {
			LegacyResourceID string `json:"legacyResourceId"`
		} `json:"productByHandle"`
	}
	err := client.GraphQL(context.Background(), `query { productByHandle(handle: "x") { legacyResourceId } }`, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "1001", out.ProductByHandle.LegacyResourceID)
}

func TestGraphQLErrorsArray(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]any{{"message": "Throttled"}},
		})
	})

	err := client.GraphQL(context.Background(), "query { shop { id } }", nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Throttled")
}

func TestCheckUserErrors(t *testing.T) {
	assert.NoError(t, CheckUserErrors("productDelete", nil))

	err := CheckUserErrors("productDelete", []UserError{
		{Field: []string{"id"}, Message: "Product does not exist"},
		{Message: "Something else"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "productDelete")
	assert.Contains(t, err.Error(), "Product does not exist")
	assert.Contains(t, err.Error(), "Something else")
}

func TestProductGID(t *testing.T) {
	assert.Equal(t, "gid://shopify/Product/1001", ProductGID(1001))
}
