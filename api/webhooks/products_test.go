package webhooks

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"macarabia_sync/lib"
	"macarabia_sync/services"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "shpss_webhook_secret"

// testHarness wires a manager against a fake search backend. The secondary
// store is left unconfigured so the sync pipeline reports skipped.
type testHarness struct {
	manager     *WebhookRoutesManager
	searchCalls *atomic.Int64
}

func newTestHarness(t *testing.T, searchStatus int) *testHarness {
	t.Helper()
	return newTestHarnessWithSecondary(t, searchStatus, &structs.StoreConfig{})
}

func newTestHarnessWithSecondary(t *testing.T, searchStatus int, secondary *structs.StoreConfig) *testHarness {
	t.Helper()

	var calls atomic.Int64
	searchSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		if searchStatus >= 400 {
			w.WriteHeader(searchStatus)
			w.Write([]byte(`{"message":"injected search failure"}`))
			return
		}
		if r.Method == http.MethodPost {
			// Typesense answers document index/upsert with 201 Created.
			w.WriteHeader(http.StatusCreated)
		}
		w.Write([]byte(`{"id":"gid://shopify/Product/632910392"}`))
	}))
	t.Cleanup(searchSrv.Close)

	searchURL, err := url.Parse(searchSrv.URL)
	require.NoError(t, err)
	searchPort, err := strconv.Atoi(searchURL.Port())
	require.NoError(t, err)

	cfg := &structs.Config{
		Typesense: &structs.TypesenseConfig{
			Host:       searchURL.Hostname(),
			Port:       searchPort,
			Protocol:   "http",
			APIKey:     "test-key",
			Collection: "products",
			Timeout:    5 * time.Second,
		},
		Webhook:   &structs.WebhookConfig{Secret: testSecret},
		Secondary: secondary,
		Source:    &structs.StoreConfig{},
		Cache:     &structs.CacheConfig{Address: "127.0.0.1:0"},
	}

	logger := gecho.NewLogger(gecho.NewConfig(gecho.WithLogLevel(gecho.ParseLogLevel("error"))))
	searchService := services.NewSearchService(logger, cfg)
	cacheService := services.NewCacheService(logger, cfg)
	enrichmentService := services.NewEnrichmentService(logger, cfg)
	syncService := services.NewSyncService(logger, cfg, enrichmentService, cacheService)
	syncLogService := services.NewSyncLogService(logger, nil)

	return &testHarness{
		manager:     NewWebhookRoutesManager(logger, cfg, searchService, syncService, syncLogService),
		searchCalls: &calls,
	}
}

func productBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":     632910392,
		"title":  "Blue Widget",
		"handle": "blue-widget",
		"status": "active",
		"tags":   "widgets",
		"variants": []map[string]any{
			{"sku": "BW-1", "price": "19.99"},
		},
	})
	require.NoError(t, err)
	return body
}

func deliver(h *testHarness, body []byte, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/typesense-products", bytes.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.manager.HandleProductWebhook(rec, req)
	return rec
}

func TestGetUsage(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)

	req := httptest.NewRequest(http.MethodGet, "/webhooks/typesense-products", nil)
	rec := httptest.NewRecorder()
	h.manager.GetUsage(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookValidUpsert(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:       lib.SignWebhookBody(body, testSecret),
		headerTopic:      "products/update",
		headerShopDomain: "primary.myshopify.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, int64(1), h.searchCalls.Load())
}

func TestWebhookInvalidSignature(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody([]byte("other body"), testSecret),
		headerTopic: "products/update",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, h.searchCalls.Load())
}

func TestWebhookMissingSignatureFailsClosed(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)

	rec := deliver(h, productBody(t), map[string]string{
		headerTopic: "products/update",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, h.searchCalls.Load())
}

func TestWebhookInsecureModeAllowsUnsigned(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	h.manager.config.Webhook.Secret = ""
	h.manager.config.Webhook.InsecureMode = true

	rec := deliver(h, productBody(t), map[string]string{
		headerTopic: "products/update",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), h.searchCalls.Load())
}

func TestWebhookInsecureModeStillChecksPresentSignature(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	h.manager.config.Webhook.InsecureMode = true
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody([]byte("tampered"), testSecret),
		headerTopic: "products/update",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestWebhookMalformedJSON(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	body := []byte(`{"id": `)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody(body, testSecret),
		headerTopic: "products/update",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, h.searchCalls.Load())
}

func TestWebhookUnhandledTopic(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody(body, testSecret),
		headerTopic: "orders/create",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, h.searchCalls.Load())
}

func TestWebhookSearchFailureIs500(t *testing.T) {
	h := newTestHarness(t, http.StatusServiceUnavailable)
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody(body, testSecret),
		headerTopic: "products/create",
	})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWebhookSecondaryStoreFailureStays200(t *testing.T) {
	// A configured secondary store that refuses connections. The sync
	// pipeline fails outright but never taints the delivery response.
	h := newTestHarnessWithSecondary(t, http.StatusOK, &structs.StoreConfig{
		ShopDomain: "http://127.0.0.1:1",
		AdminToken: "shpat_dead",
		APIVersion: "2024-10",
	})
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:       lib.SignWebhookBody(body, testSecret),
		headerTopic:      "products/update",
		headerShopDomain: "primary.myshopify.com",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.Equal(t, int64(1), h.searchCalls.Load())
}

func TestWebhookDelete(t *testing.T) {
	h := newTestHarness(t, http.StatusOK)
	body := productBody(t)

	rec := deliver(h, body, map[string]string{
		headerHmac:  lib.SignWebhookBody(body, testSecret),
		headerTopic: "products/delete",
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), h.searchCalls.Load())
}
