package webhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"macarabia_sync/lib"
	"macarabia_sync/metrics"
	"macarabia_sync/structs"

	"github.com/MonkyMars/gecho"
)

const (
	headerHmac       = "X-Shopify-Hmac-Sha256"
	headerTopic      = "X-Shopify-Topic"
	headerShopDomain = "X-Shopify-Shop-Domain"

	topicProductsCreate = "products/create"
	topicProductsUpdate = "products/update"
	topicProductsDelete = "products/delete"
)

// GetUsage answers manual browser visits to the webhook URL. Shopify only ever POSTs.
func (wrm *WebhookRoutesManager) GetUsage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("Shopify product webhook endpoint. POST deliveries here with a valid X-Shopify-Hmac-Sha256 header."))
}

// HandleProductWebhook processes a products/create, products/update or
// products/delete delivery. The search index write is the only operation
// that can fail the delivery; the secondary-store sync runs after it and
// reports failure through logs and the sync event log so Shopify does not
// redeliver over a partial reconciliation.
func (wrm *WebhookRoutesManager) HandleProductWebhook(w http.ResponseWriter, r *http.Request) {
	topic := r.Header.Get(headerTopic)
	shopDomain := r.Header.Get(headerShopDomain)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		wrm.logger.Error("Failed to read webhook body", gecho.Field("error", err))
		metrics.WebhookEvents.WithLabelValues(topic, "bad_request").Inc()
		http.Error(w, "could not read body", http.StatusBadRequest)
		return
	}

	if !wrm.verifySignature(body, r.Header.Get(headerHmac), topic) {
		metrics.WebhookEvents.WithLabelValues(topic, "unauthorized").Inc()
		http.Error(w, "invalid webhook signature", http.StatusUnauthorized)
		return
	}

	var product structs.Product
	if err := json.Unmarshal(body, &product); err != nil {
		wrm.logger.Error("Failed to parse webhook payload",
			gecho.Field("topic", topic),
			gecho.Field("error", err),
		)
		metrics.WebhookEvents.WithLabelValues(topic, "bad_request").Inc()
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return
	}

	wrm.logger.Info("Webhook received",
		gecho.Field("topic", topic),
		gecho.Field("product_id", product.ID),
		gecho.Field("handle", product.Handle),
		gecho.Field("shop_domain", shopDomain),
	)

	switch topic {
	case topicProductsCreate, topicProductsUpdate:
		wrm.handleUpsert(w, r, topic, shopDomain, &product)
	case topicProductsDelete:
		wrm.handleDelete(w, r, topic, shopDomain, &product)
	default:
		wrm.logger.Info("Ignoring unhandled webhook topic", gecho.Field("topic", topic))
		metrics.WebhookEvents.WithLabelValues(topic, "ignored").Inc()
		wrm.respondOK(w)
	}
}

// verifySignature enforces the HMAC check. A missing secret or missing
// header is only tolerated in insecure mode; otherwise the delivery is
// rejected rather than processed unauthenticated.
func (wrm *WebhookRoutesManager) verifySignature(body []byte, signature, topic string) bool {
	secret := wrm.config.Webhook.Secret

	if secret == "" || signature == "" {
		if wrm.config.Webhook.InsecureMode {
			wrm.logger.Warn("Accepting unsigned webhook delivery, insecure mode is enabled",
				gecho.Field("topic", topic),
				gecho.Field("has_secret", secret != ""),
				gecho.Field("has_signature", signature != ""),
			)
			return true
		}
		wrm.logger.Warn("Rejecting webhook delivery without signature material",
			gecho.Field("topic", topic),
			gecho.Field("has_secret", secret != ""),
			gecho.Field("has_signature", signature != ""),
		)
		return false
	}

	if !lib.VerifyWebhookSignature(body, signature, secret) {
		wrm.logger.Warn("Webhook signature mismatch", gecho.Field("topic", topic))
		return false
	}
	return true
}

func (wrm *WebhookRoutesManager) handleUpsert(w http.ResponseWriter, r *http.Request, topic, shopDomain string, product *structs.Product) {
	doc, err := wrm.searchService.UpsertProduct(r.Context(), product)
	if err != nil {
		wrm.logger.Error("Search index upsert failed",
			gecho.Field("product_id", product.ID),
			gecho.Field("error", err),
		)
		metrics.WebhookEvents.WithLabelValues(topic, "index_error").Inc()
		http.Error(w, "search index update failed", http.StatusInternalServerError)
		return
	}
	wrm.logger.Info("Search document upserted",
		gecho.Field("id", doc.ID),
		gecho.Field("handle", doc.Handle),
	)

	report := wrm.syncService.SyncProduct(r.Context(), topic, product)
	wrm.recordEvent(r, shopDomain, report)

	metrics.WebhookEvents.WithLabelValues(topic, "ok").Inc()
	wrm.respondOK(w)
}

func (wrm *WebhookRoutesManager) handleDelete(w http.ResponseWriter, r *http.Request, topic, shopDomain string, product *structs.Product) {
	if err := wrm.searchService.DeleteProduct(r.Context(), product.GID()); err != nil {
		wrm.logger.Error("Search index delete failed",
			gecho.Field("product_id", product.ID),
			gecho.Field("error", err),
		)
		metrics.WebhookEvents.WithLabelValues(topic, "index_error").Inc()
		http.Error(w, "search index delete failed", http.StatusInternalServerError)
		return
	}

	report := wrm.syncService.DeleteProduct(r.Context(), product)
	wrm.recordEvent(r, shopDomain, report)

	metrics.WebhookEvents.WithLabelValues(topic, "ok").Inc()
	wrm.respondOK(w)
}

// recordEvent persists the reconciliation report. Persistence failure is a
// log line, never a delivery failure.
func (wrm *WebhookRoutesManager) recordEvent(r *http.Request, shopDomain string, report *structs.SyncReport) {
	if failed := report.Failed(); len(failed) > 0 {
		wrm.logger.Warn("Sync completed with failed steps",
			gecho.Field("topic", report.Topic),
			gecho.Field("product_id", report.ProductID),
			gecho.Field("outcome", string(report.Outcome())),
			gecho.Field("failed_steps", len(failed)),
		)
	}

	if err := wrm.syncLogService.RecordEvent(r.Context(), shopDomain, report); err != nil {
		wrm.logger.Warn("Failed to persist sync event",
			gecho.Field("product_id", report.ProductID),
			gecho.Field("error", err),
		)
	}
}

func (wrm *WebhookRoutesManager) respondOK(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
