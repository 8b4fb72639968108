package structs

// SourceEnrichment is a read-only snapshot of fields the webhook payload
// omits, fetched from the source store per sync attempt. It is never
// persisted; a nil enrichment means the pipeline runs on webhook data alone.
type SourceEnrichment struct {
	SEOTitle         string
	SEODescription   string
	CategoryID       string
	CategoryFullName string
	InventoryCosts   []InventoryCost
	// VariantImageMap maps a variant SKU to its normalized image URL so the
	// same asset can be matched against the secondary store's CDN copies.
	VariantImageMap map[string]string
}

type InventoryCost struct {
	SKU  string
	Cost string
}
