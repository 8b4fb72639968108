package lib

import (
	"macarabia_sync/structs"
	"math"
	"strconv"
)

// MapSearchDocument flattens a webhook product payload into the search index
// document. Pure and total: every field has a safe default, the same payload
// always yields the same document, and the document id is deterministic from
// the product id so repeated upserts overwrite instead of duplicating.
func MapSearchDocument(p *structs.Product) structs.SearchDocument {
	doc := structs.SearchDocument{
		ID:          p.GID(),
		Title:       p.Title,
		Handle:      p.Handle,
		Description: p.BodyHTML,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        []string{},
		SKU:         p.SKUs(),
		Price:       minVariantPrice(p.Variants),
		// Derived from status alone, not stock levels: an active but
		// out-of-stock product stays searchable.
		Available: p.Status == structs.StatusActive,
		Status:    string(p.Status),
		URL:       "/products/" + p.Handle,
	}

	if len(p.Tags) > 0 {
		doc.Tags = append(doc.Tags, p.Tags...)
	}

	if len(p.Images) > 0 {
		doc.Image = p.Images[0].Src
	}

	return doc
}

// minVariantPrice returns the minimum valid variant price, skipping entries
// that are empty, non-numeric, NaN or negative. 0 when nothing qualifies.
func minVariantPrice(variants []structs.Variant) float64 {
	minimum := math.Inf(1)
	for _, v := range variants {
		price, err := strconv.ParseFloat(v.Price, 64)
		if err != nil || math.IsNaN(price) || price < 0 {
			continue
		}
		if price < minimum {
			minimum = price
		}
	}

	if math.IsInf(minimum, 1) {
		return 0
	}
	return minimum
}
