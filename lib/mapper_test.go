package lib

import (
	"testing"

	"macarabia_sync/structs"

	"github.com/stretchr/testify/assert"
)

func sampleProduct() *structs.Product {
	return &structs.Product{
		ID:          632910392,
		Title:       "IPod Nano - 8GB",
		BodyHTML:    "<p>It's the small iPod with one very big idea.</p>",
		Vendor:      "Apple",
		ProductType: "Cult Products",
		Handle:      "ipod-nano",
		Status:      structs.StatusActive,
		Tags:        structs.TagList{"Emotive", "Flash Memory"},
		Images: []structs.ProductImage{
			{ID: 850703190, Src: "https://cdn.shopify.com/s/files/1/ipod-nano.png"},
			{ID: 562641783, Src: "https://cdn.shopify.com/s/files/1/ipod-nano-2.png"},
		},
		Variants: []structs.Variant{
			{ID: 808950810, SKU: "IPOD2008PINK", Price: "199.00"},
			{ID: 49148385, SKU: "IPOD2008RED", Price: "149.00"},
		},
	}
}

func TestMapSearchDocument(t *testing.T) {
	doc := MapSearchDocument(sampleProduct())

	assert.Equal(t, "gid://shopify/Product/632910392", doc.ID)
	assert.Equal(t, "IPod Nano - 8GB", doc.Title)
	assert.Equal(t, "ipod-nano", doc.Handle)
	assert.Equal(t, "Apple", doc.Vendor)
	assert.Equal(t, []string{"Emotive", "Flash Memory"}, doc.Tags)
	assert.Equal(t, []string{"IPOD2008PINK", "IPOD2008RED"}, doc.SKU)
	assert.Equal(t, 149.00, doc.Price)
	assert.True(t, doc.Available)
	assert.Equal(t, "active", doc.Status)
	assert.Equal(t, "https://cdn.shopify.com/s/files/1/ipod-nano.png", doc.Image)
	assert.Equal(t, "/products/ipod-nano", doc.URL)
}

func TestMapSearchDocumentDeterministic(t *testing.T) {
	p := sampleProduct()
	assert.Equal(t, MapSearchDocument(p), MapSearchDocument(p))
}

func TestMapSearchDocumentAvailability(t *testing.T) {
	p := sampleProduct()

	for _, status := range []structs.ProductStatus{structs.StatusDraft, structs.StatusArchived} {
		p.Status = status
		doc := MapSearchDocument(p)
		assert.False(t, doc.Available, "status %s should not be available", status)
	}

	// Availability comes from status, not stock.
	p.Status = structs.StatusActive
	p.Variants[0].InventoryQuantity = 0
	p.Variants[1].InventoryQuantity = 0
	assert.True(t, MapSearchDocument(p).Available)
}

func TestMapSearchDocumentPriceSkipsInvalid(t *testing.T) {
	p := sampleProduct()
	p.Variants = []structs.Variant{
		{SKU: "A", Price: "10.00"},
		{SKU: "B", Price: "7.50"},
		{SKU: "C", Price: "abc"},
		{SKU: "D", Price: "-3"},
		{SKU: "E", Price: ""},
	}
	assert.Equal(t, 7.50, MapSearchDocument(p).Price)
}

func TestMapSearchDocumentDefaults(t *testing.T) {
	doc := MapSearchDocument(&structs.Product{ID: 1, Handle: "bare"})

	assert.Equal(t, "gid://shopify/Product/1", doc.ID)
	assert.NotNil(t, doc.Tags)
	assert.Empty(t, doc.Tags)
	assert.Empty(t, doc.SKU)
	assert.Zero(t, doc.Price)
	assert.False(t, doc.Available)
	assert.Empty(t, doc.Image)
	assert.Equal(t, "/products/bare", doc.URL)
}
