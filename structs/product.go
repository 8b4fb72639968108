package structs

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ProductStatus mirrors the status field on a Shopify product payload
type ProductStatus string

const (
	StatusActive   ProductStatus = "active"
	StatusDraft    ProductStatus = "draft"
	StatusArchived ProductStatus = "archived"
)

// Product is the raw product representation delivered by a Shopify webhook.
// Numeric IDs are tenant-local; handle and variant SKUs are the only keys
// that carry across stores.
type Product struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	BodyHTML    string          `json:"body_html"`
	Vendor      string          `json:"vendor"`
	ProductType string          `json:"product_type"`
	Handle      string          `json:"handle"`
	Status      ProductStatus   `json:"status"`
	Tags        TagList         `json:"tags"`
	Options     []ProductOption `json:"options"`
	Images      []ProductImage  `json:"images"`
	Variants    []Variant       `json:"variants"`
	Metafields  []Metafield     `json:"metafields"`
	SEO         *SEO            `json:"seo"`
}

// GID returns the platform global id used as the search index primary key.
func (p *Product) GID() string {
	return fmt.Sprintf("gid://shopify/Product/%d", p.ID)
}

// SKUs returns every non-empty variant SKU in payload order.
func (p *Product) SKUs() []string {
	skus := make([]string, 0, len(p.Variants))
	for _, v := range p.Variants {
		if strings.TrimSpace(v.SKU) != "" {
			skus = append(skus, v.SKU)
		}
	}
	return skus
}

type ProductOption struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type ProductImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt"`
}

// Variant is a purchasable unit of a product. SKU is the cross-store join
// key, image_id points into the parent product's image list.
type Variant struct {
	ID                  int64   `json:"id"`
	Title               string  `json:"title"`
	SKU                 string  `json:"sku"`
	Price               string  `json:"price"`
	CompareAtPrice      *string `json:"compare_at_price"`
	InventoryManagement string  `json:"inventory_management"`
	InventoryPolicy     string  `json:"inventory_policy"`
	InventoryQuantity   int     `json:"inventory_quantity"`
	Weight              float64 `json:"weight"`
	WeightUnit          string  `json:"weight_unit"`
	Barcode             string  `json:"barcode"`
	Option1             string  `json:"option1"`
	Option2             string  `json:"option2"`
	Option3             string  `json:"option3"`
	ImageID             *int64  `json:"image_id"`
	// Cost is not part of the standard webhook payload; it is present only
	// when the sender embeds it, otherwise it comes from source enrichment.
	Cost string `json:"cost,omitempty"`
}

// Metafield entries are forwarded to the secondary catalog as-is. Entries
// with a missing namespace/key/type or a null value are dropped before sync.
type Metafield struct {
	Namespace string `json:"namespace"`
	Key       string `json:"key"`
	Type      string `json:"type"`
	Value     any    `json:"value"`
}

func (m Metafield) Valid() bool {
	return m.Namespace != "" && m.Key != "" && m.Type != "" && m.Value != nil
}

type SEO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TagList accepts both tag representations Shopify uses: a comma-joined
// string on REST payloads and a plain array on GraphQL-shaped ones.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var joined string
	if err := json.Unmarshal(data, &joined); err == nil {
		*t = splitTags(joined)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("tags must be a string or an array of strings: %w", err)
	}

	out := make(TagList, 0, len(list))
	for _, tag := range list {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	*t = out
	return nil
}

func splitTags(joined string) TagList {
	if strings.TrimSpace(joined) == "" {
		return TagList{}
	}

	parts := strings.Split(joined, ",")
	out := make(TagList, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// String renders the list back into Shopify's comma-joined REST format.
func (t TagList) String() string {
	return strings.Join(t, ", ")
}
