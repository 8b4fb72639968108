package structs

// SearchDocument is the flattened projection of a product that the storefront
// search runs on. It is disposable: every create/update webhook rebuilds and
// overwrites the document under the same id, delete webhooks remove it.
type SearchDocument struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Handle      string   `json:"handle"`
	Description string   `json:"description"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"product_type"`
	Tags        []string `json:"tags"`
	SKU         []string `json:"sku"`
	Price       float64  `json:"price"`
	Available   bool     `json:"available"`
	Status      string   `json:"status"`
	Image       string   `json:"image"`
	URL         string   `json:"url"`
}
