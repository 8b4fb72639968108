package handling

import (
	"macarabia_sync/services"
	"net/http"
	"strconv"
)

// ParseListEventsOptions parses HTTP query parameters into ListEventsOptions
func ParseListEventsOptions(r *http.Request) (*services.ListEventsOptions, error) {
	query := r.URL.Query()

	// Early return if no query params
	if len(query) == 0 {
		return &services.ListEventsOptions{}, nil
	}

	opts := &services.ListEventsOptions{}

	if limit := query.Get("limit"); limit != "" {
		valInt, err := strconv.Atoi(limit)
		if err != nil {
			return nil, err
		}
		opts.Limit = valInt
	}

	if productID := query.Get("product_id"); productID != "" {
		val64, err := strconv.ParseInt(productID, 10, 64)
		if err != nil {
			return nil, err
		}
		opts.ProductID = val64
	}

	opts.Topic = query.Get("topic")
	opts.Outcome = query.Get("outcome")

	return opts, nil
}
