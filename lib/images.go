package lib

import (
	"regexp"
	"strings"
)

// Shopify CDNs append generated sizing suffixes (img_800x600.jpg) to the
// same logical asset, so two stores rarely serve byte-identical URLs.
var sizingSuffix = regexp.MustCompile(`_\d+x\d+(\.[A-Za-z0-9]+)$`)

// NormalizeImageURL reduces an image URL to a canonical key: query string
// stripped, trailing _{width}x{height} sizing suffix removed. Two CDN copies
// of the same asset normalize to the same string, which is what image
// deduplication and variant-image matching key on.
func NormalizeImageURL(src string) string {
	if src == "" {
		return ""
	}

	if idx := strings.Index(src, "?"); idx >= 0 {
		src = src[:idx]
	}

	return sizingSuffix.ReplaceAllString(src, "$1")
}
