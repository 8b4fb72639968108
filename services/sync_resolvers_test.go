package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSkuSearchQuery(t *testing.T) {
	cases := []struct {
		sku  string
		want string
	}{
		{"BW-1", `sku:"BW-1"`},
		{"BW 1", `sku:"BW 1"`},
		{"BW:1", `sku:"BW:1"`},
		{`BW"1`, `sku:"BW\"1"`},
		{`BW\1`, `sku:"BW\\1"`},
		{"", `sku:""`},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, skuSearchQuery(c.sku), "sku %q", c.sku)
	}
}
