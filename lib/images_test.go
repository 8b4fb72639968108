package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeImageURL(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "plain url untouched",
			src:  "https://cdn.shopify.com/s/files/1/img.jpg",
			want: "https://cdn.shopify.com/s/files/1/img.jpg",
		},
		{
			name: "query string stripped",
			src:  "https://cdn.shopify.com/s/files/1/img.jpg?v=1712345678",
			want: "https://cdn.shopify.com/s/files/1/img.jpg",
		},
		{
			name: "sizing suffix stripped",
			src:  "https://cdn.shopify.com/s/files/1/img_800x600.jpg",
			want: "https://cdn.shopify.com/s/files/1/img.jpg",
		},
		{
			name: "query and sizing suffix together",
			src:  "https://cdn.shopify.com/s/files/1/img_100x100.png?v=2",
			want: "https://cdn.shopify.com/s/files/1/img.png",
		},
		{
			name: "dimensions inside the name are kept",
			src:  "https://cdn.shopify.com/s/files/1/poster_800x600_final.jpg",
			want: "https://cdn.shopify.com/s/files/1/poster_800x600_final.jpg",
		},
		{
			name: "empty input",
			src:  "",
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizeImageURL(tc.src))
		})
	}
}

func TestNormalizeImageURLIdempotent(t *testing.T) {
	srcs := []string{
		"https://cdn.shopify.com/s/files/1/img_800x600.jpg?v=1",
		"https://cdn.shopify.com/s/files/1/img.jpg",
		"https://cdn.other.com/a/b/c_50x50.webp",
	}
	for _, src := range srcs {
		once := NormalizeImageURL(src)
		assert.Equal(t, once, NormalizeImageURL(once))
	}
}

func TestNormalizeImageURLMatchesAcrossStores(t *testing.T) {
	// The same logical asset served by two stores with different CDN
	// decorations must reduce to the same key.
	a := NormalizeImageURL("https://cdn.shopify.com/s/files/1/widget_2048x2048.jpg?v=111")
	b := NormalizeImageURL("https://cdn.shopify.com/s/files/1/widget.jpg?v=999")
	assert.Equal(t, a, b)
}
