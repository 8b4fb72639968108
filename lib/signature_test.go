package lib

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "shpss_test_secret"
	body := []byte(`{"id":123,"handle":"blue-widget"}`)
	signature := SignWebhookBody(body, secret)

	t.Run("valid signature round trip", func(t *testing.T) {
		assert.True(t, VerifyWebhookSignature(body, signature, secret))
	})

	t.Run("tampered body is rejected", func(t *testing.T) {
		tampered := []byte(`{"id":124,"handle":"blue-widget"}`)
		assert.False(t, VerifyWebhookSignature(tampered, signature, secret))
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, signature, "other-secret"))
	})

	t.Run("empty header is rejected", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, "", secret))
	})

	t.Run("empty secret is rejected", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, signature, ""))
	})

	t.Run("non-base64 header is rejected", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, "not base64!!!", secret))
	})

	t.Run("truncated signature does not panic", func(t *testing.T) {
		assert.False(t, VerifyWebhookSignature(body, signature[:8], secret))
	})
}

func TestVerifyWebhookSignatureExactBytes(t *testing.T) {
	// The signature covers the exact bytes on the wire, so semantically
	// identical JSON with different whitespace must not verify.
	secret := "s3cret"
	body := []byte(`{"id": 1}`)
	signature := SignWebhookBody(body, secret)

	assert.True(t, VerifyWebhookSignature(body, signature, secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{"id":1}`), signature, secret))
}
