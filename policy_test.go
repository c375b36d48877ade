package shopgate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mossriver/shopgate"
)

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/css; charset=utf-8", shopgate.ContentTypeFor(".css"))
	assert.Equal(t, "image/svg+xml", shopgate.ContentTypeFor(".svg"))
	assert.Equal(t, "application/octet-stream", shopgate.ContentTypeFor(".xyz"))
}

func TestPolicyFor(t *testing.T) {
	css := shopgate.PolicyFor(".css", 60)
	assert.Equal(t, 31536000, css.MaxAge)
	assert.True(t, css.Compressible)

	html := shopgate.PolicyFor(".html", 60)
	assert.Equal(t, 0, html.MaxAge, "html must never be cached")
	assert.Equal(t, "nosniff", html.SecurityHeaders["X-Content-Type-Options"])

	unknown := shopgate.PolicyFor(".xyz", 60)
	assert.Equal(t, 60, unknown.MaxAge, "unknown extensions use the configured default")
	assert.False(t, unknown.Compressible)
}

func TestCompressibleType(t *testing.T) {
	// Already-compressed binary formats are excluded by omission.
	assert.True(t, shopgate.CompressibleType(".js"))
	assert.True(t, shopgate.CompressibleType(".svg"))
	assert.False(t, shopgate.CompressibleType(".png"))
	assert.False(t, shopgate.CompressibleType(".woff2"))
	assert.False(t, shopgate.CompressibleType(".xyz"))
}
