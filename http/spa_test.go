package http_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossriver/shopgate"
	shopgatehttp "github.com/mossriver/shopgate/http"
)

const testShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="/assets/css/main.css">
</head>
<body><div id="app"></div><script src="/assets/js/app.js"></script></body>
</html>`

func newSPAFixture(t *testing.T, cfg shopgatehttp.SPAConfig) *shopgatehttp.SPAHandler {
	t.Helper()

	if cfg.ShellPath == "" {
		shell := filepath.Join(t.TempDir(), "index.html")
		require.NoError(t, os.WriteFile(shell, []byte(testShell), 0o644))
		cfg.ShellPath = shell
	}
	if cfg.Env == "" {
		cfg.Env = "dev"
	}

	return shopgatehttp.NewSPAHandler(
		cfg,
		shopgate.NewClassifier("/api", nil),
		shopgate.NewRouteTable(),
		shopgatehttp.NewResponder(false),
	)
}

func serveSPA(h *shopgatehttp.SPAHandler, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSPAExactRoute(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{InjectRouteData: true, InjectMeta: true})

	rec := serveSPA(h, "GET", "/products")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Cache-Control"), "no-cache")
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))

	body := rec.Body.String()
	assert.Contains(t, body, `<script id="route-data" type="application/json">`)
	assert.Contains(t, body, `"path":"/products"`)
	assert.Contains(t, body, `"env":"dev"`)
	assert.Contains(t, body, `<div id="app">`, "document content preserved")
}

func TestSPADynamicRouteMeta(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{InjectMeta: true, CanonicalBase: "https://shop.example.com"})

	rec := serveSPA(h, "GET", "/products/482")

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Product 482</title>")
	assert.Contains(t, body, `<meta property="og:title" content="Product 482">`)
	assert.Contains(t, body, `<link rel="canonical" href="https://shop.example.com/products/482">`)
}

func TestSPAUnknownRouteIsHTML404(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{})

	rec := serveSPA(h, "GET", "/not-a-real-page")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "404")
}

func TestSPARejectsNonFrontendPath(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{})

	// Mounted directly, the handler re-validates frontend-ness itself.
	rec := serveSPA(h, "GET", "/assets/css/main.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSPAInjectionsBeforeHead(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{InjectRouteData: true, InjectMeta: true})

	body := serveSPA(h, "GET", "/cart").Body.String()

	// Both injections sit inside the head element.
	headEnd := strings.Index(body, "</head>")
	require.GreaterOrEqual(t, headEnd, 0)

	routeData := strings.Index(body, `id="route-data"`)
	canonical := strings.Index(body, `rel="canonical"`)
	require.GreaterOrEqual(t, routeData, 0)
	require.GreaterOrEqual(t, canonical, 0)
	assert.Less(t, routeData, headEnd)
	assert.Less(t, canonical, headEnd)
}

func TestSPAInjectionsDisabled(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{})

	body := serveSPA(h, "GET", "/cart").Body.String()

	assert.NotContains(t, body, "route-data")
	assert.NotContains(t, body, "canonical")
}

func TestSPAPreloadHints(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{
		Preload: []string{"/assets/css/main.css", "/assets/js/app.js"},
	})

	rec := serveSPA(h, "GET", "/")

	links := rec.Header().Values("Link")
	require.Len(t, links, 2)
	assert.Equal(t, "</assets/css/main.css>; rel=preload; as=style", links[0])
	assert.Equal(t, "</assets/js/app.js>; rel=preload; as=script", links[1])
}

func TestSPAHeadRequest(t *testing.T) {
	h := newSPAFixture(t, shopgatehttp.SPAConfig{})

	rec := serveSPA(h, "HEAD", "/products")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestSPAMissingShellIs500(t *testing.T) {
	shell := filepath.Join(t.TempDir(), "gone.html")
	h := newSPAFixture(t, shopgatehttp.SPAConfig{ShellPath: shell, Env: "dev"})

	rec := serveSPA(h, "GET", "/products")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
