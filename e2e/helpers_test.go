package e2e_test

import (
	"net/http"
	"net/http/httptest"
	"net/http/httputil"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mossriver/shopgate"
	shopgatehttp "github.com/mossriver/shopgate/http"
)

const shellDocument = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<link rel="stylesheet" href="/assets/css/main.css">
</head>
<body><div id="app"></div></body>
</html>`

// storefront is a fully wired gateway over a temp asset tree, served by a
// real HTTP listener.
type storefront struct {
	Server *httptest.Server
	Root   string
}

// startStorefront builds the complete pipeline: classifier, validator,
// version engine, negotiator, asset and SPA handlers, and the chi router,
// optionally proxying /api to apiBackend.
func startStorefront(t *testing.T, files map[string]string, apiBackend *httptest.Server) *storefront {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	shell := filepath.Join(root, "index.html")
	require.NoError(t, os.WriteFile(shell, []byte(shellDocument), 0o644))

	classifier := shopgate.NewClassifier("/api", nil)
	responder := shopgatehttp.NewResponder(false)

	assets := shopgatehttp.NewAssetHandler(
		shopgatehttp.AssetConfig{ETagEnabled: true, LastModifiedEnabled: true, DefaultMaxAge: 3600},
		shopgate.NewValidator([]string{root}, 0),
		shopgate.NewVersionEngine(true, 5*time.Minute, "v"),
		shopgatehttp.NewNegotiator(true, 6),
		responder,
	)

	spa := shopgatehttp.NewSPAHandler(
		shopgatehttp.SPAConfig{
			ShellPath:       shell,
			Env:             "dev",
			InjectRouteData: true,
			InjectMeta:      true,
			Preload:         []string{"/assets/css/main.css"},
		},
		classifier,
		shopgate.NewRouteTable(),
		responder,
	)

	var api http.Handler
	if apiBackend != nil {
		target, err := url.Parse(apiBackend.URL)
		require.NoError(t, err)
		api = httputil.NewSingleHostReverseProxy(target)
	}

	handler := shopgatehttp.NewHandler(
		shopgatehttp.HandlerConfig{RequestLogging: true},
		classifier, assets, spa, api, responder,
	)

	server := httptest.NewServer(handler.Router())
	t.Cleanup(server.Close)

	return &storefront{Server: server, Root: root}
}

// noRedirectClient returns a client that surfaces 3xx responses instead of
// following them.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}
