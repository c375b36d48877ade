package http_test

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossriver/shopgate"
	shopgatehttp "github.com/mossriver/shopgate/http"
)

func TestShouldCompress(t *testing.T) {
	n := shopgatehttp.NewNegotiator(true, 6)

	tt := []struct {
		Name   string
		Ext    string
		Accept string
		Want   bool
	}{
		{Name: "css with gzip", Ext: ".css", Accept: "gzip, deflate", Want: true},
		{Name: "css with wildcard", Ext: ".css", Accept: "*", Want: true},
		{Name: "css without gzip", Ext: ".css", Accept: "deflate, br", Want: false},
		{Name: "css gzip disabled by q", Ext: ".css", Accept: "gzip;q=0", Want: false},
		{Name: "css gzip with weight", Ext: ".css", Accept: "gzip;q=0.8", Want: true},
		{Name: "png never compressed", Ext: ".png", Accept: "gzip", Want: false},
		{Name: "empty accept header", Ext: ".css", Accept: "", Want: false},
	}

	for _, tc := range tt {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, n.ShouldCompress(tc.Ext, tc.Accept))
		})
	}
}

func TestShouldCompressDisabled(t *testing.T) {
	n := shopgatehttp.NewNegotiator(false, 6)
	assert.False(t, n.ShouldCompress(".css", "gzip"))
}

func TestCompressRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.css")
	content := "body { margin: 0; padding: 0; } body { margin: 0; }"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	n := shopgatehttp.NewNegotiator(true, gzip.BestCompression)

	encoded, err := n.Compress(path)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(encoded))
	require.NoError(t, err)
	decoded, err := io.ReadAll(zr)
	require.NoError(t, err)

	assert.Equal(t, content, string(decoded))
}

func TestCompressMissingFile(t *testing.T) {
	n := shopgatehttp.NewNegotiator(true, 6)

	_, err := n.Compress(filepath.Join(t.TempDir(), "missing.css"))
	assert.ErrorIs(t, err, shopgate.ErrCompression)
}
