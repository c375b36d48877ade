package shopgate_test

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mossriver/shopgate"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTokenDeterminism(t *testing.T) {
	mtime := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	a := shopgate.Token("/srv/app.js", mtime, 1024)
	b := shopgate.Token("/srv/app.js", mtime, 1024)
	assert.Equal(t, a, b)
	assert.Len(t, a, shopgate.TokenWidth)

	// Changing mtime or size changes the token.
	assert.NotEqual(t, a, shopgate.Token("/srv/app.js", mtime.Add(time.Second), 1024))
	assert.NotEqual(t, a, shopgate.Token("/srv/app.js", mtime, 1025))
	assert.NotEqual(t, a, shopgate.Token("/srv/other.js", mtime, 1024))
}

func TestTokenForCachesWithinTTL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", "console.log(1)")
	e := shopgate.NewVersionEngine(true, time.Hour, "v")

	first, err := e.TokenFor(path)
	require.NoError(t, err)

	// Bump the mtime; the cached token must survive until the TTL lapses.
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Hour)))

	second, err := e.TokenFor(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestTokenForRecomputesAfterTTL(t *testing.T) {
	path := writeFile(t, t.TempDir(), "app.js", "console.log(1)")
	e := shopgate.NewVersionEngine(true, time.Nanosecond, "v")

	first, err := e.TokenFor(path)
	require.NoError(t, err)

	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Hour)))
	time.Sleep(time.Millisecond)

	second, err := e.TokenFor(path)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestVersionedURLRoundTrip(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.css", "body{}")
	e := shopgate.NewVersionEngine(true, time.Hour, "v")

	versioned := e.VersionedURL("/assets/css/main.css", path)
	require.Contains(t, versioned, "?v=")

	u, err := url.Parse(versioned)
	require.NoError(t, err)
	token := u.Query().Get("v")

	assert.True(t, e.TokenValid(path, token))
	assert.False(t, e.TokenValid(path, "0000000000"))
}

func TestVersionedURLPreservesQuery(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.css", "body{}")
	e := shopgate.NewVersionEngine(true, time.Hour, "v")

	versioned := e.VersionedURL("/main.css?theme=dark", path)
	assert.True(t, strings.Contains(versioned, "&v="), "existing query keeps its separator")
}

func TestVersioningDisabled(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.css", "body{}")
	e := shopgate.NewVersionEngine(false, time.Hour, "v")

	assert.Equal(t, "/main.css", e.VersionedURL("/main.css", path))
	assert.True(t, e.TokenValid(path, "anything"))
	assert.False(t, e.Enabled())
}

func TestTokenValidEmptySupplied(t *testing.T) {
	path := writeFile(t, t.TempDir(), "main.css", "body{}")
	e := shopgate.NewVersionEngine(true, time.Hour, "v")

	assert.True(t, e.TokenValid(path, ""))
}
