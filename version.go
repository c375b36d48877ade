package shopgate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"os"
	"sync"
	"time"
)

// TokenWidth is the length of a version token in hex characters.
const TokenWidth = 10

// DefaultVersionTTL bounds how long a cached token is trusted before the
// file is stat'ed again.
const DefaultVersionTTL = 5 * time.Minute

// VersionEngine derives short content fingerprints from a file's mtime and
// size, caches them with a TTL, and mints cache-busting URLs from them.
//
// The cache is the only shared mutable state in the subsystem. Entries are
// written atomically per key via sync.Map; concurrent requests may briefly
// recompute the same token, which is harmless because tokens are
// deterministic for a fixed (path, mtime, size).
type VersionEngine struct {
	enabled bool
	ttl     time.Duration
	param   string
	now     func() time.Time

	cache sync.Map // abs path -> versionEntry
}

type versionEntry struct {
	token      string
	computedAt time.Time
	modTime    time.Time
	size       int64
}

// NewVersionEngine builds a VersionEngine. param is the version query
// parameter name ("v" when empty); ttl <= 0 selects DefaultVersionTTL.
func NewVersionEngine(enabled bool, ttl time.Duration, param string) *VersionEngine {
	if ttl <= 0 {
		ttl = DefaultVersionTTL
	}
	if param == "" {
		param = "v"
	}
	return &VersionEngine{
		enabled: enabled,
		ttl:     ttl,
		param:   param,
		now:     time.Now,
	}
}

// Enabled reports whether versioning is active.
func (e *VersionEngine) Enabled() bool {
	return e.enabled
}

// Param returns the version query parameter name.
func (e *VersionEngine) Param() string {
	return e.param
}

// Token computes the fingerprint for a (path, mtime, size) identity.
func Token(path string, modTime time.Time, size int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", path, modTime.UnixNano(), size))
	return hex.EncodeToString(sum[:])[:TokenWidth]
}

// TokenFor returns the current token for the file at absPath, reusing the
// cached value while it is fresh and the underlying stat is unchanged.
func (e *VersionEngine) TokenFor(absPath string) (string, error) {
	if cached, ok := e.cache.Load(absPath); ok {
		entry := cached.(versionEntry)
		if e.now().Sub(entry.computedAt) < e.ttl {
			return entry.token, nil
		}
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("version token for %s: %w", absPath, err)
	}

	entry := versionEntry{
		token:      Token(absPath, info.ModTime(), info.Size()),
		computedAt: e.now(),
		modTime:    info.ModTime(),
		size:       info.Size(),
	}
	e.cache.Store(absPath, entry)

	return entry.token, nil
}

// VersionedURL appends the version query parameter to requestPath using the
// token for absPath. When versioning is disabled or the file cannot be
// stat'ed, requestPath is returned unchanged.
func (e *VersionEngine) VersionedURL(requestPath, absPath string) string {
	if !e.enabled {
		return requestPath
	}

	token, err := e.TokenFor(absPath)
	if err != nil {
		return requestPath
	}

	sep := "?"
	if u, err := url.Parse(requestPath); err == nil && u.RawQuery != "" {
		sep = "&"
	}
	return requestPath + sep + e.param + "=" + token
}

// TokenValid reports whether a client-supplied token is acceptable: always
// true when versioning is disabled or no token was supplied, otherwise the
// token must match the current one.
func (e *VersionEngine) TokenValid(absPath, supplied string) bool {
	if !e.enabled || supplied == "" {
		return true
	}

	current, err := e.TokenFor(absPath)
	if err != nil {
		return true
	}
	return supplied == current
}
