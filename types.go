package shopgate

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ResolvedAsset is the result of successful path validation: a regular,
// readable file under one of the allowed roots. It is recomputed per
// request and immutable once constructed.
type ResolvedAsset struct {
	AbsPath string
	Size    int64
	ModTime time.Time
	Ext     string // lowercase, including the dot
	Name    string // base name
	ETag    string
}

// AssetETag derives a deterministic ETag from a file's identity. The same
// (path, mtime, size) triple always yields the same tag.
func AssetETag(path string, modTime time.Time, size int64) string {
	sum := sha256.Sum256(fmt.Appendf(nil, "%s|%d|%d", path, modTime.UnixNano(), size))
	return hex.EncodeToString(sum[:16])
}

// RouteClass is the classification of an inbound request path.
type RouteClass string

const (
	ClassAPI      RouteClass = "api"
	ClassAsset    RouteClass = "asset"
	ClassFrontend RouteClass = "frontend"
)

func (c RouteClass) IsValid() bool {
	switch c {
	case ClassAPI, ClassAsset, ClassFrontend:
		return true
	default:
		return false
	}
}

func (c RouteClass) String() string {
	return string(c)
}
