package shopgate

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Validator resolves request paths against a fixed, ordered list of allowed
// root directories. Traversal attempts and sensitive-file lookups are
// rejected with the same surface as a missing file so that the security
// checks never act as an existence oracle.
type Validator struct {
	roots   []string
	maxSize int64
}

// DefaultMaxFileSize caps the size of any file served as an asset.
const DefaultMaxFileSize int64 = 50 << 20

// sensitiveNames are exact base names that must never be served.
var sensitiveNames = map[string]bool{
	".env":               true,
	".htaccess":          true,
	".htpasswd":          true,
	".gitignore":         true,
	".gitattributes":     true,
	".npmrc":             true,
	"id_rsa":             true,
	"credentials":        true,
	"config.yaml":        true,
	"config.yml":         true,
	"secrets.yaml":       true,
	"docker-compose.yml": true,
	"dockerfile":         true,
}

// sensitiveExts are extensions that indicate config sources, dumps, or
// logs rather than publishable assets.
var sensitiveExts = map[string]bool{
	".ini":    true,
	".conf":   true,
	".config": true,
	".log":    true,
	".bak":    true,
	".backup": true,
	".sql":    true,
	".sqlite": true,
	".db":     true,
	".pem":    true,
	".key":    true,
	".crt":    true,
	".sh":     true,
	".yaml":   true,
	".yml":    true,
	".toml":   true,
}

// sensitiveDirs are path segments that mark the whole path as off limits.
var sensitiveDirs = map[string]bool{
	".git":         true,
	".svn":         true,
	".hg":          true,
	"node_modules": true,
}

// NewValidator builds a Validator over the given allowed roots, in priority
// order. maxSize <= 0 selects DefaultMaxFileSize.
func NewValidator(roots []string, maxSize int64) *Validator {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &Validator{roots: roots, maxSize: maxSize}
}

// Resolve validates a raw, URL-decoded request path and resolves it to a
// regular file under one of the allowed roots.
//
// Error taxonomy:
//   - ErrDenied: traversal or sensitive-file attempt; report as not found
//   - ErrNotFound: no root yields the file, or the file is oversized
//   - ErrPermission: file exists under a root but is unreadable
//   - ErrCorrupted: file exists but fails the open/read probe
func (v *Validator) Resolve(rawPath string) (ResolvedAsset, error) {
	rel := strings.TrimPrefix(rawPath, "/")
	if rel == "" {
		return ResolvedAsset{}, fmt.Errorf("resolve: empty path: %w", ErrNotFound)
	}

	if hasTraversal(rel) {
		return ResolvedAsset{}, fmt.Errorf("resolve %q: traversal: %w", rel, ErrDenied)
	}

	if isSensitive(rel) {
		return ResolvedAsset{}, fmt.Errorf("resolve %q: sensitive path: %w", rel, ErrDenied)
	}

	for _, root := range v.roots {
		abs, info, ok := v.resolveInRoot(root, rel)
		if !ok {
			continue
		}
		return v.probe(abs, info)
	}

	return ResolvedAsset{}, fmt.Errorf("resolve %q: %w", rel, ErrNotFound)
}

// resolveInRoot resolves rel under root and confirms the canonical target
// is a regular file that stays inside the root. Any failure means "try the
// next root", never an immediate error.
func (v *Validator) resolveInRoot(root, rel string) (string, fs.FileInfo, bool) {
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", nil, false
	}

	canonicalRoot, err := filepath.EvalSymlinks(rootAbs)
	if err != nil {
		return "", nil, false
	}

	candidate := filepath.Join(rootAbs, filepath.FromSlash(rel))

	// EvalSymlinks also fails for missing files, covering the existence
	// check and the symlink-escape check in one step.
	canonical, err := filepath.EvalSymlinks(candidate)
	if err != nil {
		return "", nil, false
	}

	if canonical != canonicalRoot && !strings.HasPrefix(canonical, canonicalRoot+string(filepath.Separator)) {
		return "", nil, false
	}

	info, err := os.Lstat(canonical)
	if err != nil || !info.Mode().IsRegular() {
		return "", nil, false
	}

	return canonical, info, true
}

// probe distinguishes operational failures (permission, corruption) from
// ordinary misses on a file that does exist under an allowed root.
func (v *Validator) probe(abs string, info fs.FileInfo) (ResolvedAsset, error) {
	f, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, fs.ErrPermission) {
			return ResolvedAsset{}, fmt.Errorf("open %s (mode %04o): %w", filepath.Base(abs), info.Mode().Perm(), ErrPermission)
		}
		return ResolvedAsset{}, fmt.Errorf("open %s: %v: %w", filepath.Base(abs), err, ErrCorrupted)
	}
	defer func() { _ = f.Close() }()

	if info.Size() > v.maxSize {
		// Oversized assets are never intentionally served; treat as missing.
		return ResolvedAsset{}, fmt.Errorf("size %d exceeds limit: %w", info.Size(), ErrNotFound)
	}

	if info.Size() > 0 {
		buf := make([]byte, 1)
		if _, err := f.Read(buf); err != nil && err != io.EOF {
			return ResolvedAsset{}, fmt.Errorf("read probe %s: %v: %w", filepath.Base(abs), err, ErrCorrupted)
		}
	}

	return ResolvedAsset{
		AbsPath: abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Ext:     strings.ToLower(filepath.Ext(abs)),
		Name:    filepath.Base(abs),
		ETag:    AssetETag(abs, info.ModTime(), info.Size()),
	}, nil
}

// hasTraversal reports whether rel contains a parent-directory reference in
// either slash style.
func hasTraversal(rel string) bool {
	if strings.Contains(rel, "../") || strings.Contains(rel, `..\`) {
		return true
	}
	for _, seg := range strings.FieldsFunc(rel, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}

// isSensitive reports whether rel names a file that must never be served,
// regardless of whether it exists under an allowed root.
func isSensitive(rel string) bool {
	lower := strings.ToLower(rel)

	for _, seg := range strings.Split(lower, "/") {
		if sensitiveDirs[seg] {
			return true
		}
	}

	base := filepath.Base(lower)
	if sensitiveNames[base] {
		return true
	}
	if strings.HasPrefix(base, ".env.") {
		return true
	}

	return sensitiveExts[filepath.Ext(base)]
}
