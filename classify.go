package shopgate

import (
	"path"
	"strings"
)

// Classifier decides what kind of request a normalized path represents.
// Classification is a pure function of the path: total, side-effect-free,
// and stable across calls, so it can run ahead of any filesystem I/O.
type Classifier struct {
	apiPrefix string
	assetDirs []string
}

// DefaultAssetDirs are the path segments that mark a request as a static
// asset regardless of extension.
var DefaultAssetDirs = []string{"assets", "static", "media", "fonts", "images"}

// NewClassifier builds a Classifier. apiPrefix must begin with a slash;
// assetDirs are bare segment names (no slashes).
func NewClassifier(apiPrefix string, assetDirs []string) *Classifier {
	if apiPrefix == "" {
		apiPrefix = "/api"
	}
	if !strings.HasPrefix(apiPrefix, "/") {
		apiPrefix = "/" + apiPrefix
	}
	if len(assetDirs) == 0 {
		assetDirs = DefaultAssetDirs
	}
	return &Classifier{
		apiPrefix: strings.TrimSuffix(apiPrefix, "/"),
		assetDirs: assetDirs,
	}
}

// Classify maps a normalized request path to exactly one RouteClass.
// Unknown paths deliberately fall through to ClassFrontend: client-side
// routing owns 404 semantics for deep-linked routes.
func (c *Classifier) Classify(p string) RouteClass {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	if p == c.apiPrefix || strings.HasPrefix(p, c.apiPrefix+"/") {
		return ClassAPI
	}

	for _, seg := range strings.Split(strings.Trim(p, "/"), "/") {
		for _, dir := range c.assetDirs {
			if seg == dir {
				return ClassAsset
			}
		}
	}

	if ext := strings.ToLower(path.Ext(p)); ext != "" && KnownExtension(ext) {
		return ClassAsset
	}

	return ClassFrontend
}

// APIPrefix returns the configured API prefix without a trailing slash.
func (c *Classifier) APIPrefix() string {
	return c.apiPrefix
}
