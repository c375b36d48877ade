package shopgate

// Static lookup tables mapping file extensions to content type and to the
// cache, compression, and security policy applied when serving them. The
// tables are read-only after process start; compressed binary formats are
// compression-ineligible by omission rather than by a blacklist.

// PolicyRow is the per-extension serving policy.
type PolicyRow struct {
	// MaxAge is the cache lifetime in seconds; 0 means no-cache.
	MaxAge int
	// Compressible marks the content type as worth gzip-encoding.
	Compressible bool
	// SecurityHeaders are merged into the response verbatim.
	SecurityHeaders map[string]string
}

var mimeTypes = map[string]string{
	".html":        "text/html; charset=utf-8",
	".htm":         "text/html; charset=utf-8",
	".css":         "text/css; charset=utf-8",
	".js":          "application/javascript; charset=utf-8",
	".mjs":         "application/javascript; charset=utf-8",
	".json":        "application/json; charset=utf-8",
	".xml":         "application/xml; charset=utf-8",
	".txt":         "text/plain; charset=utf-8",
	".svg":         "image/svg+xml",
	".png":         "image/png",
	".jpg":         "image/jpeg",
	".jpeg":        "image/jpeg",
	".gif":         "image/gif",
	".webp":        "image/webp",
	".avif":        "image/avif",
	".ico":         "image/x-icon",
	".woff":        "font/woff",
	".woff2":       "font/woff2",
	".ttf":         "font/ttf",
	".otf":         "font/otf",
	".eot":         "application/vnd.ms-fontobject",
	".map":         "application/json; charset=utf-8",
	".wasm":        "application/wasm",
	".pdf":         "application/pdf",
	".mp4":         "video/mp4",
	".webm":        "video/webm",
	".mp3":         "audio/mpeg",
	".webmanifest": "application/manifest+json",
}

const (
	cacheYear = 31536000
	cacheWeek = 604800
	cacheDay  = 86400
)

var svgHeaders = map[string]string{
	"Content-Security-Policy": "default-src 'none'; style-src 'unsafe-inline'",
	"X-Content-Type-Options":  "nosniff",
}

var noSniff = map[string]string{
	"X-Content-Type-Options": "nosniff",
}

var cachePolicies = map[string]PolicyRow{
	".html": {MaxAge: 0, Compressible: true, SecurityHeaders: map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
	}},
	".htm":         {MaxAge: 0, Compressible: true, SecurityHeaders: noSniff},
	".css":         {MaxAge: cacheYear, Compressible: true, SecurityHeaders: noSniff},
	".js":          {MaxAge: cacheYear, Compressible: true, SecurityHeaders: noSniff},
	".mjs":         {MaxAge: cacheYear, Compressible: true, SecurityHeaders: noSniff},
	".json":        {MaxAge: cacheDay, Compressible: true, SecurityHeaders: noSniff},
	".xml":         {MaxAge: cacheDay, Compressible: true, SecurityHeaders: noSniff},
	".txt":         {MaxAge: cacheDay, Compressible: true},
	".svg":         {MaxAge: cacheYear, Compressible: true, SecurityHeaders: svgHeaders},
	".png":         {MaxAge: cacheYear},
	".jpg":         {MaxAge: cacheYear},
	".jpeg":        {MaxAge: cacheYear},
	".gif":         {MaxAge: cacheYear},
	".webp":        {MaxAge: cacheYear},
	".avif":        {MaxAge: cacheYear},
	".ico":         {MaxAge: cacheYear},
	".woff":        {MaxAge: cacheYear},
	".woff2":       {MaxAge: cacheYear},
	".ttf":         {MaxAge: cacheYear},
	".otf":         {MaxAge: cacheYear},
	".eot":         {MaxAge: cacheYear},
	".map":         {MaxAge: cacheWeek, Compressible: true, SecurityHeaders: noSniff},
	".wasm":        {MaxAge: cacheYear, Compressible: true, SecurityHeaders: noSniff},
	".pdf":         {MaxAge: cacheWeek},
	".mp4":         {MaxAge: cacheYear},
	".webm":        {MaxAge: cacheYear},
	".mp3":         {MaxAge: cacheYear},
	".webmanifest": {MaxAge: cacheDay, Compressible: true, SecurityHeaders: noSniff},
}

// ContentTypeFor returns the content type for a lowercase extension, or
// application/octet-stream when the extension is unknown.
func ContentTypeFor(ext string) string {
	if ct, ok := mimeTypes[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

// KnownExtension reports whether ext has an entry in the MIME table.
func KnownExtension(ext string) bool {
	_, ok := mimeTypes[ext]
	return ok
}

// PolicyFor returns the cache/security policy row for an extension. Unknown
// extensions fall back to a short-lived, non-compressible policy.
func PolicyFor(ext string, defaultMaxAge int) PolicyRow {
	if row, ok := cachePolicies[ext]; ok {
		return row
	}
	return PolicyRow{MaxAge: defaultMaxAge, SecurityHeaders: noSniff}
}

// CompressibleType reports whether the content type behind ext is worth
// gzip-encoding.
func CompressibleType(ext string) bool {
	return cachePolicies[ext].Compressible
}
