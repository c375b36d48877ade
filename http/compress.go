package http

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/mossriver/shopgate"
)

// Negotiator decides per response whether to gzip-encode content, based on
// client capability and the policy table's compression eligibility.
type Negotiator struct {
	enabled bool
	level   int
}

// NewNegotiator creates a Negotiator encoding at the given gzip level.
// Levels outside the valid range fall back to gzip.DefaultCompression.
func NewNegotiator(enabled bool, level int) *Negotiator {
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		level = gzip.DefaultCompression
	}
	return &Negotiator{enabled: enabled, level: level}
}

// ShouldCompress reports whether a response for the given extension should
// be gzip-encoded for a client advertising acceptEncoding.
func (n *Negotiator) ShouldCompress(ext, acceptEncoding string) bool {
	if !n.enabled || !shopgate.CompressibleType(ext) {
		return false
	}
	return acceptsGzip(acceptEncoding)
}

// Compress reads the file at absPath and returns its gzip-encoded bytes.
// Any failure is a hard error: emitting an unencoded body under a declared
// Content-Encoding would corrupt the response.
func (n *Negotiator) Compress(absPath string) ([]byte, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("compress read: %v: %w", err, shopgate.ErrCompression)
	}

	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, n.level)
	if err != nil {
		return nil, fmt.Errorf("compress init: %v: %w", err, shopgate.ErrCompression)
	}

	if _, err := zw.Write(content); err != nil {
		return nil, fmt.Errorf("compress write: %v: %w", err, shopgate.ErrCompression)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress close: %v: %w", err, shopgate.ErrCompression)
	}

	return buf.Bytes(), nil
}

// acceptsGzip checks the Accept-Encoding header for a gzip token that is
// not disabled with q=0.
func acceptsGzip(header string) bool {
	for _, part := range strings.Split(header, ",") {
		part = strings.TrimSpace(part)
		enc, params, _ := strings.Cut(part, ";")
		enc = strings.TrimSpace(enc)
		if enc != "gzip" && enc != "*" {
			continue
		}
		if q, ok := strings.CutPrefix(strings.TrimSpace(params), "q="); ok {
			if q == "0" || strings.HasPrefix(q, "0.0") {
				continue
			}
		}
		return true
	}
	return false
}
