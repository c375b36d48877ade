package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/mossriver/shopgate"
)

// AssetConfig carries the serving policy knobs for static assets.
type AssetConfig struct {
	ETagEnabled         bool
	LastModifiedEnabled bool
	DefaultMaxAge       int
}

// AssetHandler orchestrates static asset delivery: path validation,
// version-token checks, conditional requests, header assembly, compression
// negotiation, and content emission. Validation failures become structured
// error responses; failures after the first header flush are logged only.
type AssetHandler struct {
	cfg       AssetConfig
	validator *shopgate.Validator
	versions  *shopgate.VersionEngine
	compress  *Negotiator
	responder *Responder
}

// NewAssetHandler creates an AssetHandler from its collaborators.
func NewAssetHandler(cfg AssetConfig, v *shopgate.Validator, ve *shopgate.VersionEngine, n *Negotiator, rp *Responder) *AssetHandler {
	return &AssetHandler{
		cfg:       cfg,
		validator: v,
		versions:  ve,
		compress:  n,
		responder: rp,
	}
}

func (h *AssetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	asset, err := h.validator.Resolve(r.URL.Path)
	if err != nil {
		h.responder.HandleResolveError(w, r, err)
		return
	}

	// A stale version token means the client holds a cache-busting URL for
	// content that has since changed. Redirect to the fresh URL so
	// long-lived caches self-heal instead of serving stale bytes.
	supplied := r.URL.Query().Get(h.versions.Param())
	if !h.versions.TokenValid(asset.AbsPath, supplied) {
		http.Redirect(w, r, h.versions.VersionedURL(r.URL.Path, asset.AbsPath), http.StatusFound)
		return
	}

	if h.notModified(r, asset) {
		// 304 must carry no entity headers.
		w.Header().Del("Content-Type")
		w.Header().Del("Content-Length")
		w.Header().Del("Content-Encoding")
		w.WriteHeader(http.StatusNotModified)
		return
	}

	h.setHeaders(w, asset, supplied)

	if h.compress.ShouldCompress(asset.Ext, r.Header.Get("Accept-Encoding")) {
		h.emitCompressed(w, r, asset)
		return
	}
	h.emit(w, r, asset)
}

// notModified evaluates the client's conditional headers against the
// resolved asset.
func (h *AssetHandler) notModified(r *http.Request, asset shopgate.ResolvedAsset) bool {
	if h.cfg.ETagEnabled {
		if match := r.Header.Get("If-None-Match"); match != "" {
			if match == `"`+asset.ETag+`"` || match == asset.ETag {
				return true
			}
		}
	}

	if h.cfg.LastModifiedEnabled {
		if since := r.Header.Get("If-Modified-Since"); since != "" {
			if t, err := http.ParseTime(since); err == nil {
				if !asset.ModTime.Truncate(time.Second).After(t) {
					return true
				}
			}
		}
	}

	return false
}

func (h *AssetHandler) setHeaders(w http.ResponseWriter, asset shopgate.ResolvedAsset, token string) {
	header := w.Header()
	policy := shopgate.PolicyFor(asset.Ext, h.cfg.DefaultMaxAge)

	header.Set("Content-Type", shopgate.ContentTypeFor(asset.Ext))

	switch {
	case token != "" && h.versions.Enabled():
		// Versioned assets change URL when content changes, so they are
		// safe to cache indefinitely.
		header.Set("Cache-Control", "public, max-age=31536000, immutable")
		header.Set("Expires", time.Now().Add(365*24*time.Hour).UTC().Format(http.TimeFormat))
		header.Set("X-Asset-Version", token)
	case policy.MaxAge == 0:
		header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
		header.Set("Expires", "0")
	default:
		header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", policy.MaxAge))
		header.Set("Expires", time.Now().Add(time.Duration(policy.MaxAge)*time.Second).UTC().Format(http.TimeFormat))
	}

	if h.cfg.ETagEnabled {
		header.Set("ETag", `"`+asset.ETag+`"`)
	}
	if h.cfg.LastModifiedEnabled {
		header.Set("Last-Modified", asset.ModTime.UTC().Format(http.TimeFormat))
	}

	for k, v := range policy.SecurityHeaders {
		header.Set(k, v)
	}

	header.Set("Vary", "Accept-Encoding")
	header.Set("Accept-Ranges", "bytes")
}

func (h *AssetHandler) emitCompressed(w http.ResponseWriter, r *http.Request, asset shopgate.ResolvedAsset) {
	body, err := h.compress.Compress(asset.AbsPath)
	if err != nil {
		h.responder.ServerError(w, r, err)
		return
	}

	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	if _, err := w.Write(body); err != nil {
		slog.Error("write after headers flushed", "path", r.URL.Path, "err", err)
	}
}

func (h *AssetHandler) emit(w http.ResponseWriter, r *http.Request, asset shopgate.ResolvedAsset) {
	w.Header().Set("Content-Length", strconv.FormatInt(asset.Size, 10))
	w.WriteHeader(http.StatusOK)

	if r.Method == http.MethodHead {
		return
	}

	f, err := os.Open(asset.AbsPath)
	if err != nil {
		// Headers are flushed; the failure can only be logged.
		slog.Error("open after headers flushed", "path", r.URL.Path, "err", err)
		return
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(w, f); err != nil {
		slog.Error("stream after headers flushed", "path", r.URL.Path, "err", err)
	}
}
