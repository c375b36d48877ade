package http

import (
	"net/http"
	"path"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/mossriver/shopgate"
)

// CORSConfig mirrors go-chi/cors options.
type CORSConfig struct {
	Enabled          bool
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// HandlerConfig wires the delivery pipeline together.
type HandlerConfig struct {
	CORS           CORSConfig
	RequestLogging bool
}

// Handler dispatches every inbound request to the API collaborator, the
// asset responder, or the SPA matcher, based on a single classification of
// the normalized path.
type Handler struct {
	cfg        HandlerConfig
	classifier *shopgate.Classifier
	assets     *AssetHandler
	spa        *SPAHandler
	api        http.Handler
	responder  *Responder
}

// NewHandler creates a Handler. api is the external dispatcher for
// requests classified as API calls; it may be nil, in which case API paths
// get the structured 404.
func NewHandler(cfg HandlerConfig, c *shopgate.Classifier, assets *AssetHandler, spa *SPAHandler, api http.Handler, rp *Responder) *Handler {
	return &Handler{
		cfg:        cfg,
		classifier: c,
		assets:     assets,
		spa:        spa,
		api:        api,
		responder:  rp,
	}
}

// Router returns the http.Handler for the gateway.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	if h.cfg.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.cfg.CORS.AllowedOrigins,
			AllowedMethods:   h.cfg.CORS.AllowedMethods,
			AllowedHeaders:   h.cfg.CORS.AllowedHeaders,
			ExposedHeaders:   h.cfg.CORS.ExposedHeaders,
			AllowCredentials: h.cfg.CORS.AllowCredentials,
			MaxAge:           h.cfg.CORS.MaxAge,
		}))
	}

	r.Use(TrackMiddleware(h.cfg.RequestLogging))

	r.Get("/healthz", h.handleHealth)

	r.Handle("/*", http.HandlerFunc(h.dispatch))

	return r
}

// dispatch normalizes the path once, classifies it, and routes. API
// requests are handed off unmodified.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		if h.classifier.Classify(r.URL.Path) == shopgate.ClassAPI && h.api != nil {
			h.api.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Allow", "GET, HEAD")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	normalized := path.Clean("/" + r.URL.Path)

	switch h.classifier.Classify(normalized) {
	case shopgate.ClassAPI:
		if h.api == nil {
			h.responder.NotFound(w, r)
			return
		}
		h.api.ServeHTTP(w, r)
	case shopgate.ClassAsset:
		h.assets.ServeHTTP(w, r)
	default:
		h.spa.ServeHTTP(w, r)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	_ = WriteJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
