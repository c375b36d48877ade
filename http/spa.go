package http

import (
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"os"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/mossriver/shopgate"
)

// SPAConfig carries the shell-serving knobs.
type SPAConfig struct {
	// ShellPath is the filesystem path of the application shell document.
	ShellPath string
	// Env is the environment tag exposed to the client ("dev", "prod", ...).
	Env string
	// CanonicalBase is the absolute URL prefix for canonical links.
	CanonicalBase string
	// InjectRouteData controls the route-data script injection.
	InjectRouteData bool
	// InjectMeta controls the per-route SEO tag injection.
	InjectMeta bool
	// Preload lists request paths of critical shell assets announced via
	// Link preload headers.
	Preload []string
}

// SPAHandler serves the application shell for recognized frontend routes
// and an HTML 404 page for everything else. The shell is read per request
// so deployments are picked up without a restart.
type SPAHandler struct {
	cfg        SPAConfig
	classifier *shopgate.Classifier
	routes     *shopgate.RouteTable
	responder  *Responder
}

// NewSPAHandler creates an SPAHandler from its collaborators.
func NewSPAHandler(cfg SPAConfig, c *shopgate.Classifier, t *shopgate.RouteTable, rp *Responder) *SPAHandler {
	return &SPAHandler{cfg: cfg, classifier: c, routes: t, responder: rp}
}

func (h *SPAHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean("/" + r.URL.Path)

	// The dispatcher already classified this request, but re-validate so
	// the handler stays safe when mounted directly.
	if h.classifier.Classify(p) != shopgate.ClassFrontend {
		h.notFoundPage(w, r)
		return
	}

	meta, ok := h.routes.Match(p)
	if !ok {
		h.notFoundPage(w, r)
		return
	}

	shell, err := os.ReadFile(h.cfg.ShellPath)
	if err != nil {
		h.responder.ServerError(w, r, fmt.Errorf("read shell: %w", err))
		return
	}

	doc := h.prepareShell(string(shell), p, meta, RequestID(r.Context()))

	h.setHeaders(w)
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write([]byte(doc)); err != nil {
		slog.Error("write shell after headers flushed", "path", p, "err", err)
	}
}

// prepareShell injects the route-data script and SEO tags immediately
// before the closing head marker. The document is otherwise unchanged.
func (h *SPAHandler) prepareShell(doc, routePath string, meta shopgate.RouteMeta, requestID string) string {
	idx := strings.Index(doc, "</head>")
	if idx < 0 {
		return doc
	}

	var b strings.Builder

	if h.cfg.InjectRouteData {
		if requestID == "" {
			requestID = uuid.NewString()
		}
		// json.Marshal escapes <, > and & to unicode sequences, so the
		// payload cannot break out of the script element.
		data, err := json.Marshal(map[string]string{
			"path":      routePath,
			"requestId": requestID,
			"env":       h.cfg.Env,
		})
		if err == nil {
			b.WriteString(`<script id="route-data" type="application/json">`)
			b.Write(data)
			b.WriteString("</script>\n")
		}
	}

	if h.cfg.InjectMeta {
		canonical := h.cfg.CanonicalBase + meta.Canonical
		b.WriteString(`<title>` + html.EscapeString(meta.Title) + "</title>\n")
		b.WriteString(`<link rel="canonical" href="` + html.EscapeString(canonical) + "\">\n")
		b.WriteString(`<meta name="description" content="` + html.EscapeString(meta.Description) + "\">\n")
		b.WriteString(`<meta property="og:title" content="` + html.EscapeString(meta.Title) + "\">\n")
		b.WriteString(`<meta property="og:description" content="` + html.EscapeString(meta.Description) + "\">\n")
		b.WriteString(`<meta property="og:url" content="` + html.EscapeString(canonical) + "\">\n")
		b.WriteString(`<meta property="og:type" content="website">` + "\n")
	}

	return doc[:idx] + b.String() + doc[idx:]
}

func (h *SPAHandler) setHeaders(w http.ResponseWriter) {
	header := w.Header()

	// The shell must be revalidated on every navigation so deployed
	// updates are picked up.
	header.Set("Content-Type", "text/html; charset=utf-8")
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Expires", "0")
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("X-Frame-Options", "DENY")
	header.Set("Referrer-Policy", "strict-origin-when-cross-origin")

	for _, asset := range h.cfg.Preload {
		as := "script"
		if strings.HasSuffix(asset, ".css") {
			as = "style"
		}
		header.Add("Link", fmt.Sprintf("<%s>; rel=preload; as=%s", asset, as))
	}
}

// notFoundPage serves the browser-facing HTML 404, distinct from the JSON
// 404 used for asset requests.
func (h *SPAHandler) notFoundPage(w http.ResponseWriter, r *http.Request) {
	slog.Warn("unknown frontend route",
		"path", r.URL.Path,
		"ip", clientIP(r),
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)

	if HeadersSent(w) {
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusNotFound)
	if r.Method == http.MethodHead {
		return
	}
	_, _ = w.Write([]byte(notFoundHTML))
}
