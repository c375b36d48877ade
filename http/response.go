package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/mossriver/shopgate"
)

// ErrorResponse is the JSON body shared by all structured error responses.
type ErrorResponse struct {
	Error     string `json:"error"`
	Path      string `json:"path"`
	Timestamp string `json:"timestamp"`
	Reason    string `json:"reason,omitempty"`
	Debug     string `json:"debug,omitempty"`
}

// Responder produces the structured 404/403/500 responses used across the
// delivery pipeline. Debug detail is only ever included when the debug flag
// is set; no response exposes absolute paths or internal error text
// otherwise.
type Responder struct {
	debug bool
}

// NewResponder creates a Responder. debug enables the debug field on 500s.
func NewResponder(debug bool) *Responder {
	return &Responder{debug: debug}
}

// NotFound writes the JSON 404 response and logs the miss at warning level
// with client context.
func (rp *Responder) NotFound(w http.ResponseWriter, r *http.Request) {
	slog.Warn("resource not found",
		"path", r.URL.Path,
		"ip", clientIP(r),
		"user_agent", r.UserAgent(),
		"referer", r.Referer(),
	)
	rp.write(w, r, http.StatusNotFound, ErrorResponse{Error: "not_found"})
}

// PermissionDenied writes the JSON 403 response. Unreadable files under an
// allowed root are operational misconfigurations, so this is always logged
// as a security-relevant event.
func (rp *Responder) PermissionDenied(w http.ResponseWriter, r *http.Request, reason string) {
	slog.Error("permission denied",
		"path", r.URL.Path,
		"ip", clientIP(r),
		"reason", reason,
		"security_event", true,
	)
	rp.write(w, r, http.StatusForbidden, ErrorResponse{Error: "forbidden", Reason: reason})
}

// ServerError writes the JSON 500 response. The underlying error reaches
// the client only under the debug flag.
func (rp *Responder) ServerError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal error",
		"path", r.URL.Path,
		"err", err,
	)
	body := ErrorResponse{Error: "internal_error"}
	if rp.debug && err != nil {
		body.Debug = err.Error()
	}
	rp.write(w, r, http.StatusInternalServerError, body)
}

// HandleResolveError maps a path-validation failure onto one structured
// response. ErrDenied deliberately shares the ErrNotFound surface.
func (rp *Responder) HandleResolveError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, shopgate.ErrDenied), errors.Is(err, shopgate.ErrNotFound):
		rp.NotFound(w, r)
	case errors.Is(err, shopgate.ErrPermission):
		slog.Error("unreadable file under allowed root",
			"path", r.URL.Path,
			"detail", err,
			"security_event", true,
		)
		rp.PermissionDenied(w, r, "file is not readable")
	default:
		rp.ServerError(w, r, err)
	}
}

// write emits the response unless headers have already been flushed, in
// which case the failure can only be logged.
func (rp *Responder) write(w http.ResponseWriter, r *http.Request, code int, body ErrorResponse) {
	if HeadersSent(w) {
		slog.Error("cannot write error response, headers already sent",
			"path", r.URL.Path,
			"status", code,
		)
		return
	}

	body.Path = r.URL.Path
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)

	if r.Method == http.MethodHead {
		return
	}

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode error response", "err", err)
	}
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	return r.RemoteAddr
}
