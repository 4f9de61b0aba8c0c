package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/andybalholm/brotli"

	"github.com/Abepena/nj-stars-sub000/internal/domain"
)

// NewRouter initializes the main HTTP handler using Go 1.22+ ServeMux
func NewRouter(views *ViewHandler, sessions *SessionHandler, regs *RegistrationHandler) http.Handler {
	mux := http.NewServeMux()

	// Mounted with a trailing slash so /events redirects to /events/.
	mux.Handle("/events/", http.StripPrefix("/events", views.eventsMux()))
	mux.Handle("/calendar/", http.StripPrefix("/calendar", views.calendarMux()))
	mux.Handle("/markers/", http.StripPrefix("/markers", views.markersMux()))

	mux.Handle("/sessions/", http.StripPrefix("/sessions", sessions))
	mux.Handle("/registrations/", http.StripPrefix("/registrations", regs))

	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, domain.APIResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, domain.APIResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrSnapshotUnavailable):
		// Upstream fetch failure is an explicit error state for the caller;
		// the engine does not retry on its behalf.
		writeJSON(w, http.StatusBadGateway, domain.APIResponse{Error: err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, domain.APIResponse{Error: err.Error()})
	}
}

func WithCompression(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "br") {
			next.ServeHTTP(w, r)
			return
		}
		w.Header().Set("Content-Encoding", "br")
		br := brotli.NewWriter(w)
		defer func(br *brotli.Writer) {
			_ = br.Close()
		}(br)
		cw := &compressedWriter{w: w, cw: br}
		next.ServeHTTP(cw, r)
	})
}

type compressedWriter struct {
	w  http.ResponseWriter
	cw *brotli.Writer
}

func (cw *compressedWriter) Header() http.Header         { return cw.w.Header() }
func (cw *compressedWriter) Write(b []byte) (int, error) { return cw.cw.Write(b) }
func (cw *compressedWriter) WriteHeader(statusCode int)  { cw.w.WriteHeader(statusCode) }
