package transport

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"firebase.google.com/go/v4/auth"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserID returns the authenticated viewer's id, or "" for guests.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}

// WithAuthProtection verifies Firebase ID tokens and enforces guest access:
// authenticated viewers get full access, guests get read-only access when
// publicRead is enabled, everyone else gets a 401.
func WithAuthProtection(next http.Handler, verifier *auth.Client, publicRead bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok && token != "" {
			decoded, err := verifier.VerifyIDToken(r.Context(), token)
			if err != nil {
				slog.Warn("rejected bearer token", "error", err)
				http.Error(w, "Unauthorized: invalid token", http.StatusUnauthorized)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey, decoded.UID)
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		// Guests can browse but never mutate.
		if publicRead && r.Method == http.MethodGet {
			w.Header().Set("X-Access-Type", "Public-Preview")
			next.ServeHTTP(w, r)
			return
		}

		http.Error(w, "Unauthorized: Login required", http.StatusUnauthorized)
	})
}
