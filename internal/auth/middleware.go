package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/epes-hq/epes/internal/platform/httpx"
	"github.com/epes-hq/epes/internal/shared"
)

// Middleware authenticates bearer tokens and attaches the principal to the
// request context.
type Middleware struct {
	Service *Service
	Logger  *slog.Logger
}

// RequireToken rejects requests without a valid bearer token.
func (m Middleware) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authorization header missing")
			return
		}
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "malformed bearer token")
			return
		}

		principal, err := m.Service.Verify(r.Context(), tokenString)
		if err != nil {
			if m.Logger != nil {
				m.Logger.Warn("token rejected", slog.String("path", r.URL.Path), slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
			return
		}

		ctx := shared.ContextWithPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
