package rbac

import (
	"log/slog"
	"net/http"

	"github.com/epes-hq/epes/internal/shared"
)

// Middleware wires catalog-backed authorization helpers for HTTP handlers.
type Middleware struct {
	Catalog Catalog
	Logger  *slog.Logger
}

// RequireAny ensures the current principal holds at least one of the required
// capabilities. Requests without a principal are rejected outright.
func (m Middleware) RequireAny(caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(caps) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			granted := m.catalog().EffectiveCapabilities(principal.Roles)
			for _, c := range caps {
				if granted.Has(c) {
					next.ServeHTTP(w, r)
					return
				}
			}
			if m.Logger != nil {
				m.Logger.Warn("capability denied", slog.String("user_id", principal.UserID), slog.String("path", r.URL.Path))
			}
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
		})
	}
}

// RequireAll ensures the current principal holds every required capability.
func (m Middleware) RequireAll(caps ...Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(caps) == 0 {
				next.ServeHTTP(w, r)
				return
			}
			principal := shared.PrincipalFromContext(r.Context())
			if principal == nil {
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			granted := m.catalog().EffectiveCapabilities(principal.Roles)
			for _, c := range caps {
				if !granted.Has(c) {
					http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (m Middleware) catalog() Catalog {
	if m.Catalog != nil {
		return m.Catalog
	}
	return DefaultCatalog
}
