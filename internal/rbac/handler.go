package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/epes-hq/epes/internal/platform/httpx"
	"github.com/epes-hq/epes/internal/shared"
)

// NavigationHandler serves the capability set and filtered navigation for
// the authenticated principal. Clients render only what comes back here,
// so an unknown role yields an empty menu rather than a partial one.
type NavigationHandler struct {
	Logger  *slog.Logger
	Catalog Catalog
	Entries []NavEntry
}

// NewNavigationHandler constructs a NavigationHandler over the default
// catalog and navigation set.
func NewNavigationHandler(logger *slog.Logger) *NavigationHandler {
	return &NavigationHandler{Logger: logger, Catalog: DefaultCatalog, Entries: DefaultNavEntries}
}

// MountRoutes registers navigation routes.
func (h *NavigationHandler) MountRoutes(r chi.Router) {
	r.Get("/", h.navigation)
}

func (h *NavigationHandler) navigation(w http.ResponseWriter, r *http.Request) {
	principal := shared.PrincipalFromContext(r.Context())
	if principal == nil {
		httpx.Problem(w, http.StatusUnauthorized, "Unauthorized", "authentication required")
		return
	}

	catalog := h.Catalog
	if catalog == nil {
		catalog = DefaultCatalog
	}
	entries := h.Entries
	if entries == nil {
		entries = DefaultNavEntries
	}

	caps := catalog.EffectiveCapabilities(principal.Roles)
	granted := make([]Capability, 0, len(caps))
	for _, entry := range entries {
		if caps.Has(entry.Capability) {
			granted = append(granted, entry.Capability)
		}
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"capabilities": granted,
		"navigation":   VisibleEntries(entries, caps),
	})
}
