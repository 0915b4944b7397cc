package grants

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/epes-hq/epes/internal/platform/httpx"
	"github.com/epes-hq/epes/internal/rbac"
	"github.com/epes-hq/epes/internal/shared"
)

// Handler manages the grant matrix endpoints the assignment editors drive.
type Handler struct {
	logger   *slog.Logger
	service  *Service
	audit    *shared.AuditLogger
	rbac     rbac.Middleware
	validate *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, audit *shared.AuditLogger, rbacMW rbac.Middleware) *Handler {
	return &Handler{logger: logger, service: service, audit: audit, rbac: rbacMW, validate: validator.New()}
}

// MountRoutes registers grant routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapRole))
		r.Get("/role-permissions/list", h.listRolePermissions)
		r.Put("/role-permissions/update", h.updateRolePermission)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapUsers))
		r.Get("/user/roles/list", h.listUserRoles)
		r.Put("/user/roles/update", h.updateUserRole)
	})
}

func (h *Handler) listRolePermissions(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.RolePermissions(r.Context(), r.URL.Query().Get("role_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingSubject):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "role_id is required")
		case errors.Is(err, ErrRoleNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "role not found")
		default:
			h.logger.Error("list role permissions", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch role permissions")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, matrix)
}

type rolePermissionRequest struct {
	RoleID     string `json:"role_id" validate:"required"`
	ActionID   string `json:"action_id" validate:"required"`
	Permission bool   `json:"permission"`
}

func (h *Handler) updateRolePermission(w http.ResponseWriter, r *http.Request) {
	var req rolePermissionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.SetRolePermission(r.Context(), req.RoleID, req.ActionID, req.Permission, actorID(r)); err != nil {
		h.logger.Error("update role permission", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to update role permission")
		return
	}
	action := "role_permission.revoke"
	if req.Permission {
		action = "role_permission.grant"
	}
	h.record(r, action, "role", req.RoleID)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "role permission updated successfully"})
}

func (h *Handler) listUserRoles(w http.ResponseWriter, r *http.Request) {
	matrix, err := h.service.UserRoles(r.Context(), r.URL.Query().Get("user_id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrMissingSubject):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", "user_id is required")
		case errors.Is(err, ErrUserNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
		default:
			h.logger.Error("list user roles", slog.Any("error", err))
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch user roles")
		}
		return
	}
	httpx.JSON(w, http.StatusOK, matrix)
}

type userRoleRequest struct {
	UserID string `json:"user_id" validate:"required"`
	RoleID string `json:"role_id" validate:"required"`
	Active bool   `json:"active"`
}

func (h *Handler) updateUserRole(w http.ResponseWriter, r *http.Request) {
	var req userRoleRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	if err := h.service.SetUserRole(r.Context(), req.UserID, req.RoleID, req.Active, actorID(r)); err != nil {
		h.logger.Error("update user role", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to update user role")
		return
	}
	action := "user_role.unassign"
	if req.Active {
		action = "user_role.assign"
	}
	h.record(r, action, "user", req.UserID)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user role updated successfully"})
}

func (h *Handler) record(r *http.Request, action, entity, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: entity, EntityID: entityID}
	if err := h.audit.Record(r.Context(), rec); err != nil {
		h.logger.Warn("record action", slog.Any("error", err))
	}
}

func actorID(r *http.Request) string {
	if principal := shared.PrincipalFromContext(r.Context()); principal != nil {
		return principal.UserID
	}
	return ""
}
