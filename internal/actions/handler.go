package actions

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

// Handler manages action type endpoints.
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

// MountRoutes registers action type routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapAction))
		r.Get("/", h.listActionTypes)
		r.Post("/", h.createActionType)
		r.Put("/{id}", h.updateActionType)
		r.Delete("/{id}", h.deleteActionType)
	})
}

type actionTypeRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) listActionTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.service.ListActionTypes(r.Context())
	if err != nil {
		h.logger.Error("list action types", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch action types")
		return
	}
	httpx.JSON(w, http.StatusOK, types)
}

func (h *Handler) createActionType(w http.ResponseWriter, r *http.Request) {
	var req actionTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	at, err := h.service.CreateActionType(r.Context(), req.Name, actorID(r))
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "action type name already exists")
			return
		}
		h.logger.Error("create action type", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to create action type")
		return
	}
	h.record(r, "action_type.create", at.ID)
	httpx.JSON(w, http.StatusCreated, at)
}

func (h *Handler) updateActionType(w http.ResponseWriter, r *http.Request) {
	var req actionTypeRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	at, err := h.service.UpdateActionType(r.Context(), id, req.Name, actorID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no action type found with the given ID")
			return
		}
		h.logger.Error("update action type", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to update action type")
		return
	}
	h.record(r, "action_type.update", id)
	httpx.JSON(w, http.StatusOK, at)
}

func (h *Handler) deleteActionType(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteActionType(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no action type found with the given ID")
			return
		}
		h.logger.Error("delete action type", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete action type")
		return
	}
	h.record(r, "action_type.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "action type deleted successfully"})
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "action_type", EntityID: entityID}
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
