package branches

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

// Handler manages branch endpoints.
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

// MountRoutes registers branch routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapBranch))
		r.Get("/", h.listBranches)
		r.Get("/{id}", h.getBranch)
		r.Post("/", h.createBranch)
		r.Put("/{id}", h.updateBranch)
		r.Delete("/{id}", h.deleteBranch)
	})
}

type branchRequest struct {
	Name    string  `json:"name" validate:"required"`
	Address *string `json:"address"`
	Phone   *string `json:"phone"`
}

func (h *Handler) listBranches(w http.ResponseWriter, r *http.Request) {
	branches, err := h.service.ListBranches(r.Context())
	if err != nil {
		h.logger.Error("list branches", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch branches")
		return
	}
	httpx.JSON(w, http.StatusOK, branches)
}

func (h *Handler) getBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.service.GetBranch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no branch found with the given ID")
			return
		}
		h.logger.Error("get branch", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch branch")
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) createBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	b, err := h.service.CreateBranch(r.Context(), Branch{Name: req.Name, Address: req.Address, Phone: req.Phone}, actorID(r))
	if err != nil {
		if errors.Is(err, ErrDuplicateName) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "branch name already exists")
			return
		}
		h.logger.Error("create branch", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to create branch")
		return
	}
	h.record(r, "branch.create", b.ID)
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) updateBranch(w http.ResponseWriter, r *http.Request) {
	var req branchRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	b, err := h.service.UpdateBranch(r.Context(), Branch{ID: id, Name: req.Name, Address: req.Address, Phone: req.Phone}, actorID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no branch found with the given ID")
			return
		}
		h.logger.Error("update branch", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to update branch")
		return
	}
	h.record(r, "branch.update", id)
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) deleteBranch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteBranch(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no branch found with the given ID")
			return
		}
		h.logger.Error("delete branch", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete branch")
		return
	}
	h.record(r, "branch.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "branch deleted successfully"})
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "branch", EntityID: entityID}
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
