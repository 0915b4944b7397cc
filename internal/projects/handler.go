package projects

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/epes-hq/epes/internal/platform/httpx"
	"github.com/epes-hq/epes/internal/rbac"
	"github.com/epes-hq/epes/internal/shared"
)

// Handler manages project endpoints.
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

// MountRoutes registers project routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapProjects))
		r.Get("/", h.listProjects)
		r.Get("/{id}", h.getProject)
		r.Post("/", h.createProject)
		r.Put("/{id}", h.updateProject)
		r.Delete("/{id}", h.deleteProject)
	})
}

type projectRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	BranchID    *string `json:"branch_id"`
	Status      string  `json:"status"`
	StartDate   *string `json:"start_date"`
	EndDate     *string `json:"end_date"`
}

func (h *Handler) projectFromRequest(req projectRequest) (Project, error) {
	p := Project{
		Name:        req.Name,
		Description: req.Description,
		BranchID:    req.BranchID,
		Status:      req.Status,
	}
	var err error
	if p.StartDate, err = parseDate(req.StartDate); err != nil {
		return Project{}, err
	}
	if p.EndDate, err = parseDate(req.EndDate); err != nil {
		return Project{}, err
	}
	return p, nil
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListProjects(r.Context(), r.URL.Query().Get("branch_id"))
	if err != nil {
		h.logger.Error("list projects", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch projects")
		return
	}
	httpx.JSON(w, http.StatusOK, projects)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no project found with the given ID")
			return
		}
		h.logger.Error("get project", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch project")
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.projectFromRequest(req)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "dates must use the YYYY-MM-DD format")
		return
	}
	created, err := h.service.CreateProject(r.Context(), p, actorID(r))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Project", err.Error())
		return
	}
	h.record(r, "project.create", created.ID)
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateProject(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	p, err := h.projectFromRequest(req)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "dates must use the YYYY-MM-DD format")
		return
	}
	p.ID = chi.URLParam(r, "id")
	updated, err := h.service.UpdateProject(r.Context(), p, actorID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no project found with the given ID")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid Project", err.Error())
		return
	}
	h.record(r, "project.update", p.ID)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteProject(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no project found with the given ID")
			return
		}
		h.logger.Error("delete project", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete project")
		return
	}
	h.record(r, "project.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "project deleted successfully"})
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "project", EntityID: entityID}
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
