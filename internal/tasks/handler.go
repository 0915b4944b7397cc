package tasks

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

// Handler manages task endpoints.
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

// MountRoutes registers task routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapTasks))
		r.Get("/", h.listTasks)
		r.Get("/{id}", h.getTask)
		r.Post("/", h.createTask)
		r.Put("/{id}", h.updateTask)
		r.Delete("/{id}", h.deleteTask)
	})
}

type taskRequest struct {
	ProjectID   string  `json:"project_id"`
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description"`
	AssigneeID  *string `json:"assignee_id"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

func taskFromRequest(req taskRequest) (Task, error) {
	t := Task{
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		Status:      req.Status,
	}
	if req.DueDate != nil && *req.DueDate != "" {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return Task{}, err
		}
		t.DueDate = &due
	}
	return t, nil
}

func (h *Handler) listTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tasks, err := h.service.ListTasks(r.Context(), q.Get("project_id"), q.Get("assignee_id"))
	if err != nil {
		h.logger.Error("list tasks", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch tasks")
		return
	}
	httpx.JSON(w, http.StatusOK, tasks)
}

func (h *Handler) getTask(w http.ResponseWriter, r *http.Request) {
	t, err := h.service.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no task found with the given ID")
			return
		}
		h.logger.Error("get task", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch task")
		return
	}
	httpx.JSON(w, http.StatusOK, t)
}

func (h *Handler) createTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	t, err := taskFromRequest(req)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "due_date must use the YYYY-MM-DD format")
		return
	}
	created, err := h.service.CreateTask(r.Context(), t, actorID(r))
	if err != nil {
		if errors.Is(err, ErrUnknownProject) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Task", "project not found")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid Task", err.Error())
		return
	}
	h.record(r, "task.create", created.ID)
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) updateTask(w http.ResponseWriter, r *http.Request) {
	var req taskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	t, err := taskFromRequest(req)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "due_date must use the YYYY-MM-DD format")
		return
	}
	t.ID = chi.URLParam(r, "id")
	updated, err := h.service.UpdateTask(r.Context(), t, actorID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no task found with the given ID")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid Task", err.Error())
		return
	}
	h.record(r, "task.update", t.ID)
	httpx.JSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteTask(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteTask(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no task found with the given ID")
			return
		}
		h.logger.Error("delete task", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete task")
		return
	}
	h.record(r, "task.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "task deleted successfully"})
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "task", EntityID: entityID}
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
