package users

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

// Handler manages user management endpoints.
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

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapUsers))
		r.Get("/", h.listUsers)
		r.Get("/{id}", h.getUser)
		r.Post("/", h.createUser)
		r.Put("/{id}", h.updateUser)
		r.Delete("/{id}", h.deleteUser)
	})
}

type createUserRequest struct {
	FirstName           string  `json:"first_name" validate:"required"`
	LastName            string  `json:"last_name" validate:"required"`
	LoginID             string  `json:"login_id" validate:"required"`
	EmailWork           string  `json:"email_work" validate:"required,email"`
	EmailPersonal       *string `json:"email_personal" validate:"omitempty,email"`
	PhoneNumberWork     *string `json:"phone_number_work"`
	PhoneNumberPersonal *string `json:"phone_number_personal"`
	IsActive            bool    `json:"is_active"`
	ActiveStartDate     string  `json:"active_start_date"`
	Password            string  `json:"password" validate:"required,min=8"`
}

type updateUserRequest struct {
	FirstName           string  `json:"first_name" validate:"required"`
	LastName            string  `json:"last_name" validate:"required"`
	EmailWork           string  `json:"email_work" validate:"required,email"`
	EmailPersonal       *string `json:"email_personal" validate:"omitempty,email"`
	PhoneNumberWork     *string `json:"phone_number_work"`
	PhoneNumberPersonal *string `json:"phone_number_personal"`
	IsActive            bool    `json:"is_active"`
	ActiveEndDate       *string `json:"active_end_date"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch users")
		return
	}
	httpx.JSON(w, http.StatusOK, users)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
			return
		}
		h.logger.Error("get user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	startDate := time.Now().UTC()
	if req.ActiveStartDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.ActiveStartDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "active_start_date must be RFC3339")
			return
		}
		startDate = parsed
	}

	actor := actorID(r)
	user, err := h.service.CreateUser(r.Context(), NewUser{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		LoginID:             req.LoginID,
		EmailWork:           req.EmailWork,
		EmailPersonal:       req.EmailPersonal,
		PhoneNumberWork:     req.PhoneNumberWork,
		PhoneNumberPersonal: req.PhoneNumberPersonal,
		IsActive:            req.IsActive,
		ActiveStartDate:     startDate,
		Password:            req.Password,
		ActorID:             actor,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateLogin) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "login id already exists")
			return
		}
		h.logger.Error("create user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to create user")
		return
	}

	h.record(r, "user.create", user.ID)
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var endDate *time.Time
	if req.ActiveEndDate != nil && *req.ActiveEndDate != "" {
		parsed, err := time.Parse(time.RFC3339, *req.ActiveEndDate)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "active_end_date must be RFC3339")
			return
		}
		endDate = &parsed
	}

	id := chi.URLParam(r, "id")
	user, err := h.service.UpdateUser(r.Context(), id, UpdateUser{
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		EmailWork:           req.EmailWork,
		EmailPersonal:       req.EmailPersonal,
		PhoneNumberWork:     req.PhoneNumberWork,
		PhoneNumberPersonal: req.PhoneNumberPersonal,
		IsActive:            req.IsActive,
		ActiveEndDate:       endDate,
		ActorID:             actorID(r),
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
			return
		}
		h.logger.Error("update user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to update user")
		return
	}

	h.record(r, "user.update", id)
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteUser(r.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "user not found")
			return
		}
		h.logger.Error("delete user", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete user")
		return
	}
	h.record(r, "user.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "user", EntityID: entityID}
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
