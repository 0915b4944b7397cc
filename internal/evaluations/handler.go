package evaluations

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

// Handler manages KPI and score endpoints.
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

// MountRoutes registers evaluation routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.rbac.RequireAny(rbac.CapKPI))
		r.Get("/kpis", h.listKPIs)
		r.Post("/kpis", h.createKPI)
		r.Put("/kpis/{id}", h.updateKPI)
		r.Delete("/kpis/{id}", h.deleteKPI)
		r.Post("/scores", h.recordScore)
		r.Get("/summary", h.summary)
	})
}

type kpiRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description *string `json:"description"`
	Weight      float64 `json:"weight" validate:"required,gt=0"`
}

func (h *Handler) listKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.ListKPIs(r.Context())
	if err != nil {
		h.logger.Error("list kpis", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to fetch kpis")
		return
	}
	httpx.JSON(w, http.StatusOK, kpis)
}

func (h *Handler) createKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	k, err := h.service.CreateKPI(r.Context(), KPI{Name: req.Name, Description: req.Description, Weight: req.Weight}, actorID(r))
	if err != nil {
		if errors.Is(err, ErrDuplicateKPI) {
			httpx.Problem(w, http.StatusConflict, "Duplicate", "kpi name already exists")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid KPI", err.Error())
		return
	}
	h.record(r, "kpi.create", k.ID)
	httpx.JSON(w, http.StatusCreated, k)
}

func (h *Handler) updateKPI(w http.ResponseWriter, r *http.Request) {
	var req kpiRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	k, err := h.service.UpdateKPI(r.Context(), KPI{ID: id, Name: req.Name, Description: req.Description, Weight: req.Weight}, actorID(r))
	if err != nil {
		if errors.Is(err, ErrKPINotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no kpi found with the given ID")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid KPI", err.Error())
		return
	}
	h.record(r, "kpi.update", id)
	httpx.JSON(w, http.StatusOK, k)
}

func (h *Handler) deleteKPI(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.service.DeleteKPI(r.Context(), id); err != nil {
		if errors.Is(err, ErrKPINotFound) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no kpi found with the given ID")
			return
		}
		h.logger.Error("delete kpi", slog.Any("error", err))
		httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "failed to delete kpi")
		return
	}
	h.record(r, "kpi.delete", id)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "kpi deleted successfully"})
}

type scoreRequest struct {
	UserID string  `json:"user_id" validate:"required"`
	KPIID  string  `json:"kpi_id" validate:"required"`
	Period string  `json:"period" validate:"required"`
	Value  float64 `json:"value"`
	Note   *string `json:"note"`
}

func (h *Handler) recordScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Invalid Payload", "malformed request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	score := Score{UserID: req.UserID, KPIID: req.KPIID, Period: req.Period, Value: req.Value, Note: req.Note}
	saved, err := h.service.RecordScore(r.Context(), score, actorID(r))
	if err != nil {
		if errors.Is(err, ErrKPINotFound) {
			httpx.Problem(w, http.StatusBadRequest, "Invalid Score", "kpi not found")
			return
		}
		httpx.Problem(w, http.StatusBadRequest, "Invalid Score", err.Error())
		return
	}
	h.record(r, "kpi_score.record", saved.ID)
	httpx.JSON(w, http.StatusCreated, saved)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	summary, err := h.service.Summary(r.Context(), q.Get("user_id"), q.Get("period"))
	if err != nil {
		switch {
		case errors.Is(err, ErrSummaryNotFound):
			httpx.Problem(w, http.StatusNotFound, "Not Found", "no summary calculated for this user and period")
		case errors.Is(err, ErrInvalidPeriod):
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		default:
			httpx.Problem(w, http.StatusBadRequest, "Invalid Request", err.Error())
		}
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) record(r *http.Request, action, entityID string) {
	if h.audit == nil {
		return
	}
	rec := shared.ActionRecord{ActorID: actorID(r), Action: action, Entity: "kpi", EntityID: entityID}
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
