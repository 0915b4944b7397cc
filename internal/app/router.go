package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/epes-hq/epes/internal/actions"
	"github.com/epes-hq/epes/internal/auth"
	"github.com/epes-hq/epes/internal/branches"
	"github.com/epes-hq/epes/internal/evaluations"
	"github.com/epes-hq/epes/internal/grants"
	"github.com/epes-hq/epes/internal/history"
	"github.com/epes-hq/epes/internal/observability"
	"github.com/epes-hq/epes/internal/projects"
	"github.com/epes-hq/epes/internal/rbac"
	"github.com/epes-hq/epes/internal/roles"
	"github.com/epes-hq/epes/internal/tasks"
	"github.com/epes-hq/epes/internal/users"
	"github.com/epes-hq/epes/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	AuthHandler       *auth.Handler
	AuthMiddleware    auth.Middleware
	NavigationHandler *rbac.NavigationHandler
	UsersHandler      *users.Handler
	RolesHandler      *roles.Handler
	ActionsHandler    *actions.Handler
	BranchesHandler   *branches.Handler
	GrantsHandler     *grants.Handler
	HistoryHandler    *history.Handler
	ProjectsHandler   *projects.Handler
	TasksHandler      *tasks.Handler
	EvalHandler       *evaluations.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with EPES defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/auth", params.AuthHandler.MountRoutes)

	r.Route("/protected", func(r chi.Router) {
		r.Use(params.AuthMiddleware.RequireToken)

		if params.NavigationHandler != nil {
			r.Route("/navigation", params.NavigationHandler.MountRoutes)
		}
		if params.UsersHandler != nil {
			r.Route("/user", params.UsersHandler.MountRoutes)
		}
		if params.RolesHandler != nil {
			r.Route("/role", params.RolesHandler.MountRoutes)
		}
		if params.ActionsHandler != nil {
			r.Route("/action", params.ActionsHandler.MountRoutes)
		}
		if params.BranchesHandler != nil {
			r.Route("/branch", params.BranchesHandler.MountRoutes)
		}
		if params.GrantsHandler != nil {
			params.GrantsHandler.MountRoutes(r)
		}
		if params.HistoryHandler != nil {
			r.Route("/action-history", params.HistoryHandler.MountRoutes)
		}
		if params.ProjectsHandler != nil {
			r.Route("/project", params.ProjectsHandler.MountRoutes)
		}
		if params.TasksHandler != nil {
			r.Route("/task", params.TasksHandler.MountRoutes)
		}
		if params.EvalHandler != nil {
			r.Route("/kpi", params.EvalHandler.MountRoutes)
		}
	})

	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
