package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/epes-hq/epes/internal/actions"
	"github.com/epes-hq/epes/internal/app"
	"github.com/epes-hq/epes/internal/auth"
	"github.com/epes-hq/epes/internal/branches"
	"github.com/epes-hq/epes/internal/evaluations"
	"github.com/epes-hq/epes/internal/grants"
	"github.com/epes-hq/epes/internal/history"
	"github.com/epes-hq/epes/internal/observability"
	"github.com/epes-hq/epes/internal/platform/cache"
	"github.com/epes-hq/epes/internal/platform/db"
	"github.com/epes-hq/epes/internal/projects"
	"github.com/epes-hq/epes/internal/rbac"
	"github.com/epes-hq/epes/internal/roles"
	"github.com/epes-hq/epes/internal/shared"
	"github.com/epes-hq/epes/internal/tasks"
	"github.com/epes-hq/epes/internal/users"
	"github.com/epes-hq/epes/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessions := auth.NewSessionStore(redisClient)
	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo, sessions, cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(logger, authService)
	authMiddleware := auth.Middleware{Service: authService, Logger: logger}

	rbacMiddleware := rbac.Middleware{Catalog: rbac.DefaultCatalog, Logger: logger}
	navHandler := rbac.NewNavigationHandler(logger)

	auditLogger := shared.NewAuditLogger(dbpool)

	jobsClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init jobs client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobsClient.Close(); err != nil {
			logger.Warn("jobs client close", slog.Any("error", err))
		}
	}()

	usersService := users.NewService(users.NewRepository(dbpool))
	usersHandler := users.NewHandler(logger, usersService, auditLogger, rbacMiddleware)

	rolesService := roles.NewService(roles.NewRepository(dbpool))
	rolesHandler := roles.NewHandler(logger, rolesService, auditLogger, rbacMiddleware)

	actionsService := actions.NewService(actions.NewRepository(dbpool))
	actionsHandler := actions.NewHandler(logger, actionsService, auditLogger, rbacMiddleware)

	branchesService := branches.NewService(branches.NewRepository(dbpool))
	branchesHandler := branches.NewHandler(logger, branchesService, auditLogger, rbacMiddleware)

	grantsService := grants.NewService(grants.NewRepository(dbpool))
	grantsHandler := grants.NewHandler(logger, grantsService, auditLogger, rbacMiddleware)

	historyService := history.NewService(history.NewRepository(dbpool))
	historyHandler := history.NewHandler(logger, historyService, rbacMiddleware)

	projectsService := projects.NewService(projects.NewRepository(dbpool))
	projectsHandler := projects.NewHandler(logger, projectsService, auditLogger, rbacMiddleware)

	tasksService := tasks.NewService(tasks.NewRepository(dbpool))
	tasksHandler := tasks.NewHandler(logger, tasksService, auditLogger, rbacMiddleware)

	evalService := evaluations.NewService(evaluations.NewRepository(dbpool), jobsClient)
	evalHandler := evaluations.NewHandler(logger, evalService, auditLogger, rbacMiddleware)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		AuthHandler:       authHandler,
		AuthMiddleware:    authMiddleware,
		NavigationHandler: navHandler,
		UsersHandler:      usersHandler,
		RolesHandler:      rolesHandler,
		ActionsHandler:    actionsHandler,
		BranchesHandler:   branchesHandler,
		GrantsHandler:     grantsHandler,
		HistoryHandler:    historyHandler,
		ProjectsHandler:   projectsHandler,
		TasksHandler:      tasksHandler,
		EvalHandler:       evalHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
