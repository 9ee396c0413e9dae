package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"feedbackhub/internal/domain/actionplan"
	"feedbackhub/internal/domain/dashboard"
	"feedbackhub/internal/domain/feedback"
	"feedbackhub/internal/domain/identity"
	"feedbackhub/internal/domain/notifications"
	"feedbackhub/internal/domain/reports"
	"feedbackhub/internal/platform/config"
	"feedbackhub/internal/platform/db"
	"feedbackhub/internal/platform/email"
	"feedbackhub/internal/platform/jobs"
	actionplanhandler "feedbackhub/internal/transport/http/handlers/actionplan"
	authhandler "feedbackhub/internal/transport/http/handlers/auth"
	dashboardhandler "feedbackhub/internal/transport/http/handlers/dashboard"
	feedbackhandler "feedbackhub/internal/transport/http/handlers/feedback"
	identityhandler "feedbackhub/internal/transport/http/handlers/identity"
	notificationshandler "feedbackhub/internal/transport/http/handlers/notifications"
	reportshandler "feedbackhub/internal/transport/http/handlers/reports"
	"feedbackhub/internal/transport/http/middleware"
)

type App struct {
	Config config.Config
	DB     *pgxpool.Pool
	Router http.Handler
	Jobs   *jobs.Service
}

// New connects, migrates, seeds, and wires the full router. Callers own
// the returned App and must Close it.
func New(ctx context.Context, cfg config.Config) (*App, error) {
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		dir := cfg.MigrationsDir
		if dir == "" {
			dir = "migrations"
		}
		if err := db.Migrate(ctx, pool, dir); err != nil {
			pool.Close()
			return nil, err
		}
	}

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			pool.Close()
			return nil, err
		}
	}

	users := identity.NewStore(pool)
	feedbacks := feedback.NewService(feedback.NewStore(pool), cfg.AcknowledgeGraceDays)
	plans := actionplan.NewService(actionplan.NewStore(pool))
	notifier := notifications.New(notifications.NewStore(pool), email.New(cfg), users, cfg.EmailFrom)
	sweeper := notifications.NewSweeper(pool, notifier, cfg.DeadlineLookaheadDays)
	jobService := jobs.New(pool, sweeper, cfg.SweepInterval)
	dashboards := dashboard.New(pool, feedbacks, plans, users)
	reportsService := reports.NewService(users, feedbacks, plans)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.Environment == "production"))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))
	router.Use(middleware.RateLimit(cfg.RateLimitPerMinute, time.Minute))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(users, cfg.JWTSecret, cfg.TokenTTL)
		r.With(middleware.LoginRateLimit(cfg.RateLimitPerMinute, time.Minute)).Post("/auth/login", authHandler.HandleLogin)
		r.With(middleware.RequireUser).Get("/auth/me", authHandler.HandleMe)

		identityhandler.NewHandler(users).RegisterRoutes(r)
		feedbackhandler.NewHandler(feedbacks, users, notifier, cfg.DefaultFeedbackCadence).RegisterRoutes(r)
		actionplanhandler.NewHandler(plans, feedbacks, users, notifier).RegisterRoutes(r)
		notificationshandler.NewHandler(notifier, jobService).RegisterRoutes(r)
		dashboardhandler.NewHandler(dashboards).RegisterRoutes(r)
		reportshandler.NewHandler(reportsService, users).RegisterRoutes(r)
	})

	return &App{
		Config: cfg,
		DB:     pool,
		Router: router,
		Jobs:   jobService,
	}, nil
}

func (a *App) Close() {
	a.DB.Close()
}

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := New(ctx, cfg)
	if err != nil {
		slog.Error("startup failed", "err", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Jobs.Start(ctx)

	srv := &http.Server{Addr: cfg.Addr, Handler: app.Router}
	go func() {
		slog.Info("server listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown failed", "err", err)
	}
}
