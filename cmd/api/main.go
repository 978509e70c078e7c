package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/shoppinglist/docs/swagger"
	"github.com/ghuser/shoppinglist/migrations"
	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/pkg/blob"
	"github.com/ghuser/shoppinglist/pkg/cache"
	"github.com/ghuser/shoppinglist/pkg/config"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/events"
	"github.com/ghuser/shoppinglist/pkg/httpx"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/migrator"
	"github.com/ghuser/shoppinglist/pkg/realtime"
	"github.com/ghuser/shoppinglist/pkg/telemetry"
	"github.com/ghuser/shoppinglist/pkg/workflows"
	itemApi "github.com/ghuser/shoppinglist/services/item/application/api"
	itemServices "github.com/ghuser/shoppinglist/services/item/application/services"
	settingsApi "github.com/ghuser/shoppinglist/services/settings/application/api"
	settingsServices "github.com/ghuser/shoppinglist/services/settings/application/services"
)

// @title					Shopping List API
// @version				1.0
// @description			Single-user shopping list: items, suggestions, bought history and appearance settings.
// @license.name			MIT
// @license.url			https://opensource.org/licenses/MIT
// @host					localhost:8080
// @BasePath				/api
// @schemes				http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	// Telemetry: OTel tracing + metrics
	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.Open(ctx, cfg, log)
	if err != nil {
		log.Error("failed to open store", "error", err, "driver", cfg.StoreDriver)
		os.Exit(1) //nolint:gocritic // intentional: startup failure, deferred flushes are best-effort
	}
	defer pool.Close() //nolint:errcheck
	log.Info("store opened", "driver", pool.Driver())

	if cfg.AutoMigrate {
		if err := migrator.Apply(pool, migrations.FS); err != nil {
			log.Error("failed to migrate store", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	a := &app.Application{
		Config: cfg,
		Db:     pool,
		Logger: log,
		Hub:    realtime.NewHub(log.With("component", "realtime"), httpx.OriginChecker(cfg.CORSAllowedOrigins)),
	}
	defer a.Hub.Close()

	// Health checks take nil interfaces for disabled dependencies, never typed nils.
	checks := httpx.HealthChecks{"database": pool, "event_bus": nil, "redis": nil, "blob": nil, "temporal": nil}

	if cfg.UsesPostgres() {
		eventBus, err := events.NewEventBus(pool.DB(), events.Options{Outbox: true}, log)
		if err != nil {
			log.Error("failed to setup event bus", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer eventBus.Close() //nolint:errcheck

		if err := eventBus.StartForwarder(ctx); err != nil {
			log.Error("failed to start event forwarder", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		a.EventBus = eventBus
		checks["event_bus"] = eventBus

		redisClient, err := cache.NewRedisClient(cfg)
		if err != nil {
			log.Warn("redis unavailable, mirror health will be reported as disabled", "error", err)
		} else {
			defer redisClient.Close() //nolint:errcheck
			a.Redis = redisClient
			checks["redis"] = redisClient
		}
	}

	if cfg.BlobEnabled {
		store, err := blob.NewS3Store(cfg)
		if err != nil {
			log.Error("failed to setup blob store", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		if err := store.EnsureBucket(ctx); err != nil {
			log.Warn("background image mirror bucket unavailable", "error", err, "bucket", store.Bucket())
		}
		a.Blob = store
		checks["blob"] = store
	}

	items, err := itemServices.New(ctx, a)
	if err != nil {
		log.Error("failed to load items", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	settings, err := settingsServices.New(ctx, a)
	if err != nil {
		log.Error("failed to load settings", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	if cfg.TemporalEnabled {
		tc, err := workflows.NewTemporalClient(ctx, cfg, log)
		if err != nil {
			log.Error("failed to initialize temporal client", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer tc.Close()
		a.Temporal = tc
		checks["temporal"] = tc

		w := workflows.NewDedupeWorker(tc, items.Store)
		if err := w.Start(); err != nil {
			log.Error("failed to start dedupe worker", "error", err)
			os.Exit(1) //nolint:gocritic
		}
		defer w.Stop()

		if err := workflows.StartDedupeSchedule(ctx, tc, cfg.DedupeSchedule, log); err != nil {
			log.Error("failed to schedule dedupe", "error", err)
			os.Exit(1) //nolint:gocritic
		}
	}

	mw := httpx.Middlewares{
		Logger:   logger.Middleware(log),
		Recovery: logger.Recovery(log),
		Sentry:   telemetry.SentryMiddleware(),
		Otel:     otelhttp.NewMiddleware(cfg.ServiceName),
	}

	api := httpx.NewRouter(httpx.ServerConfig{
		ServiceName:        cfg.ServiceName,
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}, mw)
	api.Get("/health", httpx.HealthHandler(checks))
	api.Get("/metrics", metricsHandler.ServeHTTP)
	api.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	api.Route("/api", func(r chi.Router) {
		registerRoutes(r, items, settings)
	})

	stream := httpx.StreamRouter(mw)
	var unsubscribe func()
	stream.Route("/api", func(r chi.Router) {
		unsubscribe = itemApi.StreamRoutes(r, items, a)
	})
	defer unsubscribe()

	// Handle (not Mount) keeps the full path for the stream router.
	root := chi.NewRouter()
	root.Handle("/api/items/stream", stream)
	root.Mount("/", api)

	srv := httpx.NewServer(cfg.HTTPAddr, root)

	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "driver", pool.Driver())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down...")
	a.Hub.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	stop()
	log.Info("server stopped")
}

// registerRoutes mounts all service routes under /api.
// Add each new service's route function here.
func registerRoutes(r chi.Router, items *itemServices.Services, settings *settingsServices.Services) {
	itemApi.ItemRoutes(r, items)
	settingsApi.SettingsRoutes(r, settings)
}
