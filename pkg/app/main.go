package app

import (
	"github.com/ghuser/shoppinglist/pkg/blob"
	"github.com/ghuser/shoppinglist/pkg/cache"
	"github.com/ghuser/shoppinglist/pkg/config"
	"github.com/ghuser/shoppinglist/pkg/database"
	"github.com/ghuser/shoppinglist/pkg/events"
	"github.com/ghuser/shoppinglist/pkg/logger"
	"github.com/ghuser/shoppinglist/pkg/realtime"
	"github.com/ghuser/shoppinglist/pkg/workflows"
)

// Application holds shared infrastructure dependencies for all services.
// Pass it to every service's Routes call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "item bought", "item_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Optional collaborators are nil when disabled: EventBus outside Postgres mode,
// Blob when BLOB_ENABLED is false, Temporal when TEMPORAL_ENABLED is false.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Blob     *blob.Store
	Temporal *workflows.TemporalClient
	Hub      *realtime.Hub
}
