package api

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shoppinglist/pkg/app"
	"github.com/ghuser/shoppinglist/services/item/application/handlers"
	appsvcs "github.com/ghuser/shoppinglist/services/item/application/services"
)

// ItemRoutes registers item endpoints on the provided chi router.
func ItemRoutes(r chi.Router, svcs *appsvcs.Services) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", handlers.NewGetItemsHandler(svcs).Execute)
		r.Put("/input", handlers.NewPutInputHandler(svcs).Execute)
		r.Post("/submit", handlers.NewPostSubmitHandler(svcs).Execute)
		r.Get("/suggestions", handlers.NewGetSuggestionsHandler(svcs).Execute)
		r.Post("/suggestions/select", handlers.NewPostSelectSuggestionHandler(svcs).Execute)
		r.Post("/dedupe", handlers.NewPostDedupeHandler(svcs).Execute)

		r.Route("/{id}", func(r chi.Router) {
			r.Post("/increment", handlers.NewIncrementHandler(svcs).Execute)
			r.Post("/decrement", handlers.NewDecrementHandler(svcs).Execute)
			r.Post("/bought", handlers.NewMarkBoughtHandler(svcs).Execute)
			r.Post("/reactivate", handlers.NewReactivateHandler(svcs).Execute)
		})
	})
}

// StreamRoutes registers the websocket change feed and forwards every store
// change to connected clients. It returns the function that stops forwarding.
// Mount it on a router without timeouts or response-rewriting middleware.
//
//	@Summary		Item change stream
//	@Description	Websocket; each message is a ChangeMessage
//	@Tags			items
//	@Success		101	{object}	handlers.ChangeMessage
//	@Router			/items/stream [get]
func StreamRoutes(r chi.Router, svcs *appsvcs.Services, a *app.Application) (unsubscribe func()) {
	r.Get("/items/stream", a.Hub.ServeWS)

	return svcs.Store.Subscribe(func(ctx context.Context, c appsvcs.Change) {
		if err := a.Hub.Broadcast(handlers.NewChangeMessage(c)); err != nil {
			a.Logger.ErrorContext(ctx, "item change not broadcast", "error", err, "item_id", c.Item.ID)
		}
	})
}
