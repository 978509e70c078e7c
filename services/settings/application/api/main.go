package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shoppinglist/services/settings/application/handlers"
	appsvcs "github.com/ghuser/shoppinglist/services/settings/application/services"
)

// SettingsRoutes registers settings endpoints on the provided chi router.
func SettingsRoutes(r chi.Router, svcs *appsvcs.Services) {
	image := handlers.NewBackgroundImageHandler(svcs)
	r.Route("/settings", func(r chi.Router) {
		r.Get("/", handlers.NewGetSettingsHandler(svcs).Execute)
		r.Patch("/", handlers.NewPatchSettingsHandler(svcs).Execute)
		r.Get("/appearance", handlers.NewGetAppearanceHandler(svcs).Execute)
		r.Get("/background-image", image.Get)
		r.Put("/background-image", image.Put)
		r.Delete("/background-image", image.Delete)
	})
}
