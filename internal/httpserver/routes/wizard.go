package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/mw"
)

func init() { Register(registerWizard) }

func registerWizard(r chi.Router, d deps.Deps) {
	r.Route("/api/wizard", func(r chi.Router) {
		r.Use(timeout(d))
		r.Get("/", handlers.GetWizard(d))

		r.Group(func(r chi.Router) {
			r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
			r.Put("/acknowledgements/{index}", handlers.SetAcknowledgement(d))
			r.Post("/submit", handlers.SubmitWizard(d))
			r.Post("/confirm", handlers.ConfirmWizard(d))
			r.Post("/cancel", handlers.CancelWizard(d))
		})
	})
}
