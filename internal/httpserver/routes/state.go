package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/mw"
)

func init() { Register(registerState) }

func registerState(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(timeout(d))
		r.Get("/api/state", handlers.State(d))
		r.Get("/api/lockdown", handlers.Lockdown(d))
		r.Get("/api/locale", handlers.GetLocale(d))
		r.With(mw.EnforceHost(d.AllowedHosts, d.Logger)).Put("/api/locale", handlers.SetLocale(d))
	})
}
