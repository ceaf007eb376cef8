package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/mw"
)

func init() { Register(registerApps) }

func registerApps(r chi.Router, d deps.Deps) {
	r.Route("/api/apps", func(r chi.Router) {
		r.Use(timeout(d))
		r.Get("/", handlers.ListApps(d))

		r.Group(func(r chi.Router) {
			r.Use(mw.EnforceHost(d.AllowedHosts, d.Logger))
			r.With(mw.RateLimit(mw.RateLimitConfig{
				Burst:      d.AddRateLimit.Burst,
				PerMinute:  d.AddRateLimit.PerMinute,
				TrustProxy: d.TrustProxy,
				Now:        d.TimeNow,
			})).Post("/", handlers.AddApp(d))
			r.Post("/{id}/toggle", handlers.ToggleApp(d))
			r.Post("/{id}/delete", handlers.DeleteApp(d))
		})
	})
}
