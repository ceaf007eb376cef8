package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/mw"
)

func init() { Register(registerInfra) }

func registerInfra(r chi.Router, d deps.Deps) {
	r.Group(func(r chi.Router) {
		r.Use(mw.AllowOnlyCIDRS(d.AllowedCIDRS, d.TrustProxy, d.Logger))
		r.Get("/infra", handlers.Infra(d))
		r.Delete("/infra/resolver-cache", handlers.FlushResolverCache(d))
		r.Delete("/infra/resolver-cache/{name}", handlers.InvalidateResolution(d))
		if d.Metrics != nil {
			r.Method("GET", "/metrics", d.Metrics)
		}
	})
}
