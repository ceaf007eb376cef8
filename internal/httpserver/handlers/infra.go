package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/lockdown"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
)

type componentStatus struct {
	OK     bool   `json:"ok"`
	Mode   string `json:"mode,omitempty"`
	Impact string `json:"impact,omitempty"`
	Error  string `json:"error,omitempty"`
	Count  *int   `json:"count,omitempty"`
}

type infraResponse struct {
	Mode       string                     `json:"mode"`
	Lockdown   bool                       `json:"lockdown"`
	Remaining  string                     `json:"remaining,omitempty"`
	Components map[string]componentStatus `json:"components"`
}

// Infra reports the state of every component for operators.
func Infra(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps := len(d.Panel.Apps())
		subscribers := d.Broker.ClientCount()

		components := map[string]componentStatus{
			"registry": {OK: true, Count: &apps},
			"redis":    checkRedis(r.Context(), d),
			"resolver": {OK: true, Mode: d.ResolverMode},
			"events":   {OK: true, Count: &subscribers},
		}

		st := d.Panel.Lockdown()
		resp := infraResponse{
			Mode:       determineMode(components, st),
			Lockdown:   st.Active,
			Components: components,
		}
		if st.Active {
			resp.Remaining = lockdown.FormatRemaining(st.Remaining)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func determineMode(components map[string]componentStatus, st lockdown.State) string {
	if st.Active {
		return "lockdown"
	}
	if redis, ok := components["redis"]; ok && !redis.OK {
		return "degraded"
	}
	return "operational"
}

func checkRedis(ctx context.Context, d deps.Deps) componentStatus {
	if err := pingRedis(ctx, d); err != nil {
		return componentStatus{
			OK:     false,
			Impact: "lockdown-not-persisted",
			Error:  err.Error(),
		}
	}
	return componentStatus{OK: true, Mode: "persistent"}
}

// FlushResolverCache drops every cached resolution.
func FlushResolverCache(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ResolverCache == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "resolver cache disabled"})
			return
		}
		if err := d.ResolverCache.FlushCache(r.Context()); err != nil {
			d.Logger.Error("failed to flush resolver cache", logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		d.Logger.Info("resolver cache flushed")
		w.WriteHeader(http.StatusNoContent)
	}
}

// InvalidateResolution drops the cached resolution of one application name.
func InvalidateResolution(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.ResolverCache == nil {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "resolver cache disabled"})
			return
		}
		name := chi.URLParam(r, "name")
		if err := d.ResolverCache.InvalidateCache(r.Context(), name); err != nil {
			d.Logger.Error("failed to invalidate resolution",
				logger.String("name", name),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
