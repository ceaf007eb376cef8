package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
)

type addRequest struct {
	Name string `json:"name"`
}

func ListApps(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Panel.Apps())
	}
}

// AddApp answers 201 with the new record, or 202 with the lockdown view when
// the name was forbidden.
func AddApp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := localeFor(r, d)

		var req addRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		res, err := d.Panel.Add(r.Context(), req.Name)
		if err != nil {
			writeError(w, err, l)
			return
		}

		if res.Lockdown {
			writeJSON(w, http.StatusAccepted, map[string]any{
				"lockdown": d.Panel.State(l).Lockdown,
			})
			return
		}
		writeJSON(w, http.StatusCreated, res.App)
	}
}

func ToggleApp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		app, err := d.Panel.ToggleStatus(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, localeFor(r, d))
			return
		}
		writeJSON(w, http.StatusOK, app)
	}
}

// DeleteApp opens the deletion wizard. During a lockdown nothing happens and
// the answer is 204.
func DeleteApp(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, opened, err := d.Panel.RequestDelete(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, err, localeFor(r, d))
			return
		}
		if !opened {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusAccepted, snap)
	}
}
