package handlers

import (
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
)

type localeRequest struct {
	Locale string `json:"locale"`
}

type localeResponse struct {
	Locale    i18n.Locale   `json:"locale"`
	Default   i18n.Locale   `json:"default,omitempty"`
	Supported []i18n.Locale `json:"supported"`
}

func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Panel.State(localeFor(r, d)))
	}
}

func Lockdown(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Panel.State(localeFor(r, d)).Lockdown)
	}
}

func GetLocale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, localeResponse{Locale: d.Panel.Locale(), Default: d.DefaultLocale, Supported: i18n.Supported})
	}
}

func SetLocale(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		current := d.Panel.Locale()

		var req localeRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, current)
			return
		}
		l, err := i18n.ParseLocale(req.Locale)
		if err != nil {
			writeError(w, fmt.Errorf("%w: %w", errBadRequest, err), current)
			return
		}

		d.Panel.SetLocale(l)
		writeJSON(w, http.StatusOK, localeResponse{Locale: l, Default: d.DefaultLocale, Supported: i18n.Supported})
	}
}
