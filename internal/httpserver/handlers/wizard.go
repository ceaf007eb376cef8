package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
)

type acknowledgementRequest struct {
	Checked bool `json:"checked"`
}

func GetWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Panel.Wizard())
	}
}

func SetAcknowledgement(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		l := localeFor(r, d)

		i, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil {
			writeError(w, fmt.Errorf("%w: index must be an integer", errBadRequest), l)
			return
		}

		var req acknowledgementRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err, l)
			return
		}

		snap, err := d.Panel.SetAcknowledgement(i, req.Checked)
		if err != nil {
			writeError(w, err, l)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func SubmitWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, err := d.Panel.SubmitAcknowledgements()
		if err != nil {
			writeError(w, err, localeFor(r, d))
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

// ConfirmWizard deletes the wizard's target. 409 until the countdown ends.
func ConfirmWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := d.Panel.ConfirmDelete()
		if err != nil {
			writeError(w, err, localeFor(r, d))
			return
		}
		writeJSON(w, http.StatusOK, removed)
	}
}

func CancelWizard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Panel.CancelDelete())
	}
}
