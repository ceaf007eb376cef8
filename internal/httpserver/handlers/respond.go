package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/i18n"
	"github.com/MrSnakeDoc/blockpanel/internal/panel"
	"github.com/MrSnakeDoc/blockpanel/internal/registry"
	"github.com/MrSnakeDoc/blockpanel/internal/wizard"
)

const maxBodyBytes = 4 << 10

type errorResponse struct {
	Error  string        `json:"error"`
	Notice *panel.Notice `json:"notice,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err to a status code and writes {error, notice}. The notice
// carries the localized text when the error has one.
func writeError(w http.ResponseWriter, err error, l i18n.Locale) {
	resp := errorResponse{Error: err.Error()}
	if key, ok := panel.NoticeKey(err); ok {
		resp.Notice = &panel.Notice{Key: string(key), Text: i18n.T(l, key)}
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest),
		errors.Is(err, panel.ErrEmptyName),
		errors.Is(err, wizard.ErrAcknowledgementIndex):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, panel.ErrAddInProgress),
		errors.Is(err, panel.ErrUnblockRestricted),
		errors.Is(err, wizard.ErrNotReady),
		errors.Is(err, wizard.ErrClosed):
		return http.StatusConflict
	case errors.Is(err, panel.ErrResolveFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

var errBadRequest = errors.New("bad request")

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", errBadRequest, err)
	}
	return nil
}

// localeFor returns the locale a response is rendered in: ?lang= when given,
// the panel's current locale otherwise.
func localeFor(r *http.Request, d deps.Deps) i18n.Locale {
	current := d.Panel.Locale()
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return i18n.Match(lang, current)
	}
	return current
}
