package handlers

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
	"github.com/MrSnakeDoc/blockpanel/internal/panel"
	"github.com/MrSnakeDoc/blockpanel/internal/wizard"
)

//go:embed templates/page.html
var templatesFS embed.FS

var pageTemplate = template.Must(
	template.New("page.html").
		Funcs(template.FuncMap{
			"step": func(s wizard.Step) string { return string(s) },
			"acks": func() []int {
				out := make([]int, wizard.Acknowledgements)
				for i := range out {
					out[i] = i
				}
				return out
			},
		}).
		ParseFS(templatesFS, "templates/page.html"),
)

type pageData struct {
	panel.View
	T func(key string) string
}

// Page renders the control panel.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view := d.Panel.State(localeFor(r, d))
		data := pageData{
			View: view,
			T: func(key string) string {
				if s, ok := view.Strings[key]; ok {
					return s
				}
				return key
			},
		}

		var buf bytes.Buffer
		if err := pageTemplate.Execute(&buf, data); err != nil {
			d.Logger.Error("failed to render page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(buf.Bytes())
	}
}
