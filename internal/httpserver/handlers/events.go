package handlers

import (
	"net/http"
	"time"

	"github.com/MrSnakeDoc/blockpanel/internal/events"
	"github.com/MrSnakeDoc/blockpanel/internal/httpserver/deps"
	"github.com/MrSnakeDoc/blockpanel/internal/logger"
)

const defaultHeartbeat = 15 * time.Second

// Events streams panel changes as server-sent events. The first event is
// "connected"; clients refetch /api/state on reconnect.
func Events(d deps.Deps) http.HandlerFunc {
	heartbeat := d.Heartbeat
	if heartbeat <= 0 {
		heartbeat = defaultHeartbeat
	}

	return func(w http.ResponseWriter, r *http.Request) {
		rc := http.NewResponseController(w)

		ch, cleanup, ok := d.Broker.Subscribe(r.Context())
		defer cleanup()
		if !ok {
			writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "too many connections"})
			return
		}

		// The stream outlives the server write timeout.
		_ = rc.SetWriteDeadline(time.Time{})

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		hello := events.Event{Type: events.TypeConnected, Data: map[string]string{"locale": string(d.Panel.Locale())}}
		if err := events.Write(w, hello); err != nil {
			return
		}
		if err := rc.Flush(); err != nil {
			d.Logger.Debug("event stream not flushable", logger.Error(err))
			return
		}

		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case ev, open := <-ch:
				if !open {
					return
				}
				if err := events.Write(w, ev); err != nil {
					d.Logger.Debug("event stream closed", logger.Error(err))
					return
				}
			case <-ticker.C:
				if _, err := w.Write([]byte(": heartbeat\n\n")); err != nil {
					return
				}
			case <-r.Context().Done():
				return
			}
			if err := rc.Flush(); err != nil {
				return
			}
		}
	}
}
