package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"careerdash/internal/dashboard"
	"careerdash/internal/output"
)

// Events handles GET /api/events. It streams a "dashboard" event with the
// current view, then one per change. A slow client only sees the latest
// snapshot; intermediate ones are dropped.
func (s *Server) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		RespondWithError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	updates := make(chan dashboard.Snapshot, 1)
	cancel := s.eng.Subscribe(func(snap dashboard.Snapshot) {
		select {
		case <-updates:
		default:
		}
		updates <- snap
	})
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, s.eng.Snapshot()); err != nil {
		return
	}
	flusher.Flush()

	keepAlive := time.NewTicker(s.keepAlive)
	defer keepAlive.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap := <-updates:
			if err := writeEvent(w, snap); err != nil {
				s.logger.Debug("event stream closed", "error", err)
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
		}
		flusher.Flush()
	}
}

func writeEvent(w http.ResponseWriter, snap dashboard.Snapshot) error {
	data, err := json.Marshal(output.NewView(snap))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: dashboard\ndata: %s\n\n", data)
	return err
}
