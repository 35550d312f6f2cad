package api

import (
	"fmt"
	"net/http"
)

// handleEvents streams gallery change notifications as server-sent events.
// Each mutation produces one "changed" event with no payload; clients
// re-fetch /api/gallery to refresh.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	// Buffered with size 1: bursts of mutations coalesce into one event,
	// which is fine under invalidate-and-requery semantics.
	changes := make(chan struct{}, 1)
	token := s.gallery.Subscribe(func() {
		select {
		case changes <- struct{}{}:
		default:
		}
	})
	defer s.gallery.Unsubscribe(token)

	for {
		select {
		case <-r.Context().Done():
			return
		case <-changes:
			if _, err := fmt.Fprint(w, "event: changed\ndata: {}\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
