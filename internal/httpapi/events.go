package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// eventsHandler streams manager state snapshots as server-sent events, one
// JSON object per mutation. Delivery is latest-wins: a slow client sees the
// newest state, not every intermediate one.
func eventsHandler(svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			writeJSONError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")

		snapshots, cancel := svc.Subscribe()
		defer cancel()

		joined, stop := joinContexts(serverBaseCtx, r.Context())
		defer stop()

		for {
			select {
			case snap, open := <-snapshots:
				if !open {
					return
				}
				b, err := json.Marshal(snap)
				if err != nil {
					continue
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", b); err != nil {
					return
				}
				flusher.Flush()
			case <-joined.Done():
				return
			}
		}
	}
}
