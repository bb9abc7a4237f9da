package handlers

import (
	"fmt"
	"net/http"

	"github.com/mdulin/tandem/internal/docstore"
	"github.com/mdulin/tandem/internal/roles"
)

// StreamHandler serves live document snapshots over server-sent events so
// the frontend can re-render on remote writes instead of polling.
type StreamHandler struct {
	store      *docstore.Store
	principals *PrincipalResolver
}

func NewStreamHandler(store *docstore.Store, principals *PrincipalResolver) *StreamHandler {
	return &StreamHandler{store: store, principals: principals}
}

// HandleTripsStream streams the trips document: the current snapshot
// immediately, then one event per write, until the client disconnects.
// Snapshots are whole documents, so each event carries more than a guest
// may see; the stream is limited to the household.
func (h *StreamHandler) HandleTripsStream(w http.ResponseWriter, r *http.Request) {
	principal, err := h.principals.Resolve(r.Context(), r.Header.Get("Cookie"))
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	if principal.Role.Level != roles.Owner && principal.Role.Level != roles.Companion {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	snapshots, cancel := h.store.Subscribe(docstore.KeyTrips)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case raw, ok := <-snapshots:
			if !ok {
				return
			}
			// Documents marshal compact, so one data line per event.
			fmt.Fprintf(w, "data: %s\n\n", raw)
			flusher.Flush()
		}
	}
}
