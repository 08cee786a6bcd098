package sse

import (
	"fmt"
	"net/http"
	"time"

	"tcs-portal/internal/logger"
	"tcs-portal/internal/store"
)

// Handler streams store change notifications as Server-Sent Events. Open
// views subscribe here and refresh the affected collection whenever its
// key is announced; this is the HTTP rendition of the cross-view refresh
// signal.
type Handler struct {
	Bus store.Bus
	Log *logger.Logger

	// HeartbeatInterval keeps proxies from closing an idle stream.
	HeartbeatInterval time.Duration
}

func NewHandler(bus store.Bus, log *logger.Logger) *Handler {
	return &Handler{Bus: bus, Log: log, HeartbeatInterval: 30 * time.Second}
}

// Stream holds the connection open and writes one "change" event per
// store write, with the changed key as the data line.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	changed, cancel := h.Bus.Subscribe()
	defer cancel()

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()
	h.Log.Info("SSE", "Client connected to store change stream")

	heartbeat := time.NewTicker(h.HeartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			h.Log.Debug("SSE", "Client disconnected from store change stream")
			return
		case key, ok := <-changed:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: change\ndata: %s\n\n", key)
			flusher.Flush()
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		}
	}
}
