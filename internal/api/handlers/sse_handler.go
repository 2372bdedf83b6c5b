package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/harborcare/opdflow/internal/domain/providers"
)

// SSEHandler streams queue events to dashboards and waiting-room displays
// over Server-Sent Events
type SSEHandler struct {
	eventBus providers.EventBus
}

// NewSSEHandler creates a new SSE handler
func NewSSEHandler(eventBus providers.EventBus) *SSEHandler {
	return &SSEHandler{eventBus: eventBus}
}

// StreamDoctorQueue handles GET /api/doctors/{id}/stream
func (h *SSEHandler) StreamDoctorQueue(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	channel := providers.GetDoctorChannel(doctorID)
	eventChan, err := h.eventBus.Subscribe(r.Context(), channel)
	if err != nil {
		log.Error().Err(err).Str("channel", channel).Msg("failed to subscribe to queue events")
		respondWithError(w, http.StatusInternalServerError, "failed to subscribe to queue events")
		return
	}

	h.sendEvent(w, "connected", map[string]interface{}{
		"doctor_id": doctorID,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	heartbeat := time.NewTicker(30 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("doctor_id", doctorID).Msg("client disconnected from queue stream")
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		case event, open := <-eventChan:
			if !open {
				return
			}
			h.sendEvent(w, string(event.Type), event)
			flusher.Flush()
		}
	}
}

func (h *SSEHandler) sendEvent(w http.ResponseWriter, name string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal SSE payload")
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}
