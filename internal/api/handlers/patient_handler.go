package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harborcare/opdflow/internal/application/services"
)

// PatientQueueService defines the patient-facing queue operations
type PatientQueueService interface {
	CheckIn(ctx context.Context, req services.CheckInRequest) (*services.CheckInResult, error)
	GetStatus(ctx context.Context, queueID string) (*services.QueueStatusView, error)
}

// PatientHandler handles patient check-in and queue status requests
type PatientHandler struct {
	service PatientQueueService
}

// NewPatientHandler creates a new patient handler
func NewPatientHandler(service PatientQueueService) *PatientHandler {
	return &PatientHandler{service: service}
}

// CheckIn handles POST /api/patients/checkin
func (h *PatientHandler) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req services.CheckInRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	result, err := h.service.CheckIn(r.Context(), req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, result)
}

// GetStatus handles GET /api/patients/queue-status/{queueId}
func (h *PatientHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	queueID := r.PathValue("queueId")
	if queueID == "" {
		respondWithError(w, http.StatusBadRequest, "queue ID is required")
		return
	}

	status, err := h.service.GetStatus(r.Context(), queueID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, status)
}
