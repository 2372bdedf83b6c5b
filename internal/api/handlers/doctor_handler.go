package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/harborcare/opdflow/internal/application/services"
	"github.com/harborcare/opdflow/internal/domain/entities"
)

// DoctorQueueService defines the doctor-facing queue operations
type DoctorQueueService interface {
	GetQueue(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error)
	GetCurrent(ctx context.Context, doctorID string) (*entities.QueueEntry, error)
	StartConsultation(ctx context.Context, doctorID, queueID string) error
	EndConsultation(ctx context.Context, doctorID, queueID, diagnosis, notes string) (*services.ConsultationResult, error)
}

// DoctorHandler handles doctor queue management requests
type DoctorHandler struct {
	service DoctorQueueService
}

// NewDoctorHandler creates a new doctor handler
func NewDoctorHandler(service DoctorQueueService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

// GetQueue handles GET /api/doctors/{id}/queue
func (h *DoctorHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	queue, err := h.service.GetQueue(r.Context(), doctorID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"total_waiting": len(queue),
		"queue":         queue,
	})
}

// GetCurrent handles GET /api/doctors/{id}/current
func (h *DoctorHandler) GetCurrent(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")
	if doctorID == "" {
		respondWithError(w, http.StatusBadRequest, "doctor ID is required")
		return
	}

	current, err := h.service.GetCurrent(r.Context(), doctorID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}
	if current == nil {
		respondWithJSON(w, http.StatusOK, map[string]string{
			"message": "no patient in consultation",
		})
		return
	}

	respondWithJSON(w, http.StatusOK, current)
}

type startConsultationRequest struct {
	QueueID string `json:"queue_id"`
}

// StartConsultation handles POST /api/doctors/{id}/start-consultation
func (h *DoctorHandler) StartConsultation(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")

	var req startConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.QueueID == "" {
		respondWithError(w, http.StatusBadRequest, "queue_id is required")
		return
	}

	if err := h.service.StartConsultation(r.Context(), doctorID, req.QueueID); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"message": "consultation started",
	})
}

type endConsultationRequest struct {
	QueueID   string `json:"queue_id"`
	Diagnosis string `json:"diagnosis"`
	Notes     string `json:"notes"`
}

// EndConsultation handles POST /api/doctors/{id}/end-consultation
func (h *DoctorHandler) EndConsultation(w http.ResponseWriter, r *http.Request) {
	doctorID := r.PathValue("id")

	var req endConsultationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if req.QueueID == "" {
		respondWithError(w, http.StatusBadRequest, "queue_id is required")
		return
	}

	result, err := h.service.EndConsultation(r.Context(), doctorID, req.QueueID, req.Diagnosis, req.Notes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
