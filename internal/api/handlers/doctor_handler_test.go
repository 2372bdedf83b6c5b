package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harborcare/opdflow/internal/api/handlers"
	"github.com/harborcare/opdflow/internal/application/services"
	"github.com/harborcare/opdflow/internal/domain/entities"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

type MockDoctorQueueService struct {
	mock.Mock
}

func (m *MockDoctorQueueService) GetQueue(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.QueueEntry), args.Error(1)
}

func (m *MockDoctorQueueService) GetCurrent(ctx context.Context, doctorID string) (*entities.QueueEntry, error) {
	args := m.Called(ctx, doctorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.QueueEntry), args.Error(1)
}

func (m *MockDoctorQueueService) StartConsultation(ctx context.Context, doctorID, queueID string) error {
	args := m.Called(ctx, doctorID, queueID)
	return args.Error(0)
}

func (m *MockDoctorQueueService) EndConsultation(ctx context.Context, doctorID, queueID, diagnosis, notes string) (*services.ConsultationResult, error) {
	args := m.Called(ctx, doctorID, queueID, diagnosis, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ConsultationResult), args.Error(1)
}

func TestDoctorHandler_GetQueue(t *testing.T) {
	t.Run("returns the waiting list with its count", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("GetQueue", mock.Anything, "doc-1").Return([]*entities.QueueEntry{
			{ID: "q-1", TokenNumber: "CARD-001", QueuePosition: 1},
			{ID: "q-2", TokenNumber: "CARD-002", QueuePosition: 2},
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/doctors/doc-1/queue", nil)
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.GetQueue(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var payload struct {
			TotalWaiting int                    `json:"total_waiting"`
			Queue        []*entities.QueueEntry `json:"queue"`
		}
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
		assert.Equal(t, 2, payload.TotalWaiting)
		assert.Len(t, payload.Queue, 2)
	})

	t.Run("unknown doctor returns 404", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("GetQueue", mock.Anything, "doc-9").
			Return(nil, apperrors.NewNotFoundError("doctor doc-9 not found"))

		req := httptest.NewRequest(http.MethodGet, "/api/doctors/doc-9/queue", nil)
		req.SetPathValue("id", "doc-9")
		rec := httptest.NewRecorder()

		handler.GetQueue(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDoctorHandler_GetCurrent(t *testing.T) {
	t.Run("idle doctor reports no patient", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("GetCurrent", mock.Anything, "doc-1").Return(nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/doctors/doc-1/current", nil)
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.GetCurrent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "no patient in consultation")
	})

	t.Run("returns the entry in progress", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("GetCurrent", mock.Anything, "doc-1").Return(&entities.QueueEntry{
			ID:          "q-1",
			TokenNumber: "CARD-004",
			Status:      entities.QueueStatusInProgress,
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/doctors/doc-1/current", nil)
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.GetCurrent(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "CARD-004")
	})
}

func TestDoctorHandler_StartConsultation(t *testing.T) {
	t.Run("starts the consultation", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("StartConsultation", mock.Anything, "doc-1", "q-1").Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/api/doctors/doc-1/start-consultation",
			strings.NewReader(`{"queue_id":"q-1"}`))
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.StartConsultation(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
		service.AssertExpectations(t)
	})

	t.Run("busy doctor returns 409", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("StartConsultation", mock.Anything, "doc-1", "q-2").
			Return(apperrors.NewInvalidStateError("doctor already has a consultation in progress"))

		req := httptest.NewRequest(http.MethodPost, "/api/doctors/doc-1/start-consultation",
			strings.NewReader(`{"queue_id":"q-2"}`))
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.StartConsultation(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("missing queue_id returns 400", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/api/doctors/doc-1/start-consultation",
			strings.NewReader(`{}`))
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.StartConsultation(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "StartConsultation")
	})
}

func TestDoctorHandler_EndConsultation(t *testing.T) {
	t.Run("ends the consultation and names the next patient", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		nextID := "q-2"
		nextToken := "CARD-005"
		service.On("EndConsultation", mock.Anything, "doc-1", "q-1", "stable angina", "follow up in 2 weeks").
			Return(&services.ConsultationResult{
				ActualMinutes:   20,
				NextQueueID:     &nextID,
				NextTokenNumber: &nextToken,
			}, nil)

		body := `{"queue_id":"q-1","diagnosis":"stable angina","notes":"follow up in 2 weeks"}`
		req := httptest.NewRequest(http.MethodPost, "/api/doctors/doc-1/end-consultation",
			strings.NewReader(body))
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.EndConsultation(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var result services.ConsultationResult
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, 20, result.ActualMinutes)
		if assert.NotNil(t, result.NextTokenNumber) {
			assert.Equal(t, "CARD-005", *result.NextTokenNumber)
		}
	})

	t.Run("no consultation in progress returns 409", func(t *testing.T) {
		service := new(MockDoctorQueueService)
		handler := handlers.NewDoctorHandler(service)

		service.On("EndConsultation", mock.Anything, "doc-1", "q-1", "", "").
			Return(nil, apperrors.NewInvalidStateError("no consultation in progress for this queue entry"))

		req := httptest.NewRequest(http.MethodPost, "/api/doctors/doc-1/end-consultation",
			strings.NewReader(`{"queue_id":"q-1"}`))
		req.SetPathValue("id", "doc-1")
		rec := httptest.NewRecorder()

		handler.EndConsultation(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}
