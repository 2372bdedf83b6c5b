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
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

type MockPatientQueueService struct {
	mock.Mock
}

func (m *MockPatientQueueService) CheckIn(ctx context.Context, req services.CheckInRequest) (*services.CheckInResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.CheckInResult), args.Error(1)
}

func (m *MockPatientQueueService) GetStatus(ctx context.Context, queueID string) (*services.QueueStatusView, error) {
	args := m.Called(ctx, queueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.QueueStatusView), args.Error(1)
}

func TestPatientHandler_CheckIn(t *testing.T) {
	t.Run("successful check-in returns 201 with token", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		service.On("CheckIn", mock.Anything, mock.MatchedBy(func(req services.CheckInRequest) bool {
			return req.PatientID == "pat-1" && req.DoctorID == "doc-1"
		})).Return(&services.CheckInResult{
			QueueID:              "q-1",
			TokenNumber:          "CARD-001",
			PriorityScore:        10,
			QueuePosition:        1,
			EstimatedWaitMinutes: 0,
		}, nil)

		body := `{"patient_id":"pat-1","doctor_id":"doc-1","department_id":"dept-card","visit_type":"Walk-in"}`
		req := httptest.NewRequest(http.MethodPost, "/api/patients/checkin", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)

		var result services.CheckInResult
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
		assert.Equal(t, "CARD-001", result.TokenNumber)
		assert.Equal(t, 1, result.QueuePosition)
		service.AssertExpectations(t)
	})

	t.Run("malformed body returns 400", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		req := httptest.NewRequest(http.MethodPost, "/api/patients/checkin", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "CheckIn")
	})

	t.Run("validation failure returns 400", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		service.On("CheckIn", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewValidationError("patient_id is required"))

		req := httptest.NewRequest(http.MethodPost, "/api/patients/checkin", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "patient_id is required")
	})

	t.Run("unknown doctor returns 404", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		service.On("CheckIn", mock.Anything, mock.Anything).
			Return(nil, apperrors.NewNotFoundError("doctor doc-9 not found"))

		body := `{"patient_id":"pat-1","doctor_id":"doc-9","department_id":"dept-card"}`
		req := httptest.NewRequest(http.MethodPost, "/api/patients/checkin", strings.NewReader(body))
		rec := httptest.NewRecorder()

		handler.CheckIn(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestPatientHandler_GetStatus(t *testing.T) {
	t.Run("returns the queue status view", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		service.On("GetStatus", mock.Anything, "q-1").Return(&services.QueueStatusView{
			QueueID:              "q-1",
			TokenNumber:          "CARD-003",
			QueuePosition:        2,
			EstimatedWaitMinutes: 20,
			Status:               "Waiting",
		}, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/patients/queue-status/q-1", nil)
		req.SetPathValue("queueId", "q-1")
		rec := httptest.NewRecorder()

		handler.GetStatus(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var view services.QueueStatusView
		assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
		assert.Equal(t, "CARD-003", view.TokenNumber)
		assert.Equal(t, 20, view.EstimatedWaitMinutes)
	})

	t.Run("unknown queue entry returns 404", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		service.On("GetStatus", mock.Anything, "q-missing").
			Return(nil, apperrors.NewNotFoundError("queue entry q-missing not found"))

		req := httptest.NewRequest(http.MethodGet, "/api/patients/queue-status/q-missing", nil)
		req.SetPathValue("queueId", "q-missing")
		rec := httptest.NewRecorder()

		handler.GetStatus(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing queue ID returns 400", func(t *testing.T) {
		service := new(MockPatientQueueService)
		handler := handlers.NewPatientHandler(service)

		req := httptest.NewRequest(http.MethodGet, "/api/patients/queue-status/", nil)
		rec := httptest.NewRecorder()

		handler.GetStatus(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		service.AssertNotCalled(t, "GetStatus")
	})
}
