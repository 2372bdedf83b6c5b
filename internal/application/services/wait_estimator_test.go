package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/harborcare/opdflow/internal/application/services"
	"github.com/harborcare/opdflow/internal/domain/entities"
)

func waitingEntry(id, doctorID string, position int) *entities.QueueEntry {
	return &entities.QueueEntry{
		ID:            id,
		DoctorID:      doctorID,
		QueuePosition: position,
		Status:        entities.QueueStatusWaiting,
	}
}

func TestWaitTimeEstimator_Estimate(t *testing.T) {
	now := time.Date(2026, time.March, 10, 10, 0, 0, 0, time.UTC)
	doctor := &entities.Doctor{ID: "doc-1", AverageConsultationMinutes: 10}

	t.Run("adds remaining consultation time to positional wait", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		started := now.Add(-4 * time.Minute)
		current := &entities.QueueEntry{
			ID:                    "q-current",
			DoctorID:              "doc-1",
			Status:                entities.QueueStatusInProgress,
			ConsultationStartTime: &started,
		}

		queue.On("GetByID", mock.Anything, "q-3").Return(waitingEntry("q-3", "doc-1", 3), nil)
		doctors.On("GetByID", mock.Anything, "doc-1").Return(doctor, nil)
		queue.On("GetInProgress", mock.Anything, "doc-1").Return(current, nil)
		// 6 minutes left of the current consultation + 2 patients ahead x 10
		queue.On("UpdateEstimate", mock.Anything, "q-3", 26).Return(nil)

		minutes, err := estimator.Estimate(context.Background(), "q-3")

		assert.NoError(t, err)
		assert.Equal(t, 26, minutes)
		queue.AssertExpectations(t)
	})

	t.Run("idle doctor and first position waits zero", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		queue.On("GetByID", mock.Anything, "q-1").Return(waitingEntry("q-1", "doc-1", 1), nil)
		doctors.On("GetByID", mock.Anything, "doc-1").Return(doctor, nil)
		queue.On("GetInProgress", mock.Anything, "doc-1").Return(nil, nil)
		queue.On("UpdateEstimate", mock.Anything, "q-1", 0).Return(nil)

		minutes, err := estimator.Estimate(context.Background(), "q-1")

		assert.NoError(t, err)
		assert.Equal(t, 0, minutes)
	})

	t.Run("overrunning consultation contributes no remaining time", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		started := now.Add(-25 * time.Minute)
		current := &entities.QueueEntry{
			ID:                    "q-current",
			DoctorID:              "doc-1",
			Status:                entities.QueueStatusInProgress,
			ConsultationStartTime: &started,
		}

		queue.On("GetByID", mock.Anything, "q-2").Return(waitingEntry("q-2", "doc-1", 2), nil)
		doctors.On("GetByID", mock.Anything, "doc-1").Return(doctor, nil)
		queue.On("GetInProgress", mock.Anything, "doc-1").Return(current, nil)
		queue.On("UpdateEstimate", mock.Anything, "q-2", 10).Return(nil)

		minutes, err := estimator.Estimate(context.Background(), "q-2")

		assert.NoError(t, err)
		assert.Equal(t, 10, minutes)
	})

	t.Run("fractional estimates truncate to whole minutes", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		fractional := &entities.Doctor{ID: "doc-1", AverageConsultationMinutes: 12.5}

		queue.On("GetByID", mock.Anything, "q-3").Return(waitingEntry("q-3", "doc-1", 3), nil)
		doctors.On("GetByID", mock.Anything, "doc-1").Return(fractional, nil)
		queue.On("GetInProgress", mock.Anything, "doc-1").Return(nil, nil)
		queue.On("UpdateEstimate", mock.Anything, "q-3", 25).Return(nil)

		minutes, err := estimator.Estimate(context.Background(), "q-3")

		assert.NoError(t, err)
		assert.Equal(t, 25, minutes)
	})

	t.Run("doctor without history falls back to the default average", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		unproven := &entities.Doctor{ID: "doc-1", AverageConsultationMinutes: 0}

		queue.On("GetByID", mock.Anything, "q-2").Return(waitingEntry("q-2", "doc-1", 2), nil)
		doctors.On("GetByID", mock.Anything, "doc-1").Return(unproven, nil)
		queue.On("GetInProgress", mock.Anything, "doc-1").Return(nil, nil)
		queue.On("UpdateEstimate", mock.Anything, "q-2", 15).Return(nil)

		minutes, err := estimator.Estimate(context.Background(), "q-2")

		assert.NoError(t, err)
		assert.Equal(t, 15, minutes)
	})

	t.Run("entry no longer waiting estimates zero without lookups", func(t *testing.T) {
		queue := new(MockQueueRepository)
		doctors := new(MockDoctorRepository)
		estimator := services.NewWaitTimeEstimator(queue, doctors, fixedClock{now: now}, 15)

		entry := waitingEntry("q-done", "doc-1", 0)
		entry.Status = entities.QueueStatusCompleted
		queue.On("GetByID", mock.Anything, "q-done").Return(entry, nil)

		minutes, err := estimator.Estimate(context.Background(), "q-done")

		assert.NoError(t, err)
		assert.Equal(t, 0, minutes)
		doctors.AssertNotCalled(t, "GetByID")
		queue.AssertNotCalled(t, "UpdateEstimate")
	})
}
