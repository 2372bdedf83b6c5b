package services

import (
	"context"
	"time"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/providers"
	"github.com/harborcare/opdflow/internal/domain/repositories"
)

// WaitTimeEstimator projects minutes-to-consultation for waiting entries.
//
// estimate = remaining time of the current consultation (if the doctor is
// mid-consultation) + (position - 1) x the doctor's average consultation
// time. Estimates are recomputed synchronously after every mutation that
// invalidates them; they are never derived from a stale snapshot.
type WaitTimeEstimator struct {
	queue   repositories.QueueRepository
	doctors repositories.DoctorRepository
	clock   providers.Clock

	defaultAvgMinutes float64
}

// NewWaitTimeEstimator creates a new wait time estimator. defaultAvgMinutes
// stands in for doctors with no consultation history yet.
func NewWaitTimeEstimator(
	queue repositories.QueueRepository,
	doctors repositories.DoctorRepository,
	clock providers.Clock,
	defaultAvgMinutes float64,
) *WaitTimeEstimator {
	return &WaitTimeEstimator{
		queue:             queue,
		doctors:           doctors,
		clock:             clock,
		defaultAvgMinutes: defaultAvgMinutes,
	}
}

// Estimate computes and stores the wait estimate for one entry. Entries that
// are no longer waiting have nothing ahead of them; their estimate is 0.
func (e *WaitTimeEstimator) Estimate(ctx context.Context, queueID string) (int, error) {
	entry, err := e.queue.GetByID(ctx, queueID)
	if err != nil {
		return 0, err
	}
	if !entry.IsWaiting() {
		return 0, nil
	}

	doctor, err := e.doctors.GetByID(ctx, entry.DoctorID)
	if err != nil {
		return 0, err
	}
	current, err := e.queue.GetInProgress(ctx, entry.DoctorID)
	if err != nil {
		return 0, err
	}

	avg := e.effectiveAverage(doctor.AverageConsultationMinutes)
	minutes := estimateMinutes(
		entry.QueuePosition,
		avg,
		remainingMinutes(current, avg, e.clock.Now()),
	)

	if err := e.queue.UpdateEstimate(ctx, queueID, minutes); err != nil {
		return 0, err
	}
	return minutes, nil
}

func (e *WaitTimeEstimator) effectiveAverage(avg float64) float64 {
	if avg > 0 {
		return avg
	}
	return e.defaultAvgMinutes
}

// remainingMinutes is the projected remainder of the consultation in
// progress, floored at zero once it runs over the average. Zero when the
// doctor is idle.
func remainingMinutes(current *entities.QueueEntry, avgMinutes float64, now time.Time) float64 {
	if current == nil || current.ConsultationStartTime == nil {
		return 0
	}
	elapsed := now.Sub(*current.ConsultationStartTime).Minutes()
	if remaining := avgMinutes - elapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// estimateMinutes truncates to whole minutes, never negative
func estimateMinutes(position int, avgMinutes, remaining float64) int {
	ahead := position - 1
	if ahead < 0 {
		ahead = 0
	}
	minutes := int(remaining + float64(ahead)*avgMinutes)
	if minutes < 0 {
		return 0
	}
	return minutes
}
