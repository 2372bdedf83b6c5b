package services

import (
	"context"
	"fmt"
	"time"

	"github.com/harborcare/opdflow/internal/domain/providers"
	"github.com/harborcare/opdflow/internal/domain/repositories"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// TokenIssuer generates department- and day-scoped display tokens like
// CARD-001. The sequence is the count of same-day check-ins for the
// department plus one, so it resets naturally at midnight without a persisted
// counter. Callers must hold the department's critical section across issue
// and insert, or concurrent check-ins could count the same day twice.
type TokenIssuer struct {
	departments repositories.DepartmentRepository
	queue       repositories.QueueRepository
	clock       providers.Clock
}

// NewTokenIssuer creates a new token issuer
func NewTokenIssuer(
	departments repositories.DepartmentRepository,
	queue repositories.QueueRepository,
	clock providers.Clock,
) *TokenIssuer {
	return &TokenIssuer{
		departments: departments,
		queue:       queue,
		clock:       clock,
	}
}

// Issue allocates the next display token for a department. Fails with
// NotFound if the department is unknown.
func (t *TokenIssuer) Issue(ctx context.Context, departmentID string) (string, error) {
	department, err := t.departments.GetByID(ctx, departmentID)
	if err != nil {
		return "", err
	}

	dayStart, dayEnd := calendarDayBounds(t.clock.Now())
	count, err := t.queue.CountByDepartmentBetween(ctx, departmentID, dayStart, dayEnd)
	if err != nil {
		return "", apperrors.NewInternalError("failed to count today's check-ins", err)
	}

	return fmt.Sprintf("%s-%03d", department.Code, count+1), nil
}

// calendarDayBounds returns the half-open [midnight, next midnight) interval
// containing now, in now's location
func calendarDayBounds(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 1)
}
