package repositories

import (
	"context"
	"time"

	"github.com/harborcare/opdflow/internal/domain/entities"
)

// PositionUpdate assigns a queue entry its recomputed position and wait
// estimate during a reorder
type PositionUpdate struct {
	QueueID              string
	Position             int
	EstimatedWaitMinutes int
}

// QueueRepository defines the interface for queue entry data operations
type QueueRepository interface {
	// Create inserts a new queue entry
	Create(ctx context.Context, entry *entities.QueueEntry) error

	// GetByID retrieves a queue entry by ID
	GetByID(ctx context.Context, id string) (*entities.QueueEntry, error)

	// ListWaiting retrieves a doctor's Waiting entries ordered by position
	ListWaiting(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error)

	// GetInProgress retrieves the doctor's In_Progress entry, or nil if the
	// doctor is not consulting anyone
	GetInProgress(ctx context.Context, doctorID string) (*entities.QueueEntry, error)

	// CountByDepartmentBetween counts entries checked in to a department in
	// the half-open interval [from, to). Token sequences are derived from
	// this same-day count.
	CountByDepartmentBetween(ctx context.Context, departmentID string, from, to time.Time) (int, error)

	// ApplyPositions writes recomputed positions and wait estimates. Callers
	// that need the reorder to be atomic run this inside a UnitOfWork.
	ApplyPositions(ctx context.Context, updates []PositionUpdate) error

	// MarkInProgress transitions an entry to In_Progress
	MarkInProgress(ctx context.Context, id string, startedAt time.Time) error

	// MarkCompleted transitions an entry to Completed
	MarkCompleted(ctx context.Context, id string, endedAt time.Time) error

	// UpdateEstimate stores a freshly computed wait estimate for one entry
	UpdateEstimate(ctx context.Context, id string, minutes int) error
}
