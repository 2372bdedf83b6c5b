package repositories

import (
	"context"

	"github.com/harborcare/opdflow/internal/domain/entities"
)

// ConsultationRepository defines the interface for consultation history
// operations
type ConsultationRepository interface {
	// Create records a completed consultation
	Create(ctx context.Context, record *entities.ConsultationRecord) error

	// MeanDurationMinutes returns the mean consultation duration and the
	// number of completed consultations for a doctor. count is 0 when the
	// doctor has no history yet.
	MeanDurationMinutes(ctx context.Context, doctorID string) (mean float64, count int, err error)
}
