package repositories

import (
	"context"

	"github.com/harborcare/opdflow/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id string) (*entities.Doctor, error)

	// UpdateStatus sets the doctor's availability
	UpdateStatus(ctx context.Context, id string, status entities.DoctorStatus) error

	// UpdateAverageConsultation stores the doctor's recomputed mean
	// consultation duration
	UpdateAverageConsultation(ctx context.Context, id string, minutes float64) error
}
