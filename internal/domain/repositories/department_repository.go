package repositories

import (
	"context"

	"github.com/harborcare/opdflow/internal/domain/entities"
)

// DepartmentRepository defines the interface for department data operations
type DepartmentRepository interface {
	// GetByID retrieves a department by ID
	GetByID(ctx context.Context, id string) (*entities.Department, error)
}
