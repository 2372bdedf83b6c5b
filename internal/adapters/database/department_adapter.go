package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/doug-martin/goqu/v9"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/repositories"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// DepartmentAdapter implements the DepartmentRepository interface
type DepartmentAdapter struct {
	run runner
}

// NewDepartmentAdapter creates a new department adapter over the pooled
// connection
func NewDepartmentAdapter(client *postgres.Client) repositories.DepartmentRepository {
	return &DepartmentAdapter{run: client.DB()}
}

// GetByID retrieves a department by ID
func (a *DepartmentAdapter) GetByID(ctx context.Context, id string) (*entities.Department, error) {
	query, args, err := dialect.Select(
		"department_id", "name", "department_code", "created_at",
	).From("departments").
		Where(goqu.Ex{"department_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	department := &entities.Department{}
	err = a.run.QueryRowContext(ctx, query, args...).Scan(
		&department.ID,
		&department.Name,
		&department.Code,
		&department.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("department %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get department", err)
	}
	return department, nil
}
