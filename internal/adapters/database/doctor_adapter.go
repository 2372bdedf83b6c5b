package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/repositories"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// DoctorAdapter implements the DoctorRepository interface
type DoctorAdapter struct {
	run runner
}

// NewDoctorAdapter creates a new doctor adapter over the pooled connection
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{run: client.DB()}
}

func newDoctorAdapter(run runner) *DoctorAdapter {
	return &DoctorAdapter{run: run}
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id string) (*entities.Doctor, error) {
	query, args, err := dialect.Select(
		"doctor_id", "name", "department_id",
		"average_consultation_minutes", "current_status",
		"created_at", "updated_at",
	).From("doctors").
		Where(goqu.Ex{"doctor_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor := &entities.Doctor{}
	err = a.run.QueryRowContext(ctx, query, args...).Scan(
		&doctor.ID,
		&doctor.Name,
		&doctor.DepartmentID,
		&doctor.AverageConsultationMinutes,
		&doctor.Status,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}
	return doctor, nil
}

// UpdateStatus sets the doctor's availability
func (a *DoctorAdapter) UpdateStatus(ctx context.Context, id string, status entities.DoctorStatus) error {
	return a.update(ctx, id, goqu.Record{"current_status": status})
}

// UpdateAverageConsultation stores the doctor's recomputed mean consultation
// duration
func (a *DoctorAdapter) UpdateAverageConsultation(ctx context.Context, id string, minutes float64) error {
	return a.update(ctx, id, goqu.Record{"average_consultation_minutes": minutes})
}

func (a *DoctorAdapter) update(ctx context.Context, id string, record goqu.Record) error {
	record["updated_at"] = time.Now()

	query, args, err := dialect.Update("doctors").
		Set(record).
		Where(goqu.Ex{"doctor_id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.run.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update doctor", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor %s not found", id))
	}
	return nil
}
