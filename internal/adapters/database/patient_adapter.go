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

// PatientAdapter implements the PatientRepository interface
type PatientAdapter struct {
	run runner
}

// NewPatientAdapter creates a new patient adapter over the pooled connection
func NewPatientAdapter(client *postgres.Client) repositories.PatientRepository {
	return &PatientAdapter{run: client.DB()}
}

// GetByID retrieves a patient by ID
func (a *PatientAdapter) GetByID(ctx context.Context, id string) (*entities.Patient, error) {
	query, args, err := dialect.Select(
		"patient_id", "first_name", "last_name", "phone",
		"date_of_birth", "chronic_conditions", "created_at", "updated_at",
	).From("patients").
		Where(goqu.Ex{"patient_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	patient := &entities.Patient{}
	var phone, conditions sql.NullString
	err = a.run.QueryRowContext(ctx, query, args...).Scan(
		&patient.ID,
		&patient.FirstName,
		&patient.LastName,
		&phone,
		&patient.DateOfBirth,
		&conditions,
		&patient.CreatedAt,
		&patient.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("patient %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get patient", err)
	}

	patient.Phone = phone.String
	patient.ChronicConditions = conditions.String
	return patient, nil
}
