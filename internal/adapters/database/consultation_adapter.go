package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/repositories"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// ConsultationAdapter implements the ConsultationRepository interface
type ConsultationAdapter struct {
	run runner
}

// NewConsultationAdapter creates a new consultation adapter over the pooled
// connection
func NewConsultationAdapter(client *postgres.Client) repositories.ConsultationRepository {
	return &ConsultationAdapter{run: client.DB()}
}

func newConsultationAdapter(run runner) *ConsultationAdapter {
	return &ConsultationAdapter{run: run}
}

// Create records a completed consultation
func (a *ConsultationAdapter) Create(ctx context.Context, record *entities.ConsultationRecord) error {
	row := goqu.Record{
		"consultation_id":             record.ID,
		"queue_id":                    record.QueueID,
		"patient_id":                  record.PatientID,
		"doctor_id":                   record.DoctorID,
		"actual_consultation_minutes": record.ActualMinutes,
		"diagnosis":                   record.Diagnosis,
		"consultation_notes":          record.Notes,
		"recorded_at":                 record.RecordedAt,
	}

	query, args, err := dialect.Insert("consultation_history").Rows(row).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.run.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to record consultation", err)
	}
	return nil
}

// MeanDurationMinutes returns the mean consultation duration and history
// count for a doctor
func (a *ConsultationAdapter) MeanDurationMinutes(ctx context.Context, doctorID string) (float64, int, error) {
	query, args, err := dialect.Select(
		goqu.AVG("actual_consultation_minutes"),
		goqu.COUNT("*"),
	).From("consultation_history").
		Where(goqu.Ex{"doctor_id": doctorID}).
		ToSQL()
	if err != nil {
		return 0, 0, apperrors.NewInternalError("failed to build query", err)
	}

	var mean sql.NullFloat64
	var count int
	if err := a.run.QueryRowContext(ctx, query, args...).Scan(&mean, &count); err != nil {
		return 0, 0, apperrors.NewInternalError("failed to compute mean consultation duration", err)
	}
	return mean.Float64, count, nil
}
