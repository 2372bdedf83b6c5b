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

var queueColumns = []interface{}{
	"queue_id", "patient_id", "doctor_id", "department_id", "token_number",
	"visit_type", "symptom_severity", "age", "has_chronic_condition",
	"is_emergency", "priority_score", "queue_position", "status", "notes",
	"check_in_time", "consultation_start_time", "consultation_end_time",
	"estimated_wait_minutes", "created_at", "updated_at",
}

// QueueAdapter implements the QueueRepository interface
type QueueAdapter struct {
	run runner
}

// NewQueueAdapter creates a new queue adapter over the pooled connection
func NewQueueAdapter(client *postgres.Client) repositories.QueueRepository {
	return &QueueAdapter{run: client.DB()}
}

func newQueueAdapter(run runner) *QueueAdapter {
	return &QueueAdapter{run: run}
}

// Create inserts a new queue entry
func (a *QueueAdapter) Create(ctx context.Context, entry *entities.QueueEntry) error {
	record := goqu.Record{
		"queue_id":                entry.ID,
		"patient_id":              entry.PatientID,
		"doctor_id":               entry.DoctorID,
		"department_id":           entry.DepartmentID,
		"token_number":            entry.TokenNumber,
		"visit_type":              entry.VisitType,
		"symptom_severity":        entry.SymptomSeverity,
		"age":                     entry.Age,
		"has_chronic_condition":   entry.HasChronicCondition,
		"is_emergency":            entry.IsEmergency,
		"priority_score":          entry.PriorityScore,
		"queue_position":          entry.QueuePosition,
		"status":                  entry.Status,
		"notes":                   entry.Notes,
		"check_in_time":           entry.CheckInTime,
		"consultation_start_time": entry.ConsultationStartTime,
		"consultation_end_time":   entry.ConsultationEndTime,
		"estimated_wait_minutes":  entry.EstimatedWaitMinutes,
		"created_at":              entry.CreatedAt,
		"updated_at":              entry.UpdatedAt,
	}

	query, args, err := dialect.Insert("queue_entries").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}
	if _, err := a.run.ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to create queue entry", err)
	}
	return nil
}

// GetByID retrieves a queue entry by ID
func (a *QueueAdapter) GetByID(ctx context.Context, id string) (*entities.QueueEntry, error) {
	query, args, err := dialect.Select(queueColumns...).
		From("queue_entries").
		Where(goqu.Ex{"queue_id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry, err := scanQueueEntry(a.run.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get queue entry", err)
	}
	return entry, nil
}

// ListWaiting retrieves a doctor's Waiting entries ordered by position
func (a *QueueAdapter) ListWaiting(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	query, args, err := dialect.Select(queueColumns...).
		From("queue_entries").
		Where(goqu.Ex{
			"doctor_id": doctorID,
			"status":    entities.QueueStatusWaiting,
		}).
		Order(goqu.I("queue_position").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.run.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list waiting entries", err)
	}
	defer rows.Close()

	var entries []*entities.QueueEntry
	for rows.Next() {
		entry, err := scanQueueEntry(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan queue entry", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read waiting entries", err)
	}
	return entries, nil
}

// GetInProgress retrieves the doctor's In_Progress entry, or nil
func (a *QueueAdapter) GetInProgress(ctx context.Context, doctorID string) (*entities.QueueEntry, error) {
	query, args, err := dialect.Select(queueColumns...).
		From("queue_entries").
		Where(goqu.Ex{
			"doctor_id": doctorID,
			"status":    entities.QueueStatusInProgress,
		}).
		Order(goqu.I("consultation_start_time").Desc()).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	entry, err := scanQueueEntry(a.run.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get in-progress entry", err)
	}
	return entry, nil
}

// CountByDepartmentBetween counts entries checked in to a department within
// [from, to)
func (a *QueueAdapter) CountByDepartmentBetween(ctx context.Context, departmentID string, from, to time.Time) (int, error) {
	query, args, err := dialect.Select(goqu.COUNT("*")).
		From("queue_entries").
		Where(
			goqu.Ex{"department_id": departmentID},
			goqu.I("check_in_time").Gte(from),
			goqu.I("check_in_time").Lt(to),
		).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.run.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count department check-ins", err)
	}
	return count, nil
}

// ApplyPositions writes recomputed positions and wait estimates
func (a *QueueAdapter) ApplyPositions(ctx context.Context, updates []repositories.PositionUpdate) error {
	now := time.Now()
	for _, update := range updates {
		query, args, err := dialect.Update("queue_entries").
			Set(goqu.Record{
				"queue_position":         update.Position,
				"estimated_wait_minutes": update.EstimatedWaitMinutes,
				"updated_at":             now,
			}).
			Where(goqu.Ex{"queue_id": update.QueueID}).
			ToSQL()
		if err != nil {
			return apperrors.NewInternalError("failed to build position update", err)
		}
		if _, err := a.run.ExecContext(ctx, query, args...); err != nil {
			return apperrors.NewInternalError("failed to apply queue position", err)
		}
	}
	return nil
}

// MarkInProgress transitions an entry to In_Progress
func (a *QueueAdapter) MarkInProgress(ctx context.Context, id string, startedAt time.Time) error {
	return a.transition(ctx, id, goqu.Record{
		"status":                  entities.QueueStatusInProgress,
		"consultation_start_time": startedAt,
		"updated_at":              startedAt,
	})
}

// MarkCompleted transitions an entry to Completed
func (a *QueueAdapter) MarkCompleted(ctx context.Context, id string, endedAt time.Time) error {
	return a.transition(ctx, id, goqu.Record{
		"status":                entities.QueueStatusCompleted,
		"consultation_end_time": endedAt,
		"updated_at":            endedAt,
	})
}

// UpdateEstimate stores a freshly computed wait estimate
func (a *QueueAdapter) UpdateEstimate(ctx context.Context, id string, minutes int) error {
	return a.transition(ctx, id, goqu.Record{
		"estimated_wait_minutes": minutes,
		"updated_at":             time.Now(),
	})
}

func (a *QueueAdapter) transition(ctx context.Context, id string, record goqu.Record) error {
	query, args, err := dialect.Update("queue_entries").
		Set(record).
		Where(goqu.Ex{"queue_id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.run.ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update queue entry", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("queue entry %s not found", id))
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanQueueEntry(row rowScanner) (*entities.QueueEntry, error) {
	entry := &entities.QueueEntry{}
	var notes sql.NullString
	var startTime, endTime sql.NullTime

	err := row.Scan(
		&entry.ID,
		&entry.PatientID,
		&entry.DoctorID,
		&entry.DepartmentID,
		&entry.TokenNumber,
		&entry.VisitType,
		&entry.SymptomSeverity,
		&entry.Age,
		&entry.HasChronicCondition,
		&entry.IsEmergency,
		&entry.PriorityScore,
		&entry.QueuePosition,
		&entry.Status,
		&notes,
		&entry.CheckInTime,
		&startTime,
		&endTime,
		&entry.EstimatedWaitMinutes,
		&entry.CreatedAt,
		&entry.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	entry.Notes = notes.String
	if startTime.Valid {
		entry.ConsultationStartTime = &startTime.Time
	}
	if endTime.Valid {
		entry.ConsultationEndTime = &endTime.Time
	}
	return entry, nil
}
