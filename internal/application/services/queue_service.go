package services

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/harborcare/opdflow/internal/domain/entities"
	"github.com/harborcare/opdflow/internal/domain/providers"
	"github.com/harborcare/opdflow/internal/domain/repositories"
	"github.com/harborcare/opdflow/internal/infrastructure/observability"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// CheckInRequest is the input to a patient check-in
type CheckInRequest struct {
	PatientID       string             `json:"patient_id"`
	DoctorID        string             `json:"doctor_id"`
	DepartmentID    string             `json:"department_id"`
	VisitType       entities.VisitType `json:"visit_type"`
	SymptomSeverity entities.Severity  `json:"symptom_severity"`
	IsEmergency     bool               `json:"is_emergency"`
	Notes           string             `json:"notes"`
}

// CheckInResult is returned to the patient after a successful check-in
type CheckInResult struct {
	QueueID              string `json:"queue_id"`
	TokenNumber          string `json:"token_number"`
	PriorityScore        int    `json:"priority_score"`
	QueuePosition        int    `json:"queue_position"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
}

// ConsultationResult is returned when a consultation ends
type ConsultationResult struct {
	ActualMinutes   int     `json:"actual_consultation_minutes"`
	NextQueueID     *string `json:"next_queue_id,omitempty"`
	NextTokenNumber *string `json:"next_token_number,omitempty"`
}

// QueueStatusView is the patient-facing view of a queue entry
type QueueStatusView struct {
	QueueID              string               `json:"queue_id"`
	TokenNumber          string               `json:"token_number"`
	QueuePosition        int                  `json:"queue_position"`
	EstimatedWaitMinutes int                  `json:"estimated_wait_minutes"`
	Status               entities.QueueStatus `json:"status"`
	PriorityScore        int                  `json:"priority_score"`
}

// QueueService orders one doctor's waiting patients. Every mutation of a
// doctor's queue runs under that doctor's exclusive section: positions are
// recomputed in memory first, then written atomically through the unit of
// work, so readers never observe duplicate or gapped positions. Lock order
// is always doctor before department.
type QueueService struct {
	uow         repositories.UnitOfWork
	queue       repositories.QueueRepository
	patients    repositories.PatientRepository
	doctors     repositories.DoctorRepository
	departments repositories.DepartmentRepository

	scorer    *PriorityScorer
	tokens    *TokenIssuer
	estimator *WaitTimeEstimator

	bus     providers.EventBus
	clock   providers.Clock
	metrics *observability.Metrics

	doctorLocks     *keyedMutex
	departmentLocks *keyedMutex

	defaultAvgMinutes float64
}

// NewQueueService creates a new queue service. bus and metrics may be nil;
// event publication and metric recording are then skipped.
func NewQueueService(
	uow repositories.UnitOfWork,
	queue repositories.QueueRepository,
	patients repositories.PatientRepository,
	doctors repositories.DoctorRepository,
	departments repositories.DepartmentRepository,
	scorer *PriorityScorer,
	tokens *TokenIssuer,
	estimator *WaitTimeEstimator,
	bus providers.EventBus,
	clock providers.Clock,
	metrics *observability.Metrics,
	defaultAvgMinutes float64,
) *QueueService {
	return &QueueService{
		uow:               uow,
		queue:             queue,
		patients:          patients,
		doctors:           doctors,
		departments:       departments,
		scorer:            scorer,
		tokens:            tokens,
		estimator:         estimator,
		bus:               bus,
		clock:             clock,
		metrics:           metrics,
		doctorLocks:       newKeyedMutex(),
		departmentLocks:   newKeyedMutex(),
		defaultAvgMinutes: defaultAvgMinutes,
	}
}

// CheckIn admits a patient to a doctor's queue: scores the arrival, issues a
// token, inserts the entry, renumbers the queue, and returns the assigned
// position with its wait estimate.
func (s *QueueService) CheckIn(ctx context.Context, req CheckInRequest) (*CheckInResult, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	req.applyDefaults()

	s.doctorLocks.Lock(req.DoctorID)
	defer s.doctorLocks.Unlock(req.DoctorID)
	s.departmentLocks.Lock(req.DepartmentID)
	defer s.departmentLocks.Unlock(req.DepartmentID)

	doctor, err := s.doctors.GetByID(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	patient, err := s.patients.GetByID(ctx, req.PatientID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	arrival := entities.PatientArrival{
		IsEmergency:         req.IsEmergency,
		SymptomSeverity:     req.SymptomSeverity,
		Age:                 patient.AgeAt(now),
		HasChronicCondition: patient.HasChronicCondition(),
		VisitType:           req.VisitType,
	}
	score := s.scorer.Score(arrival)

	token, err := s.tokens.Issue(ctx, req.DepartmentID)
	if err != nil {
		return nil, err
	}

	entry := &entities.QueueEntry{
		ID:                  uuid.New().String(),
		PatientID:           req.PatientID,
		DoctorID:            req.DoctorID,
		DepartmentID:        req.DepartmentID,
		TokenNumber:         token,
		VisitType:           req.VisitType,
		SymptomSeverity:     req.SymptomSeverity,
		Age:                 arrival.Age,
		HasChronicCondition: arrival.HasChronicCondition,
		IsEmergency:         req.IsEmergency,
		PriorityScore:       score,
		Status:              entities.QueueStatusWaiting,
		Notes:               req.Notes,
		CheckInTime:         now,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	waiting, err := s.queue.ListWaiting(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}
	current, err := s.queue.GetInProgress(ctx, req.DoctorID)
	if err != nil {
		return nil, err
	}

	ordered := append(waiting, entry)
	updates := s.renumber(ordered, doctor, current, now)

	err = s.uow.WithinTx(ctx, func(repos repositories.TxRepositories) error {
		if err := repos.Queue().Create(ctx, entry); err != nil {
			return err
		}
		return repos.Queue().ApplyPositions(ctx, updates)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("queue_id", entry.ID).
		Str("doctor_id", req.DoctorID).
		Str("token", token).
		Int("priority_score", score).
		Int("position", entry.QueuePosition).
		Msg("patient checked in")

	s.publish(ctx, entities.QueueEventCheckIn, entry)
	if s.metrics != nil {
		observability.RecordCheckIn(ctx, s.metrics, req.DepartmentID, len(ordered))
	}

	return &CheckInResult{
		QueueID:              entry.ID,
		TokenNumber:          token,
		PriorityScore:        score,
		QueuePosition:        entry.QueuePosition,
		EstimatedWaitMinutes: entry.EstimatedWaitMinutes,
	}, nil
}

// Reorder recomputes positions and estimates for a doctor's waiting list and
// returns it in order. Reordering without an intervening mutation is a no-op
// on positions.
func (s *QueueService) Reorder(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	s.doctorLocks.Lock(doctorID)
	defer s.doctorLocks.Unlock(doctorID)
	return s.reorderLocked(ctx, doctorID)
}

func (s *QueueService) reorderLocked(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	waiting, err := s.queue.ListWaiting(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	current, err := s.queue.GetInProgress(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	updates := s.renumber(waiting, doctor, current, s.clock.Now())
	err = s.uow.WithinTx(ctx, func(repos repositories.TxRepositories) error {
		return repos.Queue().ApplyPositions(ctx, updates)
	})
	if err != nil {
		return nil, err
	}
	return waiting, nil
}

// StartConsultation transitions a waiting entry to In_Progress, marks the
// doctor busy, and rewrites the remaining waiting list's positions and
// estimates, all in one transaction. Fails with InvalidState if the doctor
// already has a consultation running or the entry is not waiting; queue state
// is untouched on failure.
func (s *QueueService) StartConsultation(ctx context.Context, doctorID, queueID string) error {
	if doctorID == "" || queueID == "" {
		return apperrors.NewValidationError("doctor_id and queue_id are required")
	}

	s.doctorLocks.Lock(doctorID)
	defer s.doctorLocks.Unlock(doctorID)

	entry, err := s.entryForDoctor(ctx, doctorID, queueID)
	if err != nil {
		return err
	}
	if entry.Status != entities.QueueStatusWaiting {
		return apperrors.NewInvalidStateError("queue entry is not waiting")
	}

	current, err := s.queue.GetInProgress(ctx, doctorID)
	if err != nil {
		return err
	}
	if current != nil {
		return apperrors.NewInvalidStateError("doctor already has a consultation in progress")
	}

	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return err
	}
	waiting, err := s.queue.ListWaiting(ctx, doctorID)
	if err != nil {
		return err
	}
	rest := make([]*entities.QueueEntry, 0, len(waiting))
	for _, w := range waiting {
		if w.ID != queueID {
			rest = append(rest, w)
		}
	}

	now := s.clock.Now()
	avg := s.effectiveAverage(doctor.AverageConsultationMinutes)
	err = s.uow.WithinTx(ctx, func(repos repositories.TxRepositories) error {
		if err := repos.Queue().MarkInProgress(ctx, queueID, now); err != nil {
			return err
		}
		if err := repos.Doctors().UpdateStatus(ctx, doctorID, entities.DoctorStatusBusy); err != nil {
			return err
		}

		// The consultation starts now; its full average lies ahead of
		// every waiting entry.
		updates := renumberWith(rest, avg, avg)
		return repos.Queue().ApplyPositions(ctx, updates)
	})
	if err != nil {
		return err
	}

	entry.Status = entities.QueueStatusInProgress
	s.publish(ctx, entities.QueueEventConsultationStart, entry)
	return nil
}

// EndConsultation transitions an In_Progress entry to Completed, records the
// consultation, folds its duration into the doctor's running mean, marks the
// doctor available, renumbers the remaining waiting list, and returns the
// next patient if any.
func (s *QueueService) EndConsultation(ctx context.Context, doctorID, queueID, diagnosis, notes string) (*ConsultationResult, error) {
	if doctorID == "" || queueID == "" {
		return nil, apperrors.NewValidationError("doctor_id and queue_id are required")
	}

	s.doctorLocks.Lock(doctorID)
	defer s.doctorLocks.Unlock(doctorID)

	entry, err := s.entryForDoctor(ctx, doctorID, queueID)
	if err != nil {
		return nil, err
	}
	if entry.Status != entities.QueueStatusInProgress || entry.ConsultationStartTime == nil {
		return nil, apperrors.NewInvalidStateError("no consultation in progress for this queue entry")
	}

	now := s.clock.Now()
	actual := int(now.Sub(*entry.ConsultationStartTime).Minutes())
	if actual < 0 {
		actual = 0
	}

	waiting, err := s.queue.ListWaiting(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(repos repositories.TxRepositories) error {
		if err := repos.Queue().MarkCompleted(ctx, queueID, now); err != nil {
			return err
		}

		record := &entities.ConsultationRecord{
			ID:            uuid.New().String(),
			QueueID:       queueID,
			PatientID:     entry.PatientID,
			DoctorID:      doctorID,
			ActualMinutes: actual,
			Diagnosis:     diagnosis,
			Notes:         notes,
			RecordedAt:    now,
		}
		if err := repos.Consultations().Create(ctx, record); err != nil {
			return err
		}

		mean, _, err := repos.Consultations().MeanDurationMinutes(ctx, doctorID)
		if err != nil {
			return err
		}
		if err := repos.Doctors().UpdateAverageConsultation(ctx, doctorID, mean); err != nil {
			return err
		}
		if err := repos.Doctors().UpdateStatus(ctx, doctorID, entities.DoctorStatusAvailable); err != nil {
			return err
		}

		// The doctor is idle again; remaining estimates are pure
		// position x mean.
		updates := renumberWith(waiting, s.effectiveAverage(mean), 0)
		return repos.Queue().ApplyPositions(ctx, updates)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("queue_id", queueID).
		Str("doctor_id", doctorID).
		Int("actual_minutes", actual).
		Msg("consultation completed")

	entry.Status = entities.QueueStatusCompleted
	s.publish(ctx, entities.QueueEventConsultationEnd, entry)
	if s.metrics != nil {
		observability.RecordConsultation(ctx, s.metrics, doctorID, actual)
	}

	result := &ConsultationResult{ActualMinutes: actual}
	if len(waiting) > 0 {
		result.NextQueueID = &waiting[0].ID
		result.NextTokenNumber = &waiting[0].TokenNumber
	}
	return result, nil
}

// GetQueue returns a doctor's waiting list in position order
func (s *QueueService) GetQueue(ctx context.Context, doctorID string) ([]*entities.QueueEntry, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.queue.ListWaiting(ctx, doctorID)
}

// GetCurrent returns the entry the doctor is consulting, or nil
func (s *QueueService) GetCurrent(ctx context.Context, doctorID string) (*entities.QueueEntry, error) {
	if _, err := s.doctors.GetByID(ctx, doctorID); err != nil {
		return nil, err
	}
	return s.queue.GetInProgress(ctx, doctorID)
}

// GetStatus returns the patient-facing view of a queue entry, refreshing the
// wait estimate for entries still waiting
func (s *QueueService) GetStatus(ctx context.Context, queueID string) (*QueueStatusView, error) {
	entry, err := s.queue.GetByID(ctx, queueID)
	if err != nil {
		return nil, err
	}

	if entry.IsWaiting() {
		s.doctorLocks.Lock(entry.DoctorID)
		estimate, err := s.estimator.Estimate(ctx, queueID)
		s.doctorLocks.Unlock(entry.DoctorID)
		if err != nil {
			return nil, err
		}
		entry.EstimatedWaitMinutes = estimate
	}

	return &QueueStatusView{
		QueueID:              entry.ID,
		TokenNumber:          entry.TokenNumber,
		QueuePosition:        entry.QueuePosition,
		EstimatedWaitMinutes: entry.EstimatedWaitMinutes,
		Status:               entry.Status,
		PriorityScore:        entry.PriorityScore,
	}, nil
}

// entryForDoctor loads a queue entry and checks it belongs to the doctor
func (s *QueueService) entryForDoctor(ctx context.Context, doctorID, queueID string) (*entities.QueueEntry, error) {
	entry, err := s.queue.GetByID(ctx, queueID)
	if err != nil {
		return nil, err
	}
	if entry.DoctorID != doctorID {
		return nil, apperrors.NewNotFoundError("queue entry not found for this doctor")
	}
	return entry, nil
}

// renumber sorts entries by the queue ordering rule, assigns dense 1..N
// positions, computes each entry's estimate, and returns the corresponding
// position updates. Entries are mutated in place.
func (s *QueueService) renumber(entries []*entities.QueueEntry, doctor *entities.Doctor, current *entities.QueueEntry, now time.Time) []repositories.PositionUpdate {
	avg := s.effectiveAverage(doctor.AverageConsultationMinutes)
	return renumberWith(entries, avg, remainingMinutes(current, avg, now))
}

func renumberWith(entries []*entities.QueueEntry, avgMinutes, remaining float64) []repositories.PositionUpdate {
	sortWaiting(entries)

	updates := make([]repositories.PositionUpdate, 0, len(entries))
	for i, entry := range entries {
		entry.QueuePosition = i + 1
		entry.EstimatedWaitMinutes = estimateMinutes(entry.QueuePosition, avgMinutes, remaining)
		updates = append(updates, repositories.PositionUpdate{
			QueueID:              entry.ID,
			Position:             entry.QueuePosition,
			EstimatedWaitMinutes: entry.EstimatedWaitMinutes,
		})
	}
	return updates
}

// sortWaiting applies the queue ordering rule: emergencies first, then higher
// priority score, then earlier check-in. The sort is stable, so equal entries
// keep their relative order across repeated reorders.
func sortWaiting(entries []*entities.QueueEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.IsEmergency != b.IsEmergency {
			return a.IsEmergency
		}
		if a.PriorityScore != b.PriorityScore {
			return a.PriorityScore > b.PriorityScore
		}
		return a.CheckInTime.Before(b.CheckInTime)
	})
}

func (s *QueueService) effectiveAverage(avg float64) float64 {
	if avg > 0 {
		return avg
	}
	return s.defaultAvgMinutes
}

func (s *QueueService) publish(ctx context.Context, eventType entities.QueueEventType, entry *entities.QueueEntry) {
	if s.bus == nil {
		return
	}
	event := &entities.QueueEvent{
		ID:           uuid.New().String(),
		Type:         eventType,
		QueueID:      entry.ID,
		DoctorID:     entry.DoctorID,
		DepartmentID: entry.DepartmentID,
		TokenNumber:  entry.TokenNumber,
		OccurredAt:   s.clock.Now(),
	}
	for _, channel := range []string{
		providers.EventChannelQueueUpdates,
		providers.GetDoctorChannel(entry.DoctorID),
	} {
		if err := s.bus.Publish(ctx, channel, event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to publish queue event")
		}
	}
}

func (r *CheckInRequest) validate() error {
	if r.PatientID == "" {
		return apperrors.NewValidationError("patient_id is required")
	}
	if r.DoctorID == "" {
		return apperrors.NewValidationError("doctor_id is required")
	}
	if r.DepartmentID == "" {
		return apperrors.NewValidationError("department_id is required")
	}
	return nil
}

func (r *CheckInRequest) applyDefaults() {
	if r.SymptomSeverity == "" {
		r.SymptomSeverity = entities.SeverityModerate
	}
	if r.VisitType == "" {
		r.VisitType = entities.VisitTypeWalkIn
	}
}
