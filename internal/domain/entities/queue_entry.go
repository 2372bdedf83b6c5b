package entities

import (
	"time"
)

// QueueStatus represents the lifecycle state of a queue entry
type QueueStatus string

const (
	QueueStatusWaiting    QueueStatus = "Waiting"
	QueueStatusInProgress QueueStatus = "In_Progress"
	QueueStatusCompleted  QueueStatus = "Completed"
)

// QueueEntry represents one patient's place in a doctor's outpatient queue.
// While the entry is Waiting its position is owned by the queue service;
// once Completed it only lives on as history.
type QueueEntry struct {
	ID                    string      `json:"queue_id" db:"queue_id"`
	PatientID             string      `json:"patient_id" db:"patient_id"`
	DoctorID              string      `json:"doctor_id" db:"doctor_id"`
	DepartmentID          string      `json:"department_id" db:"department_id"`
	TokenNumber           string      `json:"token_number" db:"token_number"`
	VisitType             VisitType   `json:"visit_type" db:"visit_type"`
	SymptomSeverity       Severity    `json:"symptom_severity" db:"symptom_severity"`
	Age                   int         `json:"age" db:"age"`
	HasChronicCondition   bool        `json:"has_chronic_condition" db:"has_chronic_condition"`
	IsEmergency           bool        `json:"is_emergency" db:"is_emergency"`
	PriorityScore         int         `json:"priority_score" db:"priority_score"`
	QueuePosition         int         `json:"queue_position" db:"queue_position"`
	Status                QueueStatus `json:"status" db:"status"`
	Notes                 string      `json:"notes" db:"notes"`
	CheckInTime           time.Time   `json:"check_in_time" db:"check_in_time"`
	ConsultationStartTime *time.Time  `json:"consultation_start_time,omitempty" db:"consultation_start_time"`
	ConsultationEndTime   *time.Time  `json:"consultation_end_time,omitempty" db:"consultation_end_time"`
	EstimatedWaitMinutes  int         `json:"estimated_wait_minutes" db:"estimated_wait_minutes"`
	CreatedAt             time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time   `json:"updated_at" db:"updated_at"`
}

// IsWaiting reports whether the entry is still in the waiting list
func (e *QueueEntry) IsWaiting() bool {
	return e.Status == QueueStatusWaiting
}
