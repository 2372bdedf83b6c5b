package entities

import (
	"time"
)

// QueueEventType classifies patient-flow events published on the event bus
type QueueEventType string

const (
	QueueEventCheckIn           QueueEventType = "check_in"
	QueueEventConsultationStart QueueEventType = "consultation_start"
	QueueEventConsultationEnd   QueueEventType = "consultation_end"
)

// QueueEvent is emitted after every committed queue mutation so dashboards
// and waiting-room displays can follow the queue live
type QueueEvent struct {
	ID           string         `json:"id"`
	Type         QueueEventType `json:"type"`
	QueueID      string         `json:"queue_id"`
	DoctorID     string         `json:"doctor_id"`
	DepartmentID string         `json:"department_id,omitempty"`
	TokenNumber  string         `json:"token_number,omitempty"`
	OccurredAt   time.Time      `json:"occurred_at"`
}
