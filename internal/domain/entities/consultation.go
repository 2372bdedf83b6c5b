package entities

import (
	"time"
)

// ConsultationRecord is the durable outcome of a completed consultation. The
// doctor's rolling average consultation time is the mean over these records.
type ConsultationRecord struct {
	ID            string    `json:"consultation_id" db:"consultation_id"`
	QueueID       string    `json:"queue_id" db:"queue_id"`
	PatientID     string    `json:"patient_id" db:"patient_id"`
	DoctorID      string    `json:"doctor_id" db:"doctor_id"`
	ActualMinutes int       `json:"actual_consultation_minutes" db:"actual_consultation_minutes"`
	Diagnosis     string    `json:"diagnosis" db:"diagnosis"`
	Notes         string    `json:"consultation_notes" db:"consultation_notes"`
	RecordedAt    time.Time `json:"recorded_at" db:"recorded_at"`
}
