package entities

import (
	"time"
)

// DoctorStatus represents a doctor's consultation availability
type DoctorStatus string

const (
	DoctorStatusAvailable DoctorStatus = "Available"
	DoctorStatusBusy      DoctorStatus = "Busy"
)

// Doctor represents one doctor's queue-facing state. At most one queue entry
// per doctor may be In_Progress; the doctor is Busy exactly while one is.
type Doctor struct {
	ID                         string       `json:"doctor_id" db:"doctor_id"`
	Name                       string       `json:"name" db:"name"`
	DepartmentID               string       `json:"department_id" db:"department_id"`
	AverageConsultationMinutes float64      `json:"average_consultation_minutes" db:"average_consultation_minutes"`
	Status                     DoctorStatus `json:"current_status" db:"current_status"`
	CreatedAt                  time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt                  time.Time    `json:"updated_at" db:"updated_at"`
}
