package entities

import (
	"strings"
	"time"
)

// Patient represents a registered patient
type Patient struct {
	ID                string    `json:"patient_id" db:"patient_id"`
	FirstName         string    `json:"first_name" db:"first_name"`
	LastName          string    `json:"last_name" db:"last_name"`
	Phone             string    `json:"phone" db:"phone"`
	DateOfBirth       time.Time `json:"date_of_birth" db:"date_of_birth"`
	ChronicConditions string    `json:"chronic_conditions" db:"chronic_conditions"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time `json:"updated_at" db:"updated_at"`
}

// AgeAt returns the patient's age in whole years at the given time
func (p *Patient) AgeAt(now time.Time) int {
	age := now.Year() - p.DateOfBirth.Year()
	anniversary := p.DateOfBirth.AddDate(age, 0, 0)
	if anniversary.After(now) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// HasChronicCondition reports whether the patient has any recorded chronic
// condition
func (p *Patient) HasChronicCondition() bool {
	return strings.TrimSpace(p.ChronicConditions) != ""
}
