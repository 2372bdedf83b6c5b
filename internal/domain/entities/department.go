package entities

import (
	"time"
)

// Department represents a hospital department. Code is the short prefix used
// on display tokens, e.g. "CARD" for cardiology.
type Department struct {
	ID        string    `json:"department_id" db:"department_id"`
	Name      string    `json:"name" db:"name"`
	Code      string    `json:"department_code" db:"department_code"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
