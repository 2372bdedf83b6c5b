package repositories

import (
	"context"
)

// TxRepositories is the set of repositories bound to one transaction
type TxRepositories interface {
	Queue() QueueRepository
	Doctors() DoctorRepository
	Consultations() ConsultationRepository
}

// UnitOfWork runs a multi-repository write sequence atomically. A reorder
// plus status change either commits as a whole or leaves no trace; readers
// never observe a partially renumbered queue.
type UnitOfWork interface {
	// WithinTx runs fn inside one transaction, committing if fn returns nil
	// and rolling back otherwise
	WithinTx(ctx context.Context, fn func(repos TxRepositories) error) error
}
