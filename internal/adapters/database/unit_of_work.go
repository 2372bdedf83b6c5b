package database

import (
	"context"

	"github.com/harborcare/opdflow/internal/domain/repositories"
	"github.com/harborcare/opdflow/internal/infrastructure/clients/postgres"
	apperrors "github.com/harborcare/opdflow/pkg/errors"
)

// UnitOfWork runs multi-repository write sequences inside one Postgres
// transaction. The queue service finalizes positions in memory, then pushes
// the whole reorder plus status changes through here; on error everything
// rolls back and no partial queue state is visible.
type UnitOfWork struct {
	client *postgres.Client
}

// NewUnitOfWork creates a new Postgres-backed unit of work
func NewUnitOfWork(client *postgres.Client) repositories.UnitOfWork {
	return &UnitOfWork{client: client}
}

// WithinTx runs fn inside one transaction
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(repos repositories.TxRepositories) error) error {
	tx, err := u.client.BeginTx(ctx)
	if err != nil {
		return apperrors.NewInternalError("failed to begin transaction", err)
	}

	if err := fn(&txRepositories{run: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return apperrors.NewInternalError("rollback failed", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewInternalError("failed to commit transaction", err)
	}
	return nil
}

// txRepositories hands out adapters bound to one transaction
type txRepositories struct {
	run runner
}

func (t *txRepositories) Queue() repositories.QueueRepository {
	return newQueueAdapter(t.run)
}

func (t *txRepositories) Doctors() repositories.DoctorRepository {
	return newDoctorAdapter(t.run)
}

func (t *txRepositories) Consultations() repositories.ConsultationRepository {
	return newConsultationAdapter(t.run)
}
