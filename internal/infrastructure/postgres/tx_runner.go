package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ tracking.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run inicia una transacción READ COMMITTED, ejecuta fn con los repos atados a
// la tx y hace Commit. Cualquier error de fn, o un ctx cancelado, termina en Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback con un contexto propio: si ctx ya se canceló igual hay que liberar la tx.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	uow := repository.UnitOfWork{
		Components: NewOtherComponentRepository(tx),
		Ledger:     NewLedgerRepository(tx),
		History:    NewStatusHistoryRepository(tx),
	}
	if err := fn(uow); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
