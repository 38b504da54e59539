package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/precast-api/internal/application/tracking"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ tracking.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
type TxRunner struct {
	db *sql.DB
}

func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run abre la transacción, ejecuta fn y hace Commit solo si fn terminó sin
// error y el ctx sigue vivo.
func (r *TxRunner) Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

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
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
