package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo filas (componente, estado) -> cantidad.
type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) GetBuckets(ctx context.Context, componentID string) (ledger.Buckets, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT status_id, quantity
		FROM other_component_status_tracking
		WHERE other_component_id = ?`, componentID)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	defer func() { _ = rows.Close() }()

	b := ledger.Buckets{}
	for rows.Next() {
		var status, quantity int
		if err := rows.Scan(&status, &quantity); err != nil {
			return nil, fmt.Errorf("scan ledger: %w", err)
		}
		b[ledger.Status(status)] = quantity
	}
	return b, rows.Err()
}

// AddQuantity hace UPDATE de la fila y, si no existe, INSERT con delta.
// No usar upsert: el CHECK (quantity >= 0) se evalúa sobre la fila propuesta
// del INSERT antes del ON CONFLICT, así que todo delta negativo fallaría.
// La fila del componente ya está bloqueada por la transacción.
func (r *LedgerRepo) AddQuantity(ctx context.Context, componentID string, status ledger.Status, delta int, actorID string) error {
	now := formatTime(time.Now())
	res, err := r.q.ExecContext(ctx, `
		UPDATE other_component_status_tracking
		SET quantity = quantity + ?, created_by = ?, updated_at = ?
		WHERE other_component_id = ? AND status_id = ?`,
		delta, actorID, now, componentID, int(status))
	if err != nil {
		return fmt.Errorf("add ledger quantity (%s): %w", status, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("add ledger quantity (%s): %w", status, err)
	}
	if n > 0 {
		return nil
	}
	// fila ausente: un delta negativo lo rechaza el CHECK
	_, err = r.q.ExecContext(ctx, `
		INSERT INTO other_component_status_tracking (other_component_id, status_id, quantity, created_by, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		componentID, int(status), delta, actorID, now)
	if err != nil {
		return fmt.Errorf("insert ledger row (%s): %w", status, err)
	}
	return nil
}

func (r *LedgerRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM other_component_status_tracking WHERE other_component_id = ?`, componentID)
	if err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}
