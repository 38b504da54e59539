package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo filas (componente, estado) -> cantidad en other_component_status_tracking.
type LedgerRepo struct {
	q Querier
}

func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

func (r *LedgerRepo) GetBuckets(ctx context.Context, componentID string) (ledger.Buckets, error) {
	query := `
		SELECT status_id, quantity
		FROM other_component_status_tracking
		WHERE other_component_id = $1`
	rows, err := r.q.Query(ctx, query, componentID)
	if err != nil {
		return nil, fmt.Errorf("get ledger: %w", err)
	}
	defer rows.Close()

	b := ledger.Buckets{}
	for rows.Next() {
		var (
			status   int16
			quantity int
		)
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
	tag, err := r.q.Exec(ctx, `
		UPDATE other_component_status_tracking
		SET quantity = quantity + $3, created_by = $4, updated_at = now()
		WHERE other_component_id = $1 AND status_id = $2`,
		componentID, int16(status), delta, actorID)
	if err != nil {
		return fmt.Errorf("add ledger quantity (%s): %w", status, err)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO other_component_status_tracking (other_component_id, status_id, quantity, created_by, updated_at)
		VALUES ($1, $2, $3, $4, now())`,
		componentID, int16(status), delta, actorID)
	if err != nil {
		return fmt.Errorf("insert ledger row (%s): %w", status, err)
	}
	return nil
}

func (r *LedgerRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM other_component_status_tracking WHERE other_component_id = $1`, componentID)
	if err != nil {
		return fmt.Errorf("delete ledger: %w", err)
	}
	return nil
}
