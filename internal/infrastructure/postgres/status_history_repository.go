package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

// StatusHistoryRepo auditoría append-only en other_component_status_history.
type StatusHistoryRepo struct {
	q Querier
}

func NewStatusHistoryRepository(q Querier) *StatusHistoryRepo {
	return &StatusHistoryRepo{q: q}
}

func (r *StatusHistoryRepo) Append(ctx context.Context, rec *entity.StatusHistory) error {
	query := `
		INSERT INTO other_component_status_history
			(id, other_component_id, from_status_id, to_status_id, quantity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query,
		rec.ID, rec.ComponentID, int16(rec.FromStatus), int16(rec.ToStatus), rec.Quantity, rec.CreatedBy, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListByComponent ordena por fecha y, a igual fecha, por seq (orden de inserción).
func (r *StatusHistoryRepo) ListByComponent(ctx context.Context, componentID string, limit, offset int) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, other_component_id, from_status_id, to_status_id, quantity, created_by, created_at
		FROM other_component_status_history
		WHERE other_component_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, componentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.StatusHistory, 0)
	for rows.Next() {
		var (
			h        entity.StatusHistory
			from, to int16
		)
		if err := rows.Scan(&h.ID, &h.ComponentID, &from, &to, &h.Quantity, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		h.FromStatus, h.ToStatus = ledger.Status(from), ledger.Status(to)
		list = append(list, &h)
	}
	return list, rows.Err()
}

func (r *StatusHistoryRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	_, err := r.q.Exec(ctx, `DELETE FROM other_component_status_history WHERE other_component_id = $1`, componentID)
	if err != nil {
		return fmt.Errorf("delete status history: %w", err)
	}
	return nil
}
