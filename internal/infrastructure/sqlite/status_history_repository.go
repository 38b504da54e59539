package sqlite

import (
	"context"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.StatusHistoryRepository = (*StatusHistoryRepo)(nil)

// StatusHistoryRepo auditoría append-only.
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
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		rec.ID, rec.ComponentID, int(rec.FromStatus), int(rec.ToStatus), rec.Quantity, rec.CreatedBy, formatTime(rec.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListByComponent ordena por fecha y, a igual fecha, por orden de inserción.
func (r *StatusHistoryRepo) ListByComponent(ctx context.Context, componentID string, limit, offset int) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, other_component_id, from_status_id, to_status_id, quantity, created_by, created_at
		FROM other_component_status_history
		WHERE other_component_id = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ? OFFSET ?`
	rows, err := r.q.QueryContext(ctx, query, componentID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]*entity.StatusHistory, 0)
	for rows.Next() {
		var (
			h         entity.StatusHistory
			from, to  int
			createdAt string
		)
		if err := rows.Scan(&h.ID, &h.ComponentID, &from, &to, &h.Quantity, &h.CreatedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		if h.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("created_at: %w", err)
		}
		h.FromStatus, h.ToStatus = ledger.Status(from), ledger.Status(to)
		list = append(list, &h)
	}
	return list, rows.Err()
}

func (r *StatusHistoryRepo) DeleteByComponent(ctx context.Context, componentID string) error {
	_, err := r.q.ExecContext(ctx, `DELETE FROM other_component_status_history WHERE other_component_id = ?`, componentID)
	if err != nil {
		return fmt.Errorf("delete status history: %w", err)
	}
	return nil
}
