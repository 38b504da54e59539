package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.AggregateRepository = (*AggregateRepo)(nil)

// AggregateRepo consultas de resumen por proyecto (solo lectura).
type AggregateRepo struct {
	q Querier
}

func NewAggregateRepository(q Querier) *AggregateRepo {
	return &AggregateRepo{q: q}
}

const aggregateSelect = `
	SELECT p.id, p.project_code, p.name,
	       oc.id, oc.name, oc.total_quantity,
	       ocst.status_id, COALESCE(ocst.quantity, 0)
	FROM projects p
	JOIN other_components oc ON oc.project_id = p.id
	LEFT JOIN other_component_status_tracking ocst ON ocst.other_component_id = oc.id`

func (r *AggregateRepo) ProjectRows(ctx context.Context, projectID string) ([]repository.AggregateRow, error) {
	rows, err := r.q.QueryContext(ctx, aggregateSelect+`
		WHERE p.id = ?
		ORDER BY oc.name, oc.created_at, oc.id, ocst.status_id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("project aggregate: %w", err)
	}
	return collectAggregateRows(rows)
}

func (r *AggregateRepo) AllRows(ctx context.Context) ([]repository.AggregateRow, error) {
	rows, err := r.q.QueryContext(ctx, aggregateSelect+`
		ORDER BY p.name, p.id, oc.name, oc.created_at, oc.id, ocst.status_id`)
	if err != nil {
		return nil, fmt.Errorf("projects aggregate: %w", err)
	}
	return collectAggregateRows(rows)
}

func collectAggregateRows(rows *sql.Rows) ([]repository.AggregateRow, error) {
	defer func() { _ = rows.Close() }()
	out := make([]repository.AggregateRow, 0)
	for rows.Next() {
		var (
			row    repository.AggregateRow
			status sql.NullInt16
		)
		if err := rows.Scan(
			&row.ProjectID, &row.ProjectCode, &row.ProjectName,
			&row.ComponentID, &row.ComponentName, &row.TotalQuantity,
			&status, &row.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		if status.Valid {
			s := ledger.Status(status.Int16)
			row.Status = &s
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
