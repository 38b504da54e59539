package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

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

// El LEFT JOIN al ledger deja status_id en NULL para componentes sin filas.
const aggregateSelect = `
	SELECT p.id, p.project_code, p.name,
	       oc.id, oc.name, oc.total_quantity,
	       ocst.status_id, COALESCE(ocst.quantity, 0)
	FROM projects p
	JOIN other_components oc ON oc.project_id = p.id
	LEFT JOIN other_component_status_tracking ocst ON ocst.other_component_id = oc.id`

func (r *AggregateRepo) ProjectRows(ctx context.Context, projectID string) ([]repository.AggregateRow, error) {
	query := aggregateSelect + `
		WHERE p.id = $1
		ORDER BY oc.name, oc.created_at, oc.id, ocst.status_id`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("project aggregate: %w", err)
	}
	return collectAggregateRows(rows)
}

func (r *AggregateRepo) AllRows(ctx context.Context) ([]repository.AggregateRow, error) {
	query := aggregateSelect + `
		ORDER BY p.name, p.id, oc.name, oc.created_at, oc.id, ocst.status_id`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("projects aggregate: %w", err)
	}
	return collectAggregateRows(rows)
}

func collectAggregateRows(rows pgx.Rows) ([]repository.AggregateRow, error) {
	defer rows.Close()
	out := make([]repository.AggregateRow, 0)
	for rows.Next() {
		var (
			row    repository.AggregateRow
			status *int16
		)
		if err := rows.Scan(
			&row.ProjectID, &row.ProjectCode, &row.ProjectName,
			&row.ComponentID, &row.ComponentName, &row.TotalQuantity,
			&status, &row.Quantity,
		); err != nil {
			return nil, fmt.Errorf("scan aggregate: %w", err)
		}
		if status != nil {
			s := ledger.Status(*status)
			row.Status = &s
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
