package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.OtherComponentRepository = (*OtherComponentRepo)(nil)

// OtherComponentRepo implementación de OtherComponentRepository sobre SQLite.
type OtherComponentRepo struct {
	q Querier
}

func NewOtherComponentRepository(q Querier) *OtherComponentRepo {
	return &OtherComponentRepo{q: q}
}

const otherComponentColumns = `
	id, project_id, name, width, height, thickness, total_quantity,
	created_by, updated_by, created_at, updated_at`

func (r *OtherComponentRepo) Create(ctx context.Context, c *entity.OtherComponent) error {
	query := `
		INSERT INTO other_components (` + otherComponentColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := r.q.ExecContext(ctx, query,
		c.ID, c.ProjectID, c.Name, c.Width.String(), c.Height.String(), c.Thickness.String(), c.TotalQuantity,
		c.CreatedBy, c.UpdatedBy, formatTime(c.CreatedAt), formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrProjectNotFound
		}
		return fmt.Errorf("insert other component: %w", err)
	}
	return nil
}

func (r *OtherComponentRepo) GetByID(ctx context.Context, id string) (*entity.OtherComponent, error) {
	query := `SELECT ` + otherComponentColumns + ` FROM other_components WHERE id = ?`
	c, err := scanOtherComponent(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get other component: %w", err)
	}
	return c, nil
}

// GetForUpdate en SQLite equivale a GetByID: la conexión única ya serializa
// las transacciones de escritura.
func (r *OtherComponentRepo) GetForUpdate(ctx context.Context, id string) (*entity.OtherComponent, error) {
	return r.GetByID(ctx, id)
}

func (r *OtherComponentRepo) Update(ctx context.Context, c *entity.OtherComponent) error {
	query := `
		UPDATE other_components
		SET name = ?, width = ?, height = ?, thickness = ?, total_quantity = ?,
		    updated_by = ?, updated_at = ?
		WHERE id = ?`
	res, err := r.q.ExecContext(ctx, query,
		c.Name, c.Width.String(), c.Height.String(), c.Thickness.String(), c.TotalQuantity,
		c.UpdatedBy, formatTime(c.UpdatedAt), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update other component: %w", err)
	}
	return requireAffected(res, domain.ErrComponentNotFound)
}

func (r *OtherComponentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM other_components WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete other component: %w", err)
	}
	return requireAffected(res, domain.ErrComponentNotFound)
}

func (r *OtherComponentRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.OtherComponent, error) {
	query := `SELECT ` + otherComponentColumns + `
		FROM other_components WHERE project_id = ?
		ORDER BY name, created_at`
	rows, err := r.q.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list other components: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]*entity.OtherComponent, 0)
	for rows.Next() {
		c, err := scanOtherComponent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan other component: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOtherComponent(row rowScanner) (*entity.OtherComponent, error) {
	var (
		c                    entity.OtherComponent
		createdAt, updatedAt string
	)
	// decimal.Decimal implementa sql.Scanner y acepta el TEXT guardado.
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.Width, &c.Height, &c.Thickness, &c.TotalQuantity,
		&c.CreatedBy, &c.UpdatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("updated_at: %w", err)
	}
	return &c, nil
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
