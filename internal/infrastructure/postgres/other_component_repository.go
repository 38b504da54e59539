package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

var _ repository.OtherComponentRepository = (*OtherComponentRepo)(nil)

// OtherComponentRepo implementación de OtherComponentRepository sobre PostgreSQL (usable con pool o tx).
type OtherComponentRepo struct {
	q Querier
}

// NewOtherComponentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOtherComponentRepository(q Querier) *OtherComponentRepo {
	return &OtherComponentRepo{q: q}
}

const otherComponentColumns = `
	id, project_id, name, width, height, thickness, total_quantity,
	created_by, updated_by, created_at, updated_at`

func (r *OtherComponentRepo) Create(ctx context.Context, c *entity.OtherComponent) error {
	query := `
		INSERT INTO other_components (` + otherComponentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(ctx, query,
		c.ID, c.ProjectID, c.Name, c.Width, c.Height, c.Thickness, c.TotalQuantity,
		c.CreatedBy, c.UpdatedBy, c.CreatedAt, c.UpdatedAt,
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
	query := `SELECT ` + otherComponentColumns + ` FROM other_components WHERE id = $1`
	return r.getOne(ctx, query, id, "get other component")
}

// GetForUpdate bloquea la fila del componente hasta el Commit/Rollback. Todas las
// escrituras sobre el ledger pasan antes por aquí, así que dos transiciones del
// mismo componente nunca leen el mismo estado previo.
func (r *OtherComponentRepo) GetForUpdate(ctx context.Context, id string) (*entity.OtherComponent, error) {
	query := `SELECT ` + otherComponentColumns + ` FROM other_components WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id, "get other component for update")
}

func (r *OtherComponentRepo) getOne(ctx context.Context, query, id, op string) (*entity.OtherComponent, error) {
	c, err := scanOtherComponent(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		// un id que no es UUID válido no puede existir
		if hasCode(err, "22P02") {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

func (r *OtherComponentRepo) Update(ctx context.Context, c *entity.OtherComponent) error {
	query := `
		UPDATE other_components
		SET name = $2, width = $3, height = $4, thickness = $5, total_quantity = $6,
		    updated_by = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		c.ID, c.Name, c.Width, c.Height, c.Thickness, c.TotalQuantity, c.UpdatedBy, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update other component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrComponentNotFound
	}
	return nil
}

func (r *OtherComponentRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM other_components WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete other component: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrComponentNotFound
	}
	return nil
}

func (r *OtherComponentRepo) ListByProject(ctx context.Context, projectID string) ([]*entity.OtherComponent, error) {
	query := `SELECT ` + otherComponentColumns + `
		FROM other_components WHERE project_id = $1
		ORDER BY name, created_at`
	rows, err := r.q.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list other components: %w", err)
	}
	defer rows.Close()

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

func scanOtherComponent(row pgx.Row) (*entity.OtherComponent, error) {
	var c entity.OtherComponent
	err := row.Scan(
		&c.ID, &c.ProjectID, &c.Name, &c.Width, &c.Height, &c.Thickness, &c.TotalQuantity,
		&c.CreatedBy, &c.UpdatedBy, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
