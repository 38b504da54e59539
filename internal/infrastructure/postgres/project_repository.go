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

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

type ProjectRepo struct {
	q Querier
}

func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	query := `
		INSERT INTO projects (id, project_code, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, p.ID, p.ProjectCode, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	query := `SELECT id, project_code, name, created_at, updated_at FROM projects WHERE id = $1`
	var p entity.Project
	err := r.q.QueryRow(ctx, query, id).Scan(&p.ID, &p.ProjectCode, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || hasCode(err, "22P02") {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	rows, err := r.q.Query(ctx, `SELECT id, project_code, name, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.Project, 0)
	for rows.Next() {
		var p entity.Project
		if err := rows.Scan(&p.ID, &p.ProjectCode, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, &p)
	}
	return list, rows.Err()
}
