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

var _ repository.ProjectRepository = (*ProjectRepo)(nil)

type ProjectRepo struct {
	q Querier
}

func NewProjectRepository(q Querier) *ProjectRepo {
	return &ProjectRepo{q: q}
}

func (r *ProjectRepo) Create(ctx context.Context, p *entity.Project) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO projects (id, project_code, name, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.ProjectCode, p.Name, formatTime(p.CreatedAt), formatTime(p.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

func (r *ProjectRepo) GetByID(ctx context.Context, id string) (*entity.Project, error) {
	row := r.q.QueryRowContext(ctx, `SELECT id, project_code, name, created_at, updated_at FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (r *ProjectRepo) List(ctx context.Context) ([]*entity.Project, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT id, project_code, name, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer func() { _ = rows.Close() }()

	list := make([]*entity.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProject(row rowScanner) (*entity.Project, error) {
	var (
		p                    entity.Project
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.ProjectCode, &p.Name, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
