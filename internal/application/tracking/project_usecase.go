package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// ProjectUseCase alta y listado mínimo de proyectos (lo usa la CLI de administración).
type ProjectUseCase struct {
	repo repository.ProjectRepository
}

func NewProjectUseCase(repo repository.ProjectRepository) *ProjectUseCase {
	return &ProjectUseCase{repo: repo}
}

// Create registra un proyecto. El código es único (ErrDuplicate si ya existe).
func (uc *ProjectUseCase) Create(ctx context.Context, code, name string) (*entity.Project, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	if code == "" || name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	p := &entity.Project{
		ID:          uuid.New().String(),
		ProjectCode: code,
		Name:        name,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, storageError(err)
	}
	return p, nil
}

func (uc *ProjectUseCase) List(ctx context.Context) ([]*entity.Project, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return list, nil
}
