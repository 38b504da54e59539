package repository

import (
	"context"

	"github.com/jhoicas/precast-api/internal/domain/entity"
)

// ProjectRepository puerto de lectura de proyectos (el CRUD completo vive fuera de este servicio).
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	List(ctx context.Context) ([]*entity.Project, error)
}
