package repository

import (
	"context"

	"github.com/jhoicas/precast-api/internal/domain/entity"
)

// OtherComponentRepository define el puerto de persistencia para componentes fungibles.
// GetByID y GetForUpdate devuelven (nil, nil) si el componente no existe.
type OtherComponentRepository interface {
	Create(ctx context.Context, c *entity.OtherComponent) error
	GetByID(ctx context.Context, id string) (*entity.OtherComponent, error)
	// GetForUpdate bloquea la fila del componente hasta el fin de la transacción
	// (SELECT FOR UPDATE). Serializa todas las transiciones del mismo componente.
	GetForUpdate(ctx context.Context, id string) (*entity.OtherComponent, error)
	Update(ctx context.Context, c *entity.OtherComponent) error
	Delete(ctx context.Context, id string) error
	ListByProject(ctx context.Context, projectID string) ([]*entity.OtherComponent, error)
}
