package repository

import (
	"context"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

// AggregateRow fila cruda proyecto/componente/estado. Status es nil cuando el
// componente no tiene ninguna fila en el ledger (LEFT JOIN).
type AggregateRow struct {
	ProjectID     string
	ProjectCode   string
	ProjectName   string
	ComponentID   string
	ComponentName string
	TotalQuantity int
	Status        *ledger.Status
	Quantity      int
}

// AggregateRepository consultas read-only para reportes por proyecto.
type AggregateRepository interface {
	// ProjectRows devuelve las filas de un proyecto ordenadas por componente.
	ProjectRows(ctx context.Context, projectID string) ([]AggregateRow, error)
	// AllRows devuelve las filas de todos los proyectos que tienen componentes.
	AllRows(ctx context.Context) ([]AggregateRow, error)
}
