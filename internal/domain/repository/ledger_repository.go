package repository

import (
	"context"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

// LedgerRepository define el puerto para las filas (componente, estado) -> cantidad.
type LedgerRepository interface {
	// GetBuckets devuelve las filas existentes del componente (mapa vacío si no hay).
	GetBuckets(ctx context.Context, componentID string) (ledger.Buckets, error)
	// AddQuantity suma delta al bucket, creando la fila si no existe.
	AddQuantity(ctx context.Context, componentID string, status ledger.Status, delta int, actorID string) error
	// DeleteByComponent elimina todas las filas del componente (solo reset/borrado).
	DeleteByComponent(ctx context.Context, componentID string) error
}
