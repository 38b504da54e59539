package repository

import (
	"context"

	"github.com/jhoicas/precast-api/internal/domain/entity"
)

// StatusHistoryRepository puerto append-only para la auditoría de transiciones.
type StatusHistoryRepository interface {
	Append(ctx context.Context, rec *entity.StatusHistory) error
	// ListByComponent devuelve los registros más recientes primero.
	ListByComponent(ctx context.Context, componentID string, limit, offset int) ([]*entity.StatusHistory, error)
	DeleteByComponent(ctx context.Context, componentID string) error
}
