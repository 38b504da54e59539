package tracking

import (
	"context"
	"time"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de BD, pasando una UnitOfWork
// con repositorios atados a esa transacción. Si fn devuelve error, o el ctx se
// cancela antes del Commit, todo se revierte (ledger e historial juntos).
type TxRunner interface {
	Run(ctx context.Context, fn func(uow repository.UnitOfWork) error) error
}

// TransitionObserver recibe el resultado de cada solicitud de transición (métricas).
type TransitionObserver interface {
	ObserveTransition(from, to, outcome string, elapsed time.Duration)
}

// ProjectReportGenerator renderiza el resumen de un proyecto (PDF).
type ProjectReportGenerator interface {
	GenerateProjectReport(ctx context.Context, report *dto.ProjectAggregateDTO) ([]byte, error)
}

// Config parámetros del motor de seguimiento.
type Config struct {
	// TxTimeout límite de cada transacción de escritura; cero = sin límite propio.
	TxTimeout time.Duration
}

type nopObserver struct{}

func (nopObserver) ObserveTransition(string, string, string, time.Duration) {}
