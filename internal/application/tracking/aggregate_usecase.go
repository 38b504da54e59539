package tracking

import (
	"context"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

// AggregateUseCase vistas de solo lectura por proyecto. No aplica reglas de
// transición: es una proyección directa del ledger.
type AggregateUseCase struct {
	projectRepo   repository.ProjectRepository
	componentRepo repository.OtherComponentRepository
	ledgerRepo    repository.LedgerRepository
	aggRepo       repository.AggregateRepository
	reports       ProjectReportGenerator
}

// NewAggregateUseCase construye el caso de uso. reports puede ser nil si no se sirven PDFs.
func NewAggregateUseCase(
	projectRepo repository.ProjectRepository,
	componentRepo repository.OtherComponentRepository,
	ledgerRepo repository.LedgerRepository,
	aggRepo repository.AggregateRepository,
	reports ProjectReportGenerator,
) *AggregateUseCase {
	return &AggregateUseCase{
		projectRepo:   projectRepo,
		componentRepo: componentRepo,
		ledgerRepo:    ledgerRepo,
		aggRepo:       aggRepo,
		reports:       reports,
	}
}

// ProjectAggregate devuelve {component_id, name, total, statuses} por cada componente del proyecto.
// Un proyecto sin componentes devuelve una lista vacía.
func (uc *AggregateUseCase) ProjectAggregate(ctx context.Context, projectID string) (*dto.ProjectAggregateDTO, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, storageError(err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	rows, err := uc.aggRepo.ProjectRows(ctx, projectID)
	if err != nil {
		return nil, storageError(err)
	}
	out := dto.ProjectAggregateDTO{
		ID:          project.ID,
		ProjectCode: project.ProjectCode,
		Name:        project.Name,
		Components:  []dto.ComponentAggregateDTO{},
	}
	if folded := foldAggregateRows(rows); len(folded) > 0 {
		out.Components = folded[0].Components
	}
	return &out, nil
}

// ProjectsWithComponents lista todos los proyectos que tienen al menos un componente.
func (uc *AggregateUseCase) ProjectsWithComponents(ctx context.Context) ([]dto.ProjectAggregateDTO, error) {
	rows, err := uc.aggRepo.AllRows(ctx)
	if err != nil {
		return nil, storageError(err)
	}
	return foldAggregateRows(rows), nil
}

// ListProjectComponents componentes del proyecto con dimensiones y mapa de estados.
func (uc *AggregateUseCase) ListProjectComponents(ctx context.Context, projectID string) ([]*dto.OtherComponentResponse, error) {
	if projectID == "" {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, storageError(err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}
	components, err := uc.componentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, storageError(err)
	}
	out := make([]*dto.OtherComponentResponse, 0, len(components))
	for _, c := range components {
		buckets, err := uc.ledgerRepo.GetBuckets(ctx, c.ID)
		if err != nil {
			return nil, storageError(err)
		}
		out = append(out, toComponentResponse(c, buckets))
	}
	return out, nil
}

// ProjectReport renderiza el resumen del proyecto en PDF.
func (uc *AggregateUseCase) ProjectReport(ctx context.Context, projectID string) ([]byte, error) {
	if uc.reports == nil {
		return nil, domain.ErrNotFound
	}
	agg, err := uc.ProjectAggregate(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return uc.reports.GenerateProjectReport(ctx, agg)
}
