package tracking

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
	"github.com/jhoicas/precast-api/pkg/logger"
)

// ComponentUseCase ciclo de vida de los componentes fungibles: alta (con el
// ledger sembrado en planning), edición, reset destructivo, borrado y lecturas.
type ComponentUseCase struct {
	txRunner      TxRunner
	projectRepo   repository.ProjectRepository
	componentRepo repository.OtherComponentRepository
	ledgerRepo    repository.LedgerRepository
	historyRepo   repository.StatusHistoryRepository
	log           *logger.Logger
	cfg           Config
	now           func() time.Time
}

// NewComponentUseCase construye el caso de uso. Los repositorios sueltos se usan
// solo para lecturas; toda escritura pasa por txRunner.
func NewComponentUseCase(
	txRunner TxRunner,
	projectRepo repository.ProjectRepository,
	componentRepo repository.OtherComponentRepository,
	ledgerRepo repository.LedgerRepository,
	historyRepo repository.StatusHistoryRepository,
	log *logger.Logger,
	cfg Config,
) *ComponentUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ComponentUseCase{
		txRunner:      txRunner,
		projectRepo:   projectRepo,
		componentRepo: componentRepo,
		ledgerRepo:    ledgerRepo,
		historyRepo:   historyRepo,
		log:           log.Named("components"),
		cfg:           cfg,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (uc *ComponentUseCase) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if uc.cfg.TxTimeout > 0 {
		return context.WithTimeout(ctx, uc.cfg.TxTimeout)
	}
	return context.WithCancel(ctx)
}

// Create da de alta el componente y siembra exactamente una fila del ledger
// (planning = total_quantity) más el registro base del historial planning -> planning.
func (uc *ComponentUseCase) Create(ctx context.Context, actorID string, in dto.CreateOtherComponentRequest) (*dto.OtherComponentResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if actorID == "" || in.ProjectID == "" || in.Name == "" || in.TotalQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	project, err := uc.projectRepo.GetByID(ctx, in.ProjectID)
	if err != nil {
		return nil, storageError(err)
	}
	if project == nil {
		return nil, domain.ErrProjectNotFound
	}

	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	now := uc.now()
	component := &entity.OtherComponent{
		ID:            uuid.New().String(),
		ProjectID:     in.ProjectID,
		Name:          in.Name,
		Width:         in.Width,
		Height:        in.Height,
		Thickness:     in.Thickness,
		TotalQuantity: in.TotalQuantity,
		CreatedBy:     actorID,
		UpdatedBy:     actorID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var buckets ledger.Buckets
	err = uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		if err := uow.Components.Create(ctx, component); err != nil {
			return err
		}
		var err error
		buckets, err = seedPlanning(ctx, uow, component, actorID, now)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}

	uc.log.Info().
		Str("component_id", component.ID).
		Str("project_id", component.ProjectID).
		Int("total_quantity", component.TotalQuantity).
		Str("actor_id", actorID).
		Msg("componente creado")
	return toComponentResponse(component, buckets), nil
}

// Reset redefine total_quantity: borra todas las filas del ledger y vuelve a
// sembrar planning = newTotal. Destructivo: se pierde el estado de fabricación
// y transporte en curso.
func (uc *ComponentUseCase) Reset(ctx context.Context, actorID, componentID string, newTotal int) (*dto.OtherComponentResponse, error) {
	if actorID == "" || componentID == "" || newTotal <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var (
		component *entity.OtherComponent
		buckets   ledger.Buckets
	)
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		var err error
		component, err = uow.Components.GetForUpdate(ctx, componentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrComponentNotFound
		}
		buckets, err = uc.resetInTx(ctx, uow, component, actorID, newTotal)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return toComponentResponse(component, buckets), nil
}

func (uc *ComponentUseCase) resetInTx(
	ctx context.Context,
	uow repository.UnitOfWork,
	component *entity.OtherComponent,
	actorID string,
	newTotal int,
) (ledger.Buckets, error) {
	now := uc.now()
	previous := component.TotalQuantity
	component.TotalQuantity = newTotal
	component.UpdatedBy = actorID
	component.UpdatedAt = now
	if err := uow.Components.Update(ctx, component); err != nil {
		return nil, err
	}
	if err := uow.Ledger.DeleteByComponent(ctx, component.ID); err != nil {
		return nil, err
	}
	buckets, err := seedPlanning(ctx, uow, component, actorID, now)
	if err != nil {
		return nil, err
	}
	uc.log.Warn().
		Str("component_id", component.ID).
		Int("previous_total", previous).
		Int("new_total", newTotal).
		Str("actor_id", actorID).
		Msg("ledger reiniciado")
	return buckets, nil
}

// seedPlanning crea la fila planning = total y el registro base del historial.
func seedPlanning(ctx context.Context, uow repository.UnitOfWork, component *entity.OtherComponent, actorID string, now time.Time) (ledger.Buckets, error) {
	if err := uow.Ledger.AddQuantity(ctx, component.ID, ledger.StatusPlanning, component.TotalQuantity, actorID); err != nil {
		return nil, err
	}
	baseline := &entity.StatusHistory{
		ID:          uuid.New().String(),
		ComponentID: component.ID,
		FromStatus:  ledger.StatusPlanning,
		ToStatus:    ledger.StatusPlanning,
		Quantity:    component.TotalQuantity,
		CreatedBy:   actorID,
		CreatedAt:   now,
	}
	if err := uow.History.Append(ctx, baseline); err != nil {
		return nil, err
	}
	return uow.Ledger.GetBuckets(ctx, component.ID)
}

// UpdateDetails edita los campos descriptivos. Un total_quantity distinto solo se
// acepta con ResetStatuses=true (y entonces reinicia el ledger como Reset);
// sin el flag devuelve domain.ErrConflict.
func (uc *ComponentUseCase) UpdateDetails(ctx context.Context, actorID, componentID string, in dto.UpdateOtherComponentDetailsRequest) (*dto.OtherComponentResponse, error) {
	in.Name = strings.TrimSpace(in.Name)
	if actorID == "" || componentID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.TotalQuantity != nil && *in.TotalQuantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	var (
		component *entity.OtherComponent
		buckets   ledger.Buckets
	)
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		var err error
		component, err = uow.Components.GetForUpdate(ctx, componentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrComponentNotFound
		}
		newTotal := component.TotalQuantity
		if in.TotalQuantity != nil {
			newTotal = *in.TotalQuantity
		}
		if newTotal != component.TotalQuantity && !in.ResetStatuses {
			return domain.ErrConflict
		}

		component.Name = in.Name
		component.Width = in.Width
		component.Height = in.Height
		component.Thickness = in.Thickness

		if in.ResetStatuses {
			buckets, err = uc.resetInTx(ctx, uow, component, actorID, newTotal)
			return err
		}
		component.UpdatedBy = actorID
		component.UpdatedAt = uc.now()
		if err := uow.Components.Update(ctx, component); err != nil {
			return err
		}
		buckets, err = uow.Ledger.GetBuckets(ctx, component.ID)
		return err
	})
	if err != nil {
		return nil, storageError(err)
	}
	return toComponentResponse(component, buckets), nil
}

// Delete elimina el componente con sus filas de ledger e historial en una sola transacción.
func (uc *ComponentUseCase) Delete(ctx context.Context, actorID, componentID string) error {
	if componentID == "" {
		return domain.ErrInvalidInput
	}
	ctx, cancel := uc.withTimeout(ctx)
	defer cancel()

	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		component, err := uow.Components.GetForUpdate(ctx, componentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrComponentNotFound
		}
		if err := uow.History.DeleteByComponent(ctx, componentID); err != nil {
			return err
		}
		if err := uow.Ledger.DeleteByComponent(ctx, componentID); err != nil {
			return err
		}
		return uow.Components.Delete(ctx, componentID)
	})
	if err != nil {
		return storageError(err)
	}
	uc.log.Warn().Str("component_id", componentID).Str("actor_id", actorID).Msg("componente eliminado")
	return nil
}

// Get devuelve el componente con su mapa de estados actual.
func (uc *ComponentUseCase) Get(ctx context.Context, componentID string) (*dto.OtherComponentResponse, error) {
	component, err := uc.componentRepo.GetByID(ctx, componentID)
	if err != nil {
		return nil, storageError(err)
	}
	if component == nil {
		return nil, domain.ErrComponentNotFound
	}
	buckets, err := uc.ledgerRepo.GetBuckets(ctx, componentID)
	if err != nil {
		return nil, storageError(err)
	}
	return toComponentResponse(component, buckets), nil
}

// History lista el historial de transiciones del componente, más reciente primero.
func (uc *ComponentUseCase) History(ctx context.Context, componentID string, page dto.PageRequest) (*dto.StatusHistoryListResponse, error) {
	page.DefaultPage()
	component, err := uc.componentRepo.GetByID(ctx, componentID)
	if err != nil {
		return nil, storageError(err)
	}
	if component == nil {
		return nil, domain.ErrComponentNotFound
	}
	records, err := uc.historyRepo.ListByComponent(ctx, componentID, page.Limit, page.Offset)
	if err != nil {
		return nil, storageError(err)
	}
	items := make([]dto.StatusHistoryResponse, 0, len(records))
	for _, r := range records {
		items = append(items, toHistoryResponse(r))
	}
	return &dto.StatusHistoryListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}
