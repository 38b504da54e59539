package tracking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
	"github.com/jhoicas/precast-api/pkg/logger"
)

// TransitionUseCase ejecuta transiciones de cantidad entre estados de un componente
// fungible. Cada solicitud es una transacción: bloqueo de la fila del componente
// (SELECT FOR UPDATE), lectura del ledger, validación, aplicación de los deltas y
// registro en el historial. Cualquier fallo revierte todo.
type TransitionUseCase struct {
	txRunner TxRunner
	observer TransitionObserver
	log      *logger.Logger
	cfg      Config
	now      func() time.Time
}

// NewTransitionUseCase construye el caso de uso. observer y log pueden ser nil.
func NewTransitionUseCase(txRunner TxRunner, observer TransitionObserver, log *logger.Logger, cfg Config) *TransitionUseCase {
	if observer == nil {
		observer = nopObserver{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &TransitionUseCase{
		txRunner: txRunner,
		observer: observer,
		log:      log.Named("tracking"),
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// TransitionInput solicitud de mover Quantity unidades de FromStatus a ToStatus.
type TransitionInput struct {
	ComponentID string
	FromStatus  string
	ToStatus    string
	Quantity    int
	ActorID     string
}

// RequestTransition aplica la transición de forma atómica y devuelve el mapa de
// estados resultante. Los rechazos del validador llegan como *ledger.TransitionError.
func (uc *TransitionUseCase) RequestTransition(ctx context.Context, in TransitionInput) (*dto.TransitionResponse, error) {
	start := time.Now()
	from, to, err := parseTransition(in)
	var out *dto.TransitionResponse
	if err == nil {
		out, err = uc.apply(ctx, in, from, to)
	}

	outcome := outcomeOf(err)
	uc.observer.ObserveTransition(statusLabel(from), statusLabel(to), outcome, time.Since(start))

	if err != nil {
		ev := uc.log.Warn()
		if outcome == OutcomeStorageFailure {
			ev = uc.log.Error()
		}
		ev.Err(err).
			Str("component_id", in.ComponentID).
			Str("from", in.FromStatus).
			Str("to", in.ToStatus).
			Int("quantity", in.Quantity).
			Str("actor_id", in.ActorID).
			Str("outcome", outcome).
			Msg("transición rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("component_id", in.ComponentID).
		Str("from", from.String()).
		Str("to", to.String()).
		Int("quantity", in.Quantity).
		Str("actor_id", in.ActorID).
		Msg("transición aplicada")
	return out, nil
}

func parseTransition(in TransitionInput) (from, to ledger.Status, err error) {
	from, ferr := ledger.ParseStatus(in.FromStatus)
	to, terr := ledger.ParseStatus(in.ToStatus)
	switch {
	case ferr != nil:
		return from, to, ferr
	case terr != nil:
		return from, to, terr
	case in.ComponentID == "" || in.ActorID == "" || in.Quantity <= 0:
		return from, to, domain.ErrInvalidInput
	}
	return from, to, nil
}

// statusLabel acota la cardinalidad de las etiquetas: nombres libres no llegan a métricas.
func statusLabel(s ledger.Status) string {
	if !s.Valid() {
		return "unknown"
	}
	return s.String()
}

func (uc *TransitionUseCase) apply(ctx context.Context, in TransitionInput, from, to ledger.Status) (*dto.TransitionResponse, error) {
	if uc.cfg.TxTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, uc.cfg.TxTimeout)
		defer cancel()
	}

	var out *dto.TransitionResponse
	err := uc.txRunner.Run(ctx, func(uow repository.UnitOfWork) error {
		component, err := uow.Components.GetForUpdate(ctx, in.ComponentID)
		if err != nil {
			return err
		}
		if component == nil {
			return domain.ErrComponentNotFound
		}
		current, err := uow.Ledger.GetBuckets(ctx, component.ID)
		if err != nil {
			return err
		}
		if err := ledger.Validate(current, component.TotalQuantity, from, to, in.Quantity); err != nil {
			return err
		}

		deltas, _ := ledger.Effects(from, to)
		for _, d := range deltas {
			if err := uow.Ledger.AddQuantity(ctx, component.ID, d.Status, d.Factor*in.Quantity, in.ActorID); err != nil {
				return err
			}
		}

		now := uc.now()
		rec := &entity.StatusHistory{
			ID:          uuid.New().String(),
			ComponentID: component.ID,
			FromStatus:  from,
			ToStatus:    to,
			Quantity:    in.Quantity,
			CreatedBy:   in.ActorID,
			CreatedAt:   now,
		}
		if err := uow.History.Append(ctx, rec); err != nil {
			return err
		}

		updated, err := uow.Ledger.GetBuckets(ctx, component.ID)
		if err != nil {
			return err
		}
		out = &dto.TransitionResponse{
			ID:       component.ID,
			Statuses: updated.Names(),
			Total:    component.TotalQuantity,
			LastUpdate: dto.LastUpdateDTO{
				FromStatus: from.String(),
				ToStatus:   to.String(),
				Quantity:   in.Quantity,
				Timestamp:  now,
			},
		}
		return nil
	})
	if err != nil {
		return nil, storageError(err)
	}
	return out, nil
}
