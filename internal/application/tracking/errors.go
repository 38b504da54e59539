package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain"
)

// Resultados de una solicitud de transición (etiqueta "outcome" en métricas y logs).
const (
	OutcomeOK                   = "ok"
	OutcomeInvalid              = "invalid"
	OutcomeNotFound             = "not_found"
	OutcomeIllegalTransition    = "illegal_transition"
	OutcomeInsufficientQuantity = "insufficient_quantity"
	OutcomeCapacityExceeded     = "capacity_exceeded"
	OutcomeCancelled            = "cancelled"
	OutcomeStorageFailure       = "storage_failure"
)

// storageError convierte cualquier error que no sea de negocio ni de cancelación
// en domain.ErrStorageFailure, conservando el mensaje original.
func storageError(err error) error {
	if err == nil || domain.IsDomainError(err) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrStorageFailure, err)
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, domain.ErrIllegalTransition):
		return OutcomeIllegalTransition
	case errors.Is(err, domain.ErrInsufficientQuantity):
		return OutcomeInsufficientQuantity
	case errors.Is(err, domain.ErrCapacityExceeded):
		return OutcomeCapacityExceeded
	case errors.Is(err, domain.ErrComponentNotFound):
		return OutcomeNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return OutcomeInvalid
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCancelled
	default:
		return OutcomeStorageFailure
	}
}
