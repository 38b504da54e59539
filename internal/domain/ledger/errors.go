package ledger

import (
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain"
)

// TransitionError describe un rechazo del validador. Kind es uno de
// domain.ErrIllegalTransition, domain.ErrInsufficientQuantity o
// domain.ErrCapacityExceeded; errors.Is funciona contra esos sentinelas.
type TransitionError struct {
	Kind error
	From Status
	To   Status

	// InsufficientQuantity
	Available int
	Requested int

	// CapacityExceeded
	Computed int
	Capacity int
}

func (e *TransitionError) Error() string {
	switch e.Kind {
	case domain.ErrInsufficientQuantity:
		return fmt.Sprintf("%v: %s (disponible: %d, solicitado: %d)", e.Kind, e.From, e.Available, e.Requested)
	case domain.ErrCapacityExceeded:
		return fmt.Sprintf("%v: %s -> %s (resultado: %d, total: %d)", e.Kind, e.From, e.To, e.Computed, e.Capacity)
	default:
		return fmt.Sprintf("%v: %s -> %s", e.Kind, e.From, e.To)
	}
}

func (e *TransitionError) Unwrap() error { return e.Kind }
