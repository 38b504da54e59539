package ledger

import (
	"fmt"

	"github.com/jhoicas/precast-api/internal/domain"
)

// Validate decide si mover quantity unidades de from a to es admisible dado el
// estado actual y la cantidad total del componente. No modifica current.
//
// Orden de las comprobaciones:
//  1. (from, to) es una arista del grafo.
//  2. El bucket origen tiene al menos quantity.
//  3. Si el destino es transported: transported + quantity <= total.
//  4. Si la transición toca planning o transported (salvo manufactured -> transported):
//     planning' + transported' <= total.
func Validate(current Buckets, total int, from, to Status, quantity int) error {
	if quantity <= 0 {
		return fmt.Errorf("%w: la cantidad debe ser positiva", domain.ErrInvalidInput)
	}
	if !Allowed(from, to) {
		return &TransitionError{Kind: domain.ErrIllegalTransition, From: from, To: to}
	}

	available := current.Get(from)
	if available < quantity {
		return &TransitionError{
			Kind: domain.ErrInsufficientQuantity, From: from, To: to,
			Available: available, Requested: quantity,
		}
	}

	if to == StatusTransported {
		newTransported := current.Get(StatusTransported) + quantity
		if newTransported > total {
			return &TransitionError{
				Kind: domain.ErrCapacityExceeded, From: from, To: to,
				Computed: newTransported, Capacity: total,
			}
		}
	}

	if touchesPlanningOrTransported(from, to) {
		next := Apply(current, from, to, quantity)
		sum := next.Get(StatusPlanning) + next.Get(StatusTransported)
		if sum > total {
			return &TransitionError{
				Kind: domain.ErrCapacityExceeded, From: from, To: to,
				Computed: sum, Capacity: total,
			}
		}
	}
	return nil
}

func touchesPlanningOrTransported(from, to Status) bool {
	if from == StatusManufactured && to == StatusTransported {
		return false
	}
	return from == StatusPlanning || to == StatusPlanning ||
		from == StatusTransported || to == StatusTransported
}
