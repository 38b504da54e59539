package entity

import (
	"time"

	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

// StatusHistory registro inmutable de una transición ejecutada (auditoría).
type StatusHistory struct {
	ID          string
	ComponentID string
	FromStatus  ledger.Status
	ToStatus    ledger.Status
	Quantity    int
	CreatedBy   string
	CreatedAt   time.Time
}
