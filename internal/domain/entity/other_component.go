package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OtherComponent es un componente fungible: se sigue por cantidad en cada estado
// y no por identidad individual. TotalQuantity solo cambia mediante un reset
// explícito que también reinicia el ledger.
type OtherComponent struct {
	ID            string
	ProjectID     string
	Name          string
	Width         decimal.Decimal // dimensiones descriptivas, no intervienen en las transiciones
	Height        decimal.Decimal
	Thickness     decimal.Decimal
	TotalQuantity int
	CreatedBy     string
	UpdatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
