package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOtherComponentRequest body para POST /api/other-components.
type CreateOtherComponentRequest struct {
	ProjectID     string          `json:"project_id" validate:"required"`
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Thickness     decimal.Decimal `json:"thickness"`
	TotalQuantity int             `json:"total_quantity" validate:"required,gt=0"`
}

// UpdateStatusRequest body para PUT /api/other-components/:componentId/status.
type UpdateStatusRequest struct {
	FromStatus string `json:"fromStatus" validate:"required"`
	ToStatus   string `json:"toStatus" validate:"required"`
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
}

// UpdateOtherComponentDetailsRequest body para PUT /api/other-components/:componentId/details.
// Cambiar total_quantity exige resetStatuses=true (reinicia el ledger).
type UpdateOtherComponentDetailsRequest struct {
	Name          string          `json:"name" validate:"required,min=1,max=255"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Thickness     decimal.Decimal `json:"thickness"`
	TotalQuantity *int            `json:"total_quantity" validate:"omitempty,gt=0"`
	ResetStatuses bool            `json:"resetStatuses"`
}

// ResetOtherComponentRequest body para POST /api/other-components/:componentId/reset.
type ResetOtherComponentRequest struct {
	TotalQuantity int `json:"total_quantity" validate:"required,gt=0"`
}

// OtherComponentResponse componente con su mapa de estados actual.
type OtherComponentResponse struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"project_id"`
	Name          string          `json:"name"`
	Width         decimal.Decimal `json:"width"`
	Height        decimal.Decimal `json:"height"`
	Thickness     decimal.Decimal `json:"thickness"`
	TotalQuantity int             `json:"total_quantity"`
	Statuses      map[string]int  `json:"statuses"`
	CreatedBy     string          `json:"created_by,omitempty"`
	UpdatedBy     string          `json:"updated_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// LastUpdateDTO describe la transición recién aplicada.
type LastUpdateDTO struct {
	FromStatus string    `json:"fromStatus"`
	ToStatus   string    `json:"toStatus"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

// TransitionResponse salida de una transición aceptada.
type TransitionResponse struct {
	ID         string         `json:"id"`
	Statuses   map[string]int `json:"statuses"`
	Total      int            `json:"total"`
	LastUpdate LastUpdateDTO  `json:"_lastUpdate"`
}

// StatusHistoryResponse un registro de auditoría.
type StatusHistoryResponse struct {
	ID         string    `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Quantity   int       `json:"quantity"`
	CreatedBy  string    `json:"created_by"`
	CreatedAt  time.Time `json:"created_at"`
}

// StatusHistoryListResponse historial paginado.
type StatusHistoryListResponse struct {
	Items []StatusHistoryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
