package dto

// ComponentAggregateDTO resumen de un componente: total y cantidad por estado.
// Statuses nunca es nil; un componente sin filas en el ledger lleva un mapa vacío.
type ComponentAggregateDTO struct {
	ComponentID string         `json:"component_id"`
	Name        string         `json:"name"`
	Total       int            `json:"total"`
	Statuses    map[string]int `json:"statuses"`
}

// ProjectAggregateDTO proyecto con el resumen de sus componentes.
type ProjectAggregateDTO struct {
	ID          string                  `json:"id"`
	ProjectCode string                  `json:"project_code"`
	Name        string                  `json:"name"`
	Components  []ComponentAggregateDTO `json:"components"`
}
