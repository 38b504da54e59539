package entity

import "time"

// Project agrupa los componentes de una obra.
type Project struct {
	ID          string
	ProjectCode string
	Name        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
