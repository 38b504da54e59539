package tracking

import (
	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain/entity"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
	"github.com/jhoicas/precast-api/internal/domain/repository"
)

func toComponentResponse(c *entity.OtherComponent, buckets ledger.Buckets) *dto.OtherComponentResponse {
	if c == nil {
		return nil
	}
	statuses := buckets.Names()
	return &dto.OtherComponentResponse{
		ID:            c.ID,
		ProjectID:     c.ProjectID,
		Name:          c.Name,
		Width:         c.Width,
		Height:        c.Height,
		Thickness:     c.Thickness,
		TotalQuantity: c.TotalQuantity,
		Statuses:      statuses,
		CreatedBy:     c.CreatedBy,
		UpdatedBy:     c.UpdatedBy,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func toHistoryResponse(h *entity.StatusHistory) dto.StatusHistoryResponse {
	return dto.StatusHistoryResponse{
		ID:         h.ID,
		FromStatus: h.FromStatus.String(),
		ToStatus:   h.ToStatus.String(),
		Quantity:   h.Quantity,
		CreatedBy:  h.CreatedBy,
		CreatedAt:  h.CreatedAt,
	}
}

// foldAggregateRows agrupa las filas proyecto/componente/estado en el resumen por
// proyecto, conservando el orden de llegada. Un componente sin filas en el ledger
// queda con un mapa de estados vacío.
func foldAggregateRows(rows []repository.AggregateRow) []dto.ProjectAggregateDTO {
	projects := make([]dto.ProjectAggregateDTO, 0)
	projectIdx := make(map[string]int)
	componentIdx := make(map[string]int)

	for _, row := range rows {
		pi, ok := projectIdx[row.ProjectID]
		if !ok {
			projects = append(projects, dto.ProjectAggregateDTO{
				ID:          row.ProjectID,
				ProjectCode: row.ProjectCode,
				Name:        row.ProjectName,
				Components:  []dto.ComponentAggregateDTO{},
			})
			pi = len(projects) - 1
			projectIdx[row.ProjectID] = pi
		}
		if row.ComponentID == "" {
			continue
		}
		p := &projects[pi]
		ci, ok := componentIdx[row.ComponentID]
		if !ok {
			p.Components = append(p.Components, dto.ComponentAggregateDTO{
				ComponentID: row.ComponentID,
				Name:        row.ComponentName,
				Total:       row.TotalQuantity,
				Statuses:    map[string]int{},
			})
			ci = len(p.Components) - 1
			componentIdx[row.ComponentID] = ci
		}
		if row.Status != nil {
			p.Components[ci].Statuses[row.Status.String()] = row.Quantity
		}
	}
	return projects
}
