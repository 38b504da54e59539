package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precast-api/internal/application/tracking"
)

// ProjectHandler vistas de resumen por proyecto (protegido).
type ProjectHandler struct {
	aggregates *tracking.AggregateUseCase
}

func NewProjectHandler(aggregates *tracking.AggregateUseCase) *ProjectHandler {
	return &ProjectHandler{aggregates: aggregates}
}

// Aggregate godoc
// @Summary      Resumen del proyecto: total y cantidad por estado de cada componente
// @Tags         projects
// @Security     Bearer
// @Produce      json
// @Param        projectId  path  string  true  "ID del proyecto"
// @Success      200  {object}  dto.ProjectAggregateDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/aggregate [get]
func (h *ProjectHandler) Aggregate(c *fiber.Ctx) error {
	out, err := h.aggregates.ProjectAggregate(c.UserContext(), c.Params("projectId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Report godoc
// @Summary      Reporte PDF del proyecto
// @Tags         projects
// @Security     Bearer
// @Produce      application/pdf
// @Param        projectId  path  string  true  "ID del proyecto"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/projects/{projectId}/report.pdf [get]
func (h *ProjectHandler) Report(c *fiber.Ctx) error {
	projectID := c.Params("projectId")
	pdf, err := h.aggregates.ProjectReport(c.UserContext(), projectID)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="proyecto-%s.pdf"`, projectID))
	return c.Send(pdf)
}
