package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/application/tracking"
)

// OtherComponentHandler maneja las peticiones HTTP de componentes fungibles (protegido).
type OtherComponentHandler struct {
	transitions *tracking.TransitionUseCase
	components  *tracking.ComponentUseCase
	aggregates  *tracking.AggregateUseCase
}

// NewOtherComponentHandler construye el handler.
func NewOtherComponentHandler(
	transitions *tracking.TransitionUseCase,
	components *tracking.ComponentUseCase,
	aggregates *tracking.AggregateUseCase,
) *OtherComponentHandler {
	return &OtherComponentHandler{transitions: transitions, components: components, aggregates: aggregates}
}

// Create godoc
// @Summary      Crear componente fungible
// @Tags         other-components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOtherComponentRequest  true  "project_id, name, dimensiones, total_quantity"
// @Success      201   {object}  dto.OtherComponentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/other-components [post]
func (h *OtherComponentHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateOtherComponentRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.components.Create(c.UserContext(), userID, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener componente con su mapa de estados
// @Tags         other-components
// @Security     Bearer
// @Produce      json
// @Param        componentId  path  string  true  "ID del componente"
// @Success      200  {object}  dto.OtherComponentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/other-components/{componentId} [get]
func (h *OtherComponentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.components.Get(c.UserContext(), c.Params("componentId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// ListByProject godoc
// @Summary      Componentes de un proyecto
// @Tags         other-components
// @Security     Bearer
// @Produce      json
// @Param        projectId  path  string  true  "ID del proyecto"
// @Success      200  {array}   dto.OtherComponentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/other-components/project/{projectId} [get]
func (h *OtherComponentHandler) ListByProject(c *fiber.Ctx) error {
	list, err := h.aggregates.ListProjectComponents(c.UserContext(), c.Params("projectId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// ProjectsWithComponents godoc
// @Summary      Proyectos que tienen componentes fungibles, con su resumen
// @Tags         other-components
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ProjectAggregateDTO
// @Router       /api/other-components/projects-with-other-components [get]
func (h *OtherComponentHandler) ProjectsWithComponents(c *fiber.Ctx) error {
	list, err := h.aggregates.ProjectsWithComponents(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(list)
}

// UpdateStatus godoc
// @Summary      Mover cantidad entre estados
// @Description  Valida la transición contra el grafo y las reglas de conservación y la aplica de forma atómica.
// @Tags         other-components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        componentId  path  string                   true  "ID del componente"
// @Param        body         body  dto.UpdateStatusRequest  true  "fromStatus, toStatus, quantity"
// @Success      200  {object}  dto.TransitionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/other-components/{componentId}/status [put]
func (h *OtherComponentHandler) UpdateStatus(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateStatusRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.transitions.RequestTransition(c.UserContext(), tracking.TransitionInput{
		ComponentID: c.Params("componentId"),
		FromStatus:  in.FromStatus,
		ToStatus:    in.ToStatus,
		Quantity:    in.Quantity,
		ActorID:     userID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// UpdateDetails godoc
// @Summary      Editar datos descriptivos del componente
// @Description  Cambiar total_quantity exige resetStatuses=true y reinicia el ledger.
// @Tags         other-components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        componentId  path  string                                  true  "ID del componente"
// @Param        body         body  dto.UpdateOtherComponentDetailsRequest  true  "datos"
// @Success      200  {object}  dto.OtherComponentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/other-components/{componentId}/details [put]
func (h *OtherComponentHandler) UpdateDetails(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateOtherComponentDetailsRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.components.UpdateDetails(c.UserContext(), userID, c.Params("componentId"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Reset godoc
// @Summary      Redefinir total_quantity y reiniciar el ledger (destructivo)
// @Tags         other-components
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        componentId  path  string                          true  "ID del componente"
// @Param        body         body  dto.ResetOtherComponentRequest  true  "total_quantity"
// @Success      200  {object}  dto.OtherComponentResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/other-components/{componentId}/reset [post]
func (h *OtherComponentHandler) Reset(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	var in dto.ResetOtherComponentRequest
	if ok, err := parseAndValidate(c, &in); !ok {
		return err
	}
	out, err := h.components.Reset(c.UserContext(), userID, c.Params("componentId"), in.TotalQuantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// History godoc
// @Summary      Historial de transiciones (más reciente primero)
// @Tags         other-components
// @Security     Bearer
// @Produce      json
// @Param        componentId  path   string  true   "ID del componente"
// @Param        limit        query  int     false  "máx 100"
// @Param        offset       query  int     false  "desplazamiento"
// @Success      200  {object}  dto.StatusHistoryListResponse
// @Router       /api/other-components/{componentId}/history [get]
func (h *OtherComponentHandler) History(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return writeError(c, errInvalidQuery)
	}
	out, err := h.components.History(c.UserContext(), c.Params("componentId"), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar componente con su ledger e historial
// @Tags         other-components
// @Security     Bearer
// @Param        componentId  path  string  true  "ID del componente"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/other-components/{componentId} [delete]
func (h *OtherComponentHandler) Delete(c *fiber.Ctx) error {
	if err := h.components.Delete(c.UserContext(), GetUserID(c), c.Params("componentId")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
