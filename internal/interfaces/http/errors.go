package http

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precast-api/internal/application/dto"
	"github.com/jhoicas/precast-api/internal/domain"
	"github.com/jhoicas/precast-api/internal/domain/ledger"
)

// writeError traduce errores de dominio a HTTP. Los rechazos del validador de
// transiciones llevan en details las cantidades en conflicto.
func writeError(c *fiber.Ctx, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrIllegalTransition):
		status, code = fiber.StatusUnprocessableEntity, "ILLEGAL_TRANSITION"
	case errors.Is(err, domain.ErrInsufficientQuantity):
		status, code = fiber.StatusConflict, "INSUFFICIENT_QUANTITY"
	case errors.Is(err, domain.ErrCapacityExceeded):
		status, code = fiber.StatusConflict, "CAPACITY_EXCEEDED"
	case errors.Is(err, domain.ErrComponentNotFound):
		status, code = fiber.StatusNotFound, "COMPONENT_NOT_FOUND"
	case errors.Is(err, domain.ErrProjectNotFound):
		status, code = fiber.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrDuplicate):
		status, code = fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrForbidden):
		status, code = fiber.StatusForbidden, "FORBIDDEN"
	case errors.Is(err, domain.ErrUnauthorized):
		status, code = fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrStorageFailure):
		status, code = fiber.StatusServiceUnavailable, "STORAGE_FAILURE"
	case errors.Is(err, context.DeadlineExceeded):
		status, code = fiber.StatusGatewayTimeout, "TIMEOUT"
	case errors.Is(err, context.Canceled):
		// el cliente cerró la conexión; la transacción ya se revirtió
		status, code = 499, "CANCELLED"
	}

	resp := dto.ErrorResponse{Code: code, Message: err.Error()}
	switch status {
	case fiber.StatusInternalServerError:
		resp.Message = "error interno"
	case fiber.StatusServiceUnavailable:
		// el texto del driver queda solo en el log
		resp.Message = "almacenamiento no disponible, reintente"
	}
	var te *ledger.TransitionError
	if errors.As(err, &te) {
		resp.Details = transitionDetails(te)
	}
	return c.Status(status).JSON(resp)
}

func transitionDetails(te *ledger.TransitionError) map[string]any {
	d := map[string]any{
		"fromStatus": te.From.String(),
		"toStatus":   te.To.String(),
	}
	switch te.Kind {
	case domain.ErrInsufficientQuantity:
		d["available"] = te.Available
		d["requested"] = te.Requested
	case domain.ErrCapacityExceeded:
		d["computed"] = te.Computed
		d["capacity"] = te.Capacity
	case domain.ErrIllegalTransition:
		allowed := make([]string, 0)
		for _, s := range ledger.Targets(te.From) {
			allowed = append(allowed, s.String())
		}
		d["allowed"] = allowed
	}
	return d
}

var errInvalidQuery = fmt.Errorf("%w: parámetros de consulta", domain.ErrInvalidInput)

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
}
