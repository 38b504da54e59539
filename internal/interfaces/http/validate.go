package http

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precast-api/internal/application/dto"
)

// validate instancia compartida; validator cachea la metadata de cada struct.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// nombres de campo según el tag json, para que los detalles coincidan con el body
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// parseAndValidate lee el body en out y aplica los tags validate.
// Si falla, ya escribió la respuesta 400 y devuelve ok=false.
func parseAndValidate(c *fiber.Ctx, out any) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, badBody(c)
	}
	if err := validate.Struct(out); err != nil {
		return false, validationError(c, err)
	}
	return true, nil
}

func validationError(c *fiber.Ctx, err error) error {
	details := map[string]any{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			details[fe.Field()] = fe.Tag()
		}
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Code:    "VALIDATION",
		Message: "datos inválidos",
		Details: details,
	})
}
