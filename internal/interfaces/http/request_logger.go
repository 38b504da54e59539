package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/precast-api/pkg/logger"
)

// RequestLogger registra cada petición con zerolog: método, ruta, status, latencia y usuario.
func RequestLogger(log *logger.Logger) fiber.Handler {
	log = log.Named("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		ev := log.Info()
		switch {
		case status >= 500:
			ev = log.Error().Err(err)
		case status >= 400:
			ev = log.Warn()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("user_id", GetUserID(c)).
			Msg("request")
		return err
	}
}
