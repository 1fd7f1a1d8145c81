package http

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// HeaderPerformedBy identifica al operador que registra movimientos. La autenticación queda fuera del servicio.
const HeaderPerformedBy = "X-Performed-By"

// LocalPerformedBy key en c.Locals.
const LocalPerformedBy = "performed_by"

// OperatorMiddleware copia el operador del header a c.Locals.
func OperatorMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if op := strings.TrimSpace(c.Get(HeaderPerformedBy)); op != "" {
			c.Locals(LocalPerformedBy, op)
		}
		return c.Next()
	}
}

// GetPerformedBy devuelve el operador del contexto o vacío.
func GetPerformedBy(c *fiber.Ctx) string {
	v := c.Locals(LocalPerformedBy)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequestLogger registra método, ruta, estado y duración de cada petición.
func RequestLogger(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error()
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("duration", time.Since(start)).
			Msg("http")
		return err
	}
}
