package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/productos-api/internal/application/dto"
	"github.com/jhoicas/productos-api/internal/domain"
	"github.com/jhoicas/productos-api/pkg/logger"
)

const internalMessage = "Error interno del servidor."

// writeError es el único punto que traduce errores de dominio a HTTP.
func writeError(c *fiber.Ctx, log *logger.Logger, err error) error {
	status, code := fiber.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, code = fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrNotFound):
		status, code = fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrConflict):
		status, code = fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrUpstream):
		status, code = fiber.StatusBadGateway, "UPSTREAM"
	}

	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error no controlado")
		msg = internalMessage
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg})
}

// ErrorHandler para fiber.Config: errores propios de fiber (ruta inexistente,
// cuerpo demasiado grande, panics recuperados) con el mismo cuerpo de error.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	if log == nil {
		log = logger.Nop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if !errors.As(err, &fe) {
			return writeError(c, log, err)
		}
		code := "HTTP_ERROR"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity, fiber.StatusRequestEntityTooLarge:
			code = "INVALID_BODY"
		case fiber.StatusInternalServerError:
			code = "INTERNAL"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
}
