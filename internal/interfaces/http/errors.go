package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

// statusFor traduce el tipo de error de dominio a código HTTP.
func statusFor(code string) int {
	switch code {
	case domain.CodeUnauthenticated:
		return fiber.StatusUnauthorized
	case domain.CodeSubscriptionRequired:
		return fiber.StatusPaymentRequired
	case domain.CodeEmailAlreadyRegistered, domain.CodeConflict:
		return fiber.StatusConflict
	case domain.CodeNotFound:
		return fiber.StatusNotFound
	case domain.CodeValidation:
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// respondError escribe el error como dto.ErrorResponse. Solo los 5xx se registran.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status := statusFor(code)
	body := dto.ErrorResponse{Code: code, Message: domain.Message(err)}

	var de *domain.Error
	if errors.As(err, &de) && de.ItemIndex >= 0 {
		idx := de.ItemIndex
		body.ItemIndex = &idx
	}
	if status >= fiber.StatusInternalServerError {
		zerolog.Ctx(c.UserContext()).Error().Err(err).
			Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// parseBody decodifica el JSON y aplica las etiquetas validate del DTO.
func parseBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, invalidBody(c)
	}
	if err := dto.Validate(in); err != nil {
		return false, respondError(c, err)
	}
	return true, nil
}
