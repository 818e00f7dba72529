package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos-api/internal/application/credit"
	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
)

// CreditHandler registra abonos a ventas a crédito.
type CreditHandler struct {
	uc *credit.UseCase
}

// NewCreditHandler construye el handler.
func NewCreditHandler(uc *credit.UseCase) *CreditHandler {
	return &CreditHandler{uc: uc}
}

// RegisterPayment godoc
// @Summary      Registrar abono
// @Description  Aplica el abono al saldo de la venta y a la deuda del cliente en una transacción.
// @Tags         credit
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterPaymentRequest  true  "Abono"
// @Success      201   {object}  dto.RegisterPaymentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/credit/payments [post]
func (h *CreditHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.RegisterPaymentRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	out, err := h.uc.RegisterPayment(c.UserContext(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
