package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/application/analytics"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

// LoyaltyHandler segmentación RFM y tabla de puntos.
type LoyaltyHandler struct {
	uc *analytics.LoyaltyUseCase
}

// NewLoyaltyHandler construye el handler.
func NewLoyaltyHandler(uc *analytics.LoyaltyUseCase) *LoyaltyHandler {
	return &LoyaltyHandler{uc: uc}
}

// Segments godoc
// @Summary      Segmentación RFM de clientes
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Param        window_days  query  int  false  "Ventana en días (por defecto la configurada)"
// @Success      200          {object}  dto.SegmentsResponse
// @Failure      422          {object}  dto.ErrorResponse
// @Router       /api/loyalty/segments [get]
func (h *LoyaltyHandler) Segments(c *fiber.Ctx) error {
	out, err := h.uc.Segments(c.UserContext(), c.QueryInt("window_days", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// TierPoints godoc
// @Summary      Puntos que otorga un monto de compra
// @Tags         loyalty
// @Security     Bearer
// @Produce      json
// @Param        amount  query  string  true  "Monto de la compra"
// @Success      200     {object}  dto.TierPointsResponse
// @Failure      422     {object}  dto.ErrorResponse
// @Router       /api/loyalty/tiers/points [get]
func (h *LoyaltyHandler) TierPoints(c *fiber.Ctx) error {
	amount, err := decimal.NewFromString(c.Query("amount"))
	if err != nil {
		return respondError(c, domain.Errorf(domain.ErrValidation, "amount: debe ser un número"))
	}
	out, err := h.uc.TierPoints(amount)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
