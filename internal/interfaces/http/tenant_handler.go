package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
)

// TenantHandler datos del tenant actual y administración de suscripciones.
type TenantHandler struct {
	prov *tenant.Provisioner
}

// NewTenantHandler construye el handler.
func NewTenantHandler(prov *tenant.Provisioner) *TenantHandler {
	return &TenantHandler{prov: prov}
}

// Me godoc
// @Summary      Tenant de la sesión
// @Description  Estado de la suscripción y días de prueba restantes.
// @Tags         tenant
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.TenantResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      402  {object}  dto.ErrorResponse
// @Router       /api/me [get]
func (h *TenantHandler) Me(c *fiber.Ctx) error {
	t := GetTenant(c)
	if t == nil {
		return respondError(c, domain.Errorf(domain.ErrUnauthenticated, "tenant no resuelto"))
	}
	return c.JSON(dto.NewTenantResponse(t, h.prov.DaysRemaining(t)))
}

// UpdateSubscription godoc
// @Summary      Actualizar suscripción de un tenant (superadmin)
// @Tags         admin
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del tenant"
// @Param        body  body  dto.UpdateSubscriptionRequest  true  "Nuevo estado"
// @Success      200   {object}  dto.TenantResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/admin/tenants/{id}/subscription [put]
func (h *TenantHandler) UpdateSubscription(c *fiber.Ctx) error {
	var in dto.UpdateSubscriptionRequest
	if ok, err := parseBody(c, &in); !ok {
		return err
	}
	t, err := h.prov.UpdateSubscription(c.UserContext(), c.Params("id"), in.Status, in.NextBilling)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.NewTenantResponse(t, h.prov.DaysRemaining(t)))
}
