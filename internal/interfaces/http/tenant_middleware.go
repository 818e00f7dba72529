package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/identity"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// LocalTenant clave de c.Locals con el *entity.Tenant de la petición.
const LocalTenant = "tenant"

// TenantMiddleware resuelve identidad → tenant → acceso y deja el tenant en Locals y en el
// contexto de la petición (c.UserContext()), que es de donde lo leen los casos de uso.
// Con timeout > 0 ese contexto vence al cumplirse el plazo y se cancela al terminar la petición.
func TenantMiddleware(resolver *identity.Resolver, prov *tenant.Provisioner, log zerolog.Logger, timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: domain.CodeUnauthenticated, Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: domain.CodeUnauthenticated, Message: "formato: Bearer <token>"})
		}

		ctx := c.UserContext()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		id, err := resolver.Resolve(ctx, strings.TrimSpace(parts[1]))
		if err != nil {
			return respondError(c, err)
		}
		t, err := prov.ResolveOrCreate(ctx, id.ExternalID, id.Email)
		if err != nil {
			return respondError(c, err)
		}

		reqLog := log.With().Str("tenant_id", t.ID).Logger()
		ctx = reqLog.WithContext(tenant.WithTenant(ctx, t))
		c.SetUserContext(ctx)
		c.Locals(LocalTenant, t)

		if err := prov.CheckAccess(t); err != nil {
			return respondError(c, err)
		}
		return c.Next()
	}
}

// GetTenant devuelve el tenant de la petición (después de TenantMiddleware).
func GetTenant(c *fiber.Ctx) *entity.Tenant {
	t, _ := c.Locals(LocalTenant).(*entity.Tenant)
	return t
}

// GetTenantID devuelve el id del tenant de la petición.
func GetTenantID(c *fiber.Ctx) string {
	if t := GetTenant(c); t != nil {
		return t.ID
	}
	return ""
}

// RequireSuperadmin restringe la ruta a tenants superadmin. Debe usarse DESPUÉS de TenantMiddleware.
func RequireSuperadmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		t := GetTenant(c)
		if t == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: domain.CodeUnauthenticated, Message: "tenant no resuelto"})
		}
		if !t.IsSuperadmin {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "requiere superadmin"})
		}
		return c.Next()
	}
}
