package tenant

import (
	"context"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

type ctxKey struct{}

// WithTenant adjunta el tenant resuelto al contexto de la petición.
func WithTenant(ctx context.Context, t *entity.Tenant) context.Context {
	return context.WithValue(ctx, ctxKey{}, t)
}

// FromContext devuelve el tenant resuelto por el middleware.
func FromContext(ctx context.Context) (*entity.Tenant, bool) {
	t, ok := ctx.Value(ctxKey{}).(*entity.Tenant)
	return t, ok && t != nil
}

// IDFromContext id del tenant de la petición. Los casos de uso solo toman el tenant de aquí,
// nunca de un parámetro enviado por el cliente.
func IDFromContext(ctx context.Context) (string, error) {
	t, ok := FromContext(ctx)
	if !ok || t.ID == "" {
		return "", domain.Errorf(domain.ErrUnauthenticated, "tenant no resuelto")
	}
	return t.ID, nil
}
