package tenant

import (
	"context"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// Cache caché de tenants por identidad externa. Es solo una optimización: con NopCache
// el comportamiento es el mismo. La TTL la fija la implementación.
type Cache interface {
	Get(ctx context.Context, externalID string) (*entity.Tenant, bool, error)
	Put(ctx context.Context, t *entity.Tenant) error
	Invalidate(ctx context.Context, externalID string) error
}

// NopCache caché deshabilitada.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*entity.Tenant, bool, error) { return nil, false, nil }
func (NopCache) Put(context.Context, *entity.Tenant) error                 { return nil }
func (NopCache) Invalidate(context.Context, string) error                  { return nil }
