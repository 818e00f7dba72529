package repository

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

// TenantRepository puerto de persistencia para Tenant. La tabla tenants es global:
// es la única que no pasa por el gateway con alcance de tenant.
type TenantRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Tenant, error)
	GetByExternalID(ctx context.Context, externalID string) (*entity.Tenant, error)
	// GetByEmail busca por email normalizado (case-fold).
	GetByEmail(ctx context.Context, email string) (*entity.Tenant, error)
	// Create inserta de forma idempotente por external_id: si otro proceso ganó la carrera
	// devuelve el tenant existente y created=false.
	Create(ctx context.Context, t *entity.Tenant) (stored *entity.Tenant, created bool, err error)
	UpdateSubscription(ctx context.Context, id, status string, nextBilling *time.Time) (*entity.Tenant, error)
}
