package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

const tenantColumns = `id, external_id, email, business_name, subscription_status, is_superadmin,
	trial_end, next_billing, created_at, updated_at`

// TenantRepo acceso a la tabla global tenants. No usa Gateway porque tenants no tiene tenant_id.
type TenantRepo struct {
	q Querier
}

// NewTenantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTenantRepository(q Querier) *TenantRepo {
	return &TenantRepo{q: q}
}

func scanTenant(row pgx.Row) (*entity.Tenant, error) {
	var t entity.Tenant
	err := row.Scan(&t.ID, &t.ExternalID, &t.Email, &t.BusinessName, &t.SubscriptionStatus, &t.IsSuperadmin,
		&t.TrialEnd, &t.NextBilling, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.NotFound("tenant")
		}
		return nil, fmt.Errorf("scan tenant: %w", err)
	}
	return &t, nil
}

// GetByID obtiene un tenant por ID.
func (r *TenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	return scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

// GetByExternalID obtiene un tenant por el sujeto del proveedor de identidad.
func (r *TenantRepo) GetByExternalID(ctx context.Context, externalID string) (*entity.Tenant, error) {
	return scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE external_id = $1`, externalID))
}

// GetByEmail obtiene un tenant por email (ya normalizado por el llamador).
func (r *TenantRepo) GetByEmail(ctx context.Context, email string) (*entity.Tenant, error) {
	return scanTenant(r.q.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE email = $1`, email))
}

// Create inserta el tenant con ON CONFLICT (external_id) DO NOTHING. Si otro request ganó la
// carrera no hay RETURNING y se relee la fila existente: ambos observan el mismo ID.
func (r *TenantRepo) Create(ctx context.Context, t *entity.Tenant) (*entity.Tenant, bool, error) {
	query := `
		INSERT INTO tenants (id, external_id, email, business_name, subscription_status, is_superadmin,
			trial_end, next_billing, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING ` + tenantColumns
	stored, err := scanTenant(r.q.QueryRow(ctx, query,
		t.ID, t.ExternalID, t.Email, t.BusinessName, t.SubscriptionStatus, t.IsSuperadmin,
		t.TrialEnd, t.NextBilling, t.CreatedAt, t.UpdatedAt,
	))
	switch {
	case err == nil:
		return stored, true, nil
	case errors.Is(err, domain.ErrNotFound):
		existing, err := r.GetByExternalID(ctx, t.ExternalID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	case isUniqueViolation(err):
		// El único otro índice único es el email.
		return nil, false, domain.Errorf(domain.ErrEmailAlreadyRegistered, "el email %s ya pertenece a otra cuenta", t.Email)
	default:
		return nil, false, fmt.Errorf("insert tenant: %w", err)
	}
}

// UpdateSubscription cambia el estado de suscripción y la próxima fecha de cobro.
func (r *TenantRepo) UpdateSubscription(ctx context.Context, id, status string, nextBilling *time.Time) (*entity.Tenant, error) {
	query := `
		UPDATE tenants SET subscription_status = $2, next_billing = COALESCE($3, next_billing), updated_at = now()
		WHERE id = $1
		RETURNING ` + tenantColumns
	return scanTenant(r.q.QueryRow(ctx, query, id, status, nextBilling))
}
