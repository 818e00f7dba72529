package memory

import (
	"context"
	"time"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

var _ repository.TenantRepository = (*TenantRepo)(nil)

// TenantRepo tabla global de tenants en memoria.
type TenantRepo struct {
	db *DB
}

// NewTenantRepository construye el repositorio sobre la base dada.
func NewTenantRepository(db *DB) *TenantRepo {
	return &TenantRepo{db: db}
}

func (r *TenantRepo) find(match func(entity.Tenant) bool) (*entity.Tenant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, t := range r.db.st.tenants {
		if match(t) {
			out := t
			return &out, nil
		}
	}
	return nil, domain.NotFound("tenant")
}

func (r *TenantRepo) GetByID(_ context.Context, id string) (*entity.Tenant, error) {
	return r.find(func(t entity.Tenant) bool { return t.ID == id })
}

func (r *TenantRepo) GetByExternalID(_ context.Context, externalID string) (*entity.Tenant, error) {
	return r.find(func(t entity.Tenant) bool { return t.ExternalID == externalID })
}

func (r *TenantRepo) GetByEmail(_ context.Context, email string) (*entity.Tenant, error) {
	if email == "" {
		return nil, domain.NotFound("tenant")
	}
	return r.find(func(t entity.Tenant) bool { return t.Email == email })
}

// Create mismo contrato que el INSERT ... ON CONFLICT (external_id) DO NOTHING de PostgreSQL.
func (r *TenantRepo) Create(_ context.Context, t *entity.Tenant) (*entity.Tenant, bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, existing := range r.db.st.tenants {
		if existing.ExternalID == t.ExternalID {
			out := existing
			return &out, false, nil
		}
	}
	for _, existing := range r.db.st.tenants {
		if t.Email != "" && existing.Email == t.Email {
			return nil, false, domain.Errorf(domain.ErrEmailAlreadyRegistered, "el email %s ya pertenece a otra cuenta", t.Email)
		}
	}
	r.db.st.tenants[t.ID] = *t
	out := *t
	return &out, true, nil
}

func (r *TenantRepo) UpdateSubscription(_ context.Context, id, status string, nextBilling *time.Time) (*entity.Tenant, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	t, ok := r.db.st.tenants[id]
	if !ok {
		return nil, domain.NotFound("tenant")
	}
	t.SubscriptionStatus = status
	if nextBilling != nil {
		nb := *nextBilling
		t.NextBilling = &nb
	}
	t.UpdatedAt = r.db.now()
	r.db.st.tenants[id] = t
	out := t
	return &out, nil
}
