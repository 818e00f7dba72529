package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

var _ tenant.Cache = (*TenantCache)(nil)

const keyPrefix = "tenant:ext:"

// TenantCache caché de tenants en Redis con TTL fija.
type TenantCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTenantCache construye la caché. ttl <= 0 usa una hora.
func NewTenantCache(client *redis.Client, ttl time.Duration) *TenantCache {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TenantCache{client: client, ttl: ttl}
}

type cachedTenant struct {
	ID                 string     `json:"id"`
	ExternalID         string     `json:"external_id"`
	Email              string     `json:"email"`
	BusinessName       string     `json:"business_name"`
	SubscriptionStatus string     `json:"subscription_status"`
	IsSuperadmin       bool       `json:"is_superadmin"`
	TrialEnd           *time.Time `json:"trial_end,omitempty"`
	NextBilling        *time.Time `json:"next_billing,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func key(externalID string) string { return keyPrefix + externalID }

// Get devuelve (nil, false, nil) si no hay entrada.
func (c *TenantCache) Get(ctx context.Context, externalID string) (*entity.Tenant, bool, error) {
	raw, err := c.client.Get(ctx, key(externalID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache get: %w", err)
	}
	var ct cachedTenant
	if err := json.Unmarshal(raw, &ct); err != nil {
		// Entrada corrupta: se descarta y se trata como miss.
		_ = c.client.Del(ctx, key(externalID)).Err()
		return nil, false, nil
	}
	return &entity.Tenant{
		ID:                 ct.ID,
		ExternalID:         ct.ExternalID,
		Email:              ct.Email,
		BusinessName:       ct.BusinessName,
		SubscriptionStatus: ct.SubscriptionStatus,
		IsSuperadmin:       ct.IsSuperadmin,
		TrialEnd:           ct.TrialEnd,
		NextBilling:        ct.NextBilling,
		CreatedAt:          ct.CreatedAt,
		UpdatedAt:          ct.UpdatedAt,
	}, true, nil
}

// Put guarda el tenant con la TTL configurada.
func (c *TenantCache) Put(ctx context.Context, t *entity.Tenant) error {
	raw, err := json.Marshal(cachedTenant{
		ID:                 t.ID,
		ExternalID:         t.ExternalID,
		Email:              t.Email,
		BusinessName:       t.BusinessName,
		SubscriptionStatus: t.SubscriptionStatus,
		IsSuperadmin:       t.IsSuperadmin,
		TrialEnd:           t.TrialEnd,
		NextBilling:        t.NextBilling,
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
	})
	if err != nil {
		return fmt.Errorf("cache encode: %w", err)
	}
	if err := c.client.Set(ctx, key(t.ExternalID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Invalidate borra la entrada de la identidad.
func (c *TenantCache) Invalidate(ctx context.Context, externalID string) error {
	if err := c.client.Del(ctx, key(externalID)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}
