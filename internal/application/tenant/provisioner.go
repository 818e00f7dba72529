package tenant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"

	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

// Config reglas de aprovisionamiento.
type Config struct {
	SuperadminEmails []string
	TrialDays        int
}

// Provisioner resuelve (o crea en el primer acceso) el tenant de una identidad externa.
type Provisioner struct {
	repo       repository.TenantRepository
	cache      Cache
	log        zerolog.Logger
	trialDays  int
	superadmin map[string]bool
	group      singleflight.Group
	now        func() time.Time
}

// NewProvisioner construye el aprovisionador. cache puede ser nil (equivale a NopCache).
func NewProvisioner(repo repository.TenantRepository, cache Cache, cfg Config, log zerolog.Logger) *Provisioner {
	if cache == nil {
		cache = NopCache{}
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = 15
	}
	admins := make(map[string]bool, len(cfg.SuperadminEmails))
	for _, e := range cfg.SuperadminEmails {
		if e = normalizeEmail(e); e != "" {
			admins[e] = true
		}
	}
	return &Provisioner{
		repo:       repo,
		cache:      cache,
		log:        log,
		trialDays:  cfg.TrialDays,
		superadmin: admins,
		now:        time.Now,
	}
}

// SetClock reemplaza el reloj (pruebas).
func (p *Provisioner) SetClock(now func() time.Time) { p.now = now }

// normalizeEmail case-fold Unicode; un Caser no es seguro entre goroutines, se crea por llamada.
func normalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// ResolveOrCreate devuelve el tenant de externalID, creándolo en trial si no existe.
// Peticiones simultáneas de la misma identidad comparten una sola resolución.
func (p *Provisioner) ResolveOrCreate(ctx context.Context, externalID, emailHint string) (*entity.Tenant, error) {
	if externalID == "" {
		return nil, domain.Errorf(domain.ErrUnauthenticated, "identidad vacía")
	}

	if t, ok, err := p.cache.Get(ctx, externalID); err != nil {
		p.log.Warn().Err(err).Str("external_id", externalID).Msg("caché de tenants no disponible")
	} else if ok {
		return p.expireTrial(ctx, t)
	}

	ch := p.group.DoChan(externalID, func() (any, error) {
		return p.loadOrCreate(context.WithoutCancel(ctx), externalID, emailHint)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return p.expireTrial(ctx, res.Val.(*entity.Tenant))
	}
}

func (p *Provisioner) loadOrCreate(ctx context.Context, externalID, emailHint string) (*entity.Tenant, error) {
	t, err := p.repo.GetByExternalID(ctx, externalID)
	if err == nil {
		p.cachePut(ctx, t)
		return t, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	email := normalizeEmail(emailHint)
	if email != "" {
		other, err := p.repo.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ExternalID == externalID:
			// otra réplica lo creó entre las dos lecturas
			p.cachePut(ctx, other)
			return other, nil
		case err == nil:
			p.log.Warn().Str("external_id", externalID).Str("tenant_id", other.ID).
				Msg("email ya registrado con otra identidad")
			return nil, domain.Errorf(domain.ErrEmailAlreadyRegistered, "el email %s ya pertenece a otra cuenta", email)
		case !errors.Is(err, domain.ErrNotFound):
			return nil, err
		}
	}

	now := p.now()
	t = &entity.Tenant{
		ID:                 uuid.NewString(),
		ExternalID:         externalID,
		Email:              email,
		SubscriptionStatus: entity.SubscriptionTrial,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if email != "" && p.superadmin[email] {
		t.SubscriptionStatus = entity.SubscriptionActive
		t.IsSuperadmin = true
	} else {
		end := entity.StartOfDay(now).AddDate(0, 0, p.trialDays)
		t.TrialEnd = &end
	}

	stored, created, err := p.repo.Create(ctx, t)
	if err != nil {
		return nil, err
	}
	if created {
		p.log.Info().Str("tenant_id", stored.ID).Str("external_id", externalID).
			Str("status", stored.SubscriptionStatus).Msg("tenant aprovisionado")
	} else {
		p.log.Debug().Str("tenant_id", stored.ID).Msg("tenant creado por otra petición concurrente")
	}
	p.cachePut(ctx, stored)
	return stored, nil
}

// expireTrial pasa a expired un trial vencido.
func (p *Provisioner) expireTrial(ctx context.Context, t *entity.Tenant) (*entity.Tenant, error) {
	if t.IsSuperadmin || !t.TrialExpired(p.now()) {
		return t, nil
	}
	updated, err := p.repo.UpdateSubscription(ctx, t.ID, entity.SubscriptionExpired, nil)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, updated.ExternalID)
	p.log.Info().Str("tenant_id", t.ID).Msg("periodo de prueba vencido")
	return updated, nil
}

// CheckAccess bloquea tenants con suscripción vencida o cancelada.
func (p *Provisioner) CheckAccess(t *entity.Tenant) error {
	if t.Blocked() {
		return domain.Errorf(domain.ErrSubscriptionRequired, "la suscripción está %s", t.SubscriptionStatus)
	}
	return nil
}

// UpdateSubscription registra un evento de facturación y descarta la entrada en caché.
func (p *Provisioner) UpdateSubscription(ctx context.Context, tenantID, status string, nextBilling *time.Time) (*entity.Tenant, error) {
	if !entity.ValidSubscriptionStatus(status) {
		return nil, domain.Errorf(domain.ErrValidation, "estado de suscripción inválido: %q", status)
	}
	t, err := p.repo.UpdateSubscription(ctx, tenantID, status, nextBilling)
	if err != nil {
		return nil, err
	}
	p.invalidate(ctx, t.ExternalID)
	p.log.Info().Str("tenant_id", t.ID).Str("status", status).Msg("suscripción actualizada")
	return t, nil
}

// DaysRemaining días de prueba restantes a la fecha actual.
func (p *Provisioner) DaysRemaining(t *entity.Tenant) int {
	return t.DaysRemaining(p.now())
}

func (p *Provisioner) cachePut(ctx context.Context, t *entity.Tenant) {
	if err := p.cache.Put(ctx, t); err != nil {
		p.log.Warn().Err(err).Str("tenant_id", t.ID).Msg("no se pudo guardar tenant en caché")
	}
}

func (p *Provisioner) invalidate(ctx context.Context, externalID string) {
	if err := p.cache.Invalidate(ctx, externalID); err != nil {
		p.log.Warn().Err(err).Str("external_id", externalID).Msg("no se pudo invalidar caché de tenant")
	}
}
