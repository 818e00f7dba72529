package entity

import "time"

// Estados de suscripción del tenant.
const (
	SubscriptionTrial    = "trial"
	SubscriptionActive   = "active"
	SubscriptionExpired  = "expired"
	SubscriptionCanceled = "canceled"
)

// Tenant representa una tienda cliente del SaaS: la unidad de aislamiento de datos.
// ExternalID es el sujeto del proveedor de identidad (único). El ID no cambia nunca.
type Tenant struct {
	ID                 string
	ExternalID         string
	Email              string
	BusinessName       string
	SubscriptionStatus string
	IsSuperadmin       bool
	TrialEnd           *time.Time
	NextBilling        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Blocked indica si la suscripción impide operar (los superadmin nunca se bloquean).
func (t *Tenant) Blocked() bool {
	if t.IsSuperadmin {
		return false
	}
	return t.SubscriptionStatus == SubscriptionExpired || t.SubscriptionStatus == SubscriptionCanceled
}

// TrialExpired indica si el periodo de prueba ya venció a la fecha now.
func (t *Tenant) TrialExpired(now time.Time) bool {
	return t.SubscriptionStatus == SubscriptionTrial && t.TrialEnd != nil && !now.Before(*t.TrialEnd)
}

// DaysRemaining días completos de prueba restantes (0 si no está en trial o ya venció).
// TrialEnd se guarda alineado a medianoche, así que la cuenta es en días enteros.
func (t *Tenant) DaysRemaining(now time.Time) int {
	if t.SubscriptionStatus != SubscriptionTrial || t.TrialEnd == nil {
		return 0
	}
	today := StartOfDay(now.In(t.TrialEnd.Location()))
	days := int(t.TrialEnd.Sub(today).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// ValidSubscriptionStatus verifica que el estado sea uno de los conocidos.
func ValidSubscriptionStatus(s string) bool {
	switch s {
	case SubscriptionTrial, SubscriptionActive, SubscriptionExpired, SubscriptionCanceled:
		return true
	}
	return false
}

// StartOfDay trunca t a la medianoche de su zona horaria.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
