package dto

import "time"

// TenantResponse tenant resuelto para la petición actual.
type TenantResponse struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	BusinessName       string     `json:"business_name"`
	SubscriptionStatus string     `json:"subscription_status"`
	IsSuperadmin       bool       `json:"is_superadmin"`
	TrialEnd           *time.Time `json:"trial_end"`
	NextBilling        *time.Time `json:"next_billing"`
	DaysRemaining      int        `json:"days_remaining"`
}

// UpdateSubscriptionRequest evento de facturación aplicado por un superadmin.
type UpdateSubscriptionRequest struct {
	Status      string     `json:"status" validate:"required,oneof=trial active expired canceled"`
	NextBilling *time.Time `json:"next_billing"`
}
