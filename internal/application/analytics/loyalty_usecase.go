// Package analytics contiene los casos de uso de fidelización: puntos por compra y
// segmentación RFM de la cartera.
package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/loyalty"
	"github.com/jhoicas/tienda-pos-api/internal/domain/repository"
)

const maxWindowDays = 730

// LoyaltyUseCase puntos y segmentación.
type LoyaltyUseCase struct {
	stores        repository.StoreFactory
	tiers         loyalty.Tiers
	defaultWindow int
	now           func() time.Time
}

// NewLoyaltyUseCase construye el caso de uso. windowDays <= 0 usa 90 días.
func NewLoyaltyUseCase(stores repository.StoreFactory, tiers loyalty.Tiers, windowDays int) *LoyaltyUseCase {
	if tiers == nil {
		tiers = loyalty.DefaultTiers()
	}
	if windowDays <= 0 {
		windowDays = int(loyalty.DefaultWindow / (24 * time.Hour))
	}
	return &LoyaltyUseCase{stores: stores, tiers: tiers, defaultWindow: windowDays, now: time.Now}
}

// SetClock reemplaza el reloj (pruebas).
func (uc *LoyaltyUseCase) SetClock(now func() time.Time) { uc.now = now }

// TierPoints puntos que otorga una compra por amount.
func (uc *LoyaltyUseCase) TierPoints(amount decimal.Decimal) (*dto.TierPointsResponse, error) {
	if amount.IsNegative() {
		return nil, domain.Errorf(domain.ErrValidation, "amount no puede ser negativo")
	}
	return &dto.TierPointsResponse{Amount: amount, Points: uc.tiers.Points(amount)}, nil
}

// Segments puntúa a los clientes con compras en los últimos windowDays (0 = ventana por defecto).
func (uc *LoyaltyUseCase) Segments(ctx context.Context, windowDays int) (*dto.SegmentsResponse, error) {
	tenantID, err := tenant.IDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if windowDays == 0 {
		windowDays = uc.defaultWindow
	}
	if windowDays < 0 || windowDays > maxWindowDays {
		return nil, domain.Errorf(domain.ErrValidation, "window_days debe estar entre 1 y %d", maxWindowDays)
	}

	asOf := uc.now()
	window := time.Duration(windowDays) * 24 * time.Hour
	purchases, err := uc.stores.ForTenant(tenantID).Sales().ListPurchases(ctx, asOf.Add(-window))
	if err != nil {
		return nil, err
	}

	scores := loyalty.ScoreRFM(purchases, asOf, window)
	out := &dto.SegmentsResponse{
		WindowDays: windowDays,
		Customers:  make([]dto.RFMScoreResponse, 0, len(scores)),
		Counts:     map[string]int{},
	}
	for _, s := range scores {
		out.Customers = append(out.Customers, dto.NewRFMScoreResponse(s))
		out.Counts[s.Segment]++
	}
	return out, nil
}
