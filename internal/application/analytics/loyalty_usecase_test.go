package analytics_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/application/analytics"
	"github.com/jhoicas/tienda-pos-api/internal/application/dto"
	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/application/tenant"
	"github.com/jhoicas/tienda-pos-api/internal/domain"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
	"github.com/jhoicas/tienda-pos-api/internal/infrastructure/memory"
)

var asOf = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

func ctxA() context.Context {
	return tenant.WithTenant(context.Background(), &entity.Tenant{ID: "A"})
}

func TestTierPoints(t *testing.T) {
	uc := analytics.NewLoyaltyUseCase(memory.New(), nil, 0)

	for amount, want := range map[int64]int64{0: 0, 19999: 0, 20000: 5, 99999: 10, 100000: 25, 500000: 100, 9000000: 100} {
		out, err := uc.TierPoints(decimal.NewFromInt(amount))
		require.NoError(t, err)
		assert.Equal(t, want, out.Points, "monto %d", amount)
	}

	_, err := uc.TierPoints(decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestSegments_VentanaYAnuladas(t *testing.T) {
	ctx := context.Background()
	db := memory.New()
	require.NoError(t, db.ForTenant("A").Products().Create(ctx, &entity.Product{ID: "p1", Name: "Café", Stock: decimal.NewFromInt(1000)}))
	for _, id := range []string{"c1", "c2", "c3", "c4"} {
		require.NoError(t, db.ForTenant("A").Customers().Create(ctx, &entity.Customer{ID: id, Name: id}))
	}
	su, err := sales.NewUseCase(db, sales.Config{}, zerolog.Nop())
	require.NoError(t, err)

	buy := func(customerID string, daysAgo int, total int64) string {
		su.SetClock(func() time.Time { return asOf.AddDate(0, 0, -daysAgo) })
		q, price := decimal.NewFromInt(1), decimal.NewFromInt(total)
		out, err := su.CreateSale(ctxA(), dto.CreateSaleRequest{
			Total:         price,
			PaymentMethod: entity.PaymentCash,
			CustomerID:    &customerID,
			Items:         []dto.SaleItemRequest{{ProductID: "p1", Quantity: &q, UnitPrice: &price, Subtotal: &price}},
		})
		require.NoError(t, err)
		return out.ID
	}

	buy("c1", 2, 300000)
	buy("c1", 10, 150000)
	buy("c1", 20, 80000)
	buy("c2", 60, 20000)
	buy("c3", 200, 900000) // fuera de la ventana
	canceled := buy("c4", 5, 50000)
	_, err = su.CancelSale(ctxA(), canceled)
	require.NoError(t, err)

	uc := analytics.NewLoyaltyUseCase(db, nil, 90)
	uc.SetClock(func() time.Time { return asOf })

	out, err := uc.Segments(ctxA(), 0)
	require.NoError(t, err)
	assert.Equal(t, 90, out.WindowDays)
	require.Len(t, out.Customers, 2)

	c1, c2 := out.Customers[0], out.Customers[1]
	assert.Equal(t, "c1", c1.CustomerID)
	assert.Equal(t, "c2", c2.CustomerID)
	assert.Equal(t, 3, c1.Frequency)
	assert.True(t, c1.Monetary.Equal(decimal.NewFromInt(530000)))
	assert.Equal(t, 2, c1.RecencyDays)
	assert.Greater(t, c1.R, c2.R)
	assert.Greater(t, c1.F, c2.F)
	assert.Greater(t, c1.M, c2.M)

	total := 0
	for _, n := range out.Counts {
		total += n
	}
	assert.Equal(t, 2, total)

	wide, err := uc.Segments(ctxA(), 365)
	require.NoError(t, err)
	assert.Len(t, wide.Customers, 3)
}

func TestSegments_Validaciones(t *testing.T) {
	uc := analytics.NewLoyaltyUseCase(memory.New(), nil, 0)

	_, err := uc.Segments(ctxA(), -1)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Segments(ctxA(), 5000)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = uc.Segments(context.Background(), 30)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	out, err := uc.Segments(ctxA(), 0)
	require.NoError(t, err)
	assert.Empty(t, out.Customers)
	assert.Equal(t, 90, out.WindowDays)
}
