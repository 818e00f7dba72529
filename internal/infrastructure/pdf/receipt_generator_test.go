package pdf

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/tienda-pos-api/internal/application/sales"
	"github.com/jhoicas/tienda-pos-api/internal/domain/entity"
)

func TestMoney(t *testing.T) {
	assert.Equal(t, "$0", money(decimal.Zero))
	assert.Equal(t, "$950", money(decimal.NewFromInt(950)))
	assert.Equal(t, "$25.000", money(decimal.NewFromInt(25000)))
	assert.Equal(t, "$1.250.000", money(decimal.NewFromInt(1250000)))
	assert.Equal(t, "-$20.000", money(decimal.NewFromInt(-20000)))
}

func TestGenerateReceipt_VentaACredito(t *testing.T) {
	status := entity.PaymentStatusPartial
	due := time.Date(2025, 4, 10, 0, 0, 0, 0, time.UTC)
	cust := "c1"
	r := sales.Receipt{
		Tenant: &entity.Tenant{ID: "t1", Email: "tienda@ejemplo.co", BusinessName: "Tienda Don Pepe"},
		Sale: &entity.Sale{
			ID: "s1", SaleNumber: "VTA-20250310-000001", CustomerID: &cust,
			Total: decimal.NewFromInt(100000), PaymentMethod: entity.PaymentCredit,
			Status: entity.SaleStatusCompleted, PaymentStatus: &status,
			AmountPaid: decimal.NewFromInt(60000), AmountPending: decimal.NewFromInt(40000),
			DueDate: &due, PointsEarned: 25, CreatedAt: time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC),
		},
		Customer: &entity.Customer{ID: "c1", Name: "Ana", Document: "1020"},
		Lines: []sales.ReceiptLine{{
			Item: &entity.SaleItem{
				ProductID: "p1", Quantity: decimal.NewFromInt(2),
				UnitPrice: decimal.NewFromInt(50000), Subtotal: decimal.NewFromInt(100000),
			},
			ProductName: "Arroz 5kg",
		}},
		Payments: []*entity.CreditPayment{{
			Amount: decimal.NewFromInt(60000), PaymentMethod: entity.PaymentCash,
			CreatedAt: time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC),
		}},
	}

	out, err := NewReceiptGenerator().GenerateReceipt(context.Background(), r)
	require.NoError(t, err)
	require.NotEmpty(t, out)
	assert.Equal(t, "%PDF", string(out[:4]))
}
