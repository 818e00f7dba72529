package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreditPayment abono a una venta a crédito. Registro append-only: nunca se edita ni se borra.
type CreditPayment struct {
	ID            string
	TenantID      string
	SaleID        string
	CustomerID    string
	Amount        decimal.Decimal
	PaymentMethod string
	CashierID     *string
	Notes         *string
	CreatedAt     time.Time
}
